// Package handler содержит HTTP-обработчики сервиса интернет-магазина.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/avieira/loja-online/internal/model"
	"github.com/avieira/loja-online/internal/payment"
	"github.com/avieira/loja-online/internal/service"
	"github.com/avieira/loja-online/internal/validation"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	RegisterCustomer(name, cpf, address string) (string, *model.Customer, error)
	Customers() []service.CustomerEntry
	Products() []service.ProductEntry
	Orders() []service.OrderEntry
	CreateOrder(customerID string, items []service.ItemRequest) (string, *model.Order, error)
	PayOrder(orderID string, m payment.Method) (string, error)
}

// Handler реализует HTTP-обработчики сервиса интернет-магазина.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: s,
		logger:  logger,
	}
}

type customerResponse struct {
	ID      string `json:"id"`
	Name    string `json:"nome"`
	CPF     string `json:"cpf"`
	Address string `json:"endereco"`
}

type productResponse struct {
	ID    string `json:"id"`
	Name  string `json:"nome"`
	Price string `json:"preco"`
}

type orderItemResponse struct {
	Product  string `json:"produto"`
	Quantity int    `json:"quantidade"`
	Subtotal string `json:"subtotal"`
}

type orderResponse struct {
	ID       string              `json:"id"`
	Customer string              `json:"cliente"`
	Items    []orderItemResponse `json:"itens"`
	Total    string              `json:"total"`
	Status   string              `json:"status"`
}

type dashboardResponse struct {
	Customers []customerResponse `json:"clientes"`
	Products  []productResponse  `json:"produtos"`
	Orders    []orderResponse    `json:"pedidos"`
}

// Dashboard возвращает все три коллекции одним JSON-документом.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	resp := dashboardResponse{
		Customers: make([]customerResponse, 0),
		Products:  make([]productResponse, 0),
		Orders:    make([]orderResponse, 0),
	}

	for _, entry := range h.service.Customers() {
		resp.Customers = append(resp.Customers, customerResponse{
			ID:      entry.ID,
			Name:    entry.Customer.Name,
			CPF:     entry.Customer.CPF,
			Address: entry.Customer.Address,
		})
	}

	for _, entry := range h.service.Products() {
		resp.Products = append(resp.Products, productResponse{
			ID:    entry.ID,
			Name:  entry.Product.Name,
			Price: entry.Product.Price.StringFixed(2),
		})
	}

	for _, entry := range h.service.Orders() {
		items := make([]orderItemResponse, 0, len(entry.Order.Items))
		for _, item := range entry.Order.Items {
			items = append(items, orderItemResponse{
				Product:  item.Product.Name,
				Quantity: item.Quantity,
				Subtotal: item.Subtotal.StringFixed(2),
			})
		}
		resp.Orders = append(resp.Orders, orderResponse{
			ID:       entry.ID,
			Customer: entry.Order.Customer.Name,
			Items:    items,
			Total:    entry.Order.Total().StringFixed(2),
			Status:   entry.Order.Status(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
}

// RegisterCustomer обрабатывает регистрацию нового клиента из формы.
func (h *Handler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	name := r.PostFormValue("nome")
	cpf := r.PostFormValue("cpf")
	address := r.PostFormValue("endereco")

	_, _, err := h.service.RegisterCustomer(name, cpf, address)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCustomer) {
			http.Error(w, "Todos os campos são obrigatórios.", http.StatusBadRequest)
			return
		}
		h.logger.Error("register customer error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// CreateOrder обрабатывает создание заказа из формы: cliente_id,
// повторяющиеся produto_id и поле quantidade_<id> для каждого товара.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	customerID := r.PostFormValue("cliente_id")
	productIDs := r.PostForm["produto_id"]

	items := make([]service.ItemRequest, 0, len(productIDs))
	for _, pid := range productIDs {
		items = append(items, service.ItemRequest{
			ProductID: pid,
			Quantity:  validation.ParseQuantity(r.PostFormValue("quantidade_" + pid)),
		})
	}

	_, _, err := h.service.CreateOrder(customerID, items)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCustomerNotFound):
			http.Error(w, "Cliente não encontrado.", http.StatusBadRequest)
		case errors.Is(err, service.ErrEmptyOrder):
			http.Error(w, "O pedido deve ter pelo menos um item.", http.StatusBadRequest)
		default:
			h.logger.Error("create order error", zap.Error(err), zap.String("customer", customerID))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// PayOrder обрабатывает оплату заказа из формы: pedido_id и forma
// (cartao или pix) с реквизитами выбранного способа.
func (h *Handler) PayOrder(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	orderID := r.PostFormValue("pedido_id")

	var method payment.Method
	switch r.PostFormValue("forma") {
	case "cartao":
		method = payment.NewCard(r.PostFormValue("num_cartao"))
	case "pix":
		method = payment.NewPix(r.PostFormValue("chave_pix"))
	default:
		http.Error(w, "Forma de pagamento inválida.", http.StatusBadRequest)
		return
	}

	confirmation, err := h.service.PayOrder(orderID, method)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			http.Error(w, "Pedido não encontrado.", http.StatusNotFound)
		case errors.Is(err, service.ErrOrderAlreadyPaid):
			http.Error(w, "Pedido já foi pago.", http.StatusConflict)
		default:
			h.logger.Error("pay order error", zap.Error(err), zap.String("order", orderID))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(confirmation))
}
