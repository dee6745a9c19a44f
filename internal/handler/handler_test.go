package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avieira/loja-online/internal/model"
	"github.com/avieira/loja-online/internal/payment"
	"github.com/avieira/loja-online/internal/service"
)

type stubService struct {
	registerID  string
	registerErr error
	registered  [][3]string

	customers []service.CustomerEntry
	products  []service.ProductEntry
	orders    []service.OrderEntry

	createOrderErr   error
	createOrderItems []service.ItemRequest

	payConfirmation string
	payErr          error
	payMethod       payment.Method
}

func (s *stubService) RegisterCustomer(name, cpf, address string) (string, *model.Customer, error) {
	s.registered = append(s.registered, [3]string{name, cpf, address})
	if s.registerErr != nil {
		return "", nil, s.registerErr
	}
	return s.registerID, model.NewCustomer(name, cpf, address), nil
}

func (s *stubService) Customers() []service.CustomerEntry { return s.customers }

func (s *stubService) Products() []service.ProductEntry { return s.products }

func (s *stubService) Orders() []service.OrderEntry { return s.orders }

func (s *stubService) CreateOrder(customerID string, items []service.ItemRequest) (string, *model.Order, error) {
	s.createOrderItems = items
	if s.createOrderErr != nil {
		return "", nil, s.createOrderErr
	}
	return "1", model.NewOrder(customerID, model.NewCustomer("c", "1", "r")), nil
}

func (s *stubService) PayOrder(orderID string, m payment.Method) (string, error) {
	s.payMethod = m
	return s.payConfirmation, s.payErr
}

func newTestHandler(t *testing.T, svc Service) *Handler {
	t.Helper()

	logger, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	return NewHandler(svc, logger)
}

func postForm(t *testing.T, h http.HandlerFunc, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestDashboard(t *testing.T) {
	customer := model.NewCustomer("João Silva", "000.111.222-33", "Rua Principal")
	product := model.NewProduct("PC Gamer Z100", decimal.NewFromFloat(6500))

	order := model.NewOrder("1", customer)
	order.AddItem(product, 2)

	svc := &stubService{
		customers: []service.CustomerEntry{{ID: "1", Customer: customer}},
		products:  []service.ProductEntry{{ID: "101", Product: product}},
		orders:    []service.OrderEntry{{ID: "1", Order: order}},
	}
	h := newTestHandler(t, svc)

	w := httptest.NewRecorder()
	h.Dashboard(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type = %q", ct)
	}

	var resp struct {
		Customers []struct {
			ID   string `json:"id"`
			Name string `json:"nome"`
		} `json:"clientes"`
		Products []struct {
			Price string `json:"preco"`
		} `json:"produtos"`
		Orders []struct {
			Customer string `json:"cliente"`
			Total    string `json:"total"`
			Status   string `json:"status"`
		} `json:"pedidos"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(resp.Customers) != 1 || resp.Customers[0].Name != "João Silva" {
		t.Fatalf("customers wrong: %+v", resp.Customers)
	}
	if len(resp.Products) != 1 || resp.Products[0].Price != "6500.00" {
		t.Fatalf("products wrong: %+v", resp.Products)
	}
	if len(resp.Orders) != 1 || resp.Orders[0].Total != "13000.00" || resp.Orders[0].Status != "ABERTO" {
		t.Fatalf("orders wrong: %+v", resp.Orders)
	}
}

func TestRegisterCustomer_Success(t *testing.T) {
	svc := &stubService{registerID: "2"}
	h := newTestHandler(t, svc)

	w := postForm(t, h.RegisterCustomer, "/cadastrar_cliente", url.Values{
		"nome":     {"Ana"},
		"cpf":      {"111"},
		"endereco": {"Rua A"},
	})

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if len(svc.registered) != 1 || svc.registered[0] != [3]string{"Ana", "111", "Rua A"} {
		t.Fatalf("service called with %v", svc.registered)
	}
}

func TestRegisterCustomer_EmptyFields(t *testing.T) {
	svc := &stubService{registerErr: service.ErrInvalidCustomer}
	h := newTestHandler(t, svc)

	w := postForm(t, h.RegisterCustomer, "/cadastrar_cliente", url.Values{
		"nome": {"Ana"},
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCreateOrder_ParsesQuantities(t *testing.T) {
	svc := &stubService{}
	h := newTestHandler(t, svc)

	w := postForm(t, h.CreateOrder, "/cadastrar_pedido", url.Values{
		"cliente_id":     {"1"},
		"produto_id":     {"101", "102"},
		"quantidade_101": {"1"},
		"quantidade_102": {"abc"},
	})

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusSeeOther)
	}

	want := []service.ItemRequest{
		{ProductID: "101", Quantity: 1},
		{ProductID: "102", Quantity: 0},
	}
	if len(svc.createOrderItems) != len(want) {
		t.Fatalf("items = %v, want %v", svc.createOrderItems, want)
	}
	for i := range want {
		if svc.createOrderItems[i] != want[i] {
			t.Fatalf("item %d = %v, want %v", i, svc.createOrderItems[i], want[i])
		}
	}
}

func TestCreateOrder_Errors(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "unknown customer",
			serviceErr: service.ErrCustomerNotFound,
			wantStatus: http.StatusBadRequest,
			wantBody:   "Cliente não encontrado.",
		},
		{
			name:       "no valid items",
			serviceErr: service.ErrEmptyOrder,
			wantStatus: http.StatusBadRequest,
			wantBody:   "O pedido deve ter pelo menos um item.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{createOrderErr: tt.serviceErr}
			h := newTestHandler(t, svc)

			w := postForm(t, h.CreateOrder, "/cadastrar_pedido", url.Values{
				"cliente_id": {"42"},
				"produto_id": {"101"},
			})

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Fatalf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestPayOrder_Success(t *testing.T) {
	svc := &stubService{payConfirmation: "Processando R$ 8900.00 via Pix (Chave: k). Confirmação imediata."}
	h := newTestHandler(t, svc)

	w := postForm(t, h.PayOrder, "/pagar_pedido", url.Values{
		"pedido_id": {"1"},
		"forma":     {"pix"},
		"chave_pix": {"k"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "Confirmação imediata") {
		t.Fatalf("body = %q, want the confirmation text", w.Body.String())
	}
	if _, ok := svc.payMethod.(*payment.Pix); !ok {
		t.Fatalf("payment method = %T, want *payment.Pix", svc.payMethod)
	}
}

func TestPayOrder_BuildsCard(t *testing.T) {
	svc := &stubService{payConfirmation: "ok"}
	h := newTestHandler(t, svc)

	w := postForm(t, h.PayOrder, "/pagar_pedido", url.Values{
		"pedido_id":  {"1"},
		"forma":      {"cartao"},
		"num_cartao": {"1234 5678 9012 3456"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	card, ok := svc.payMethod.(*payment.Card)
	if !ok {
		t.Fatalf("payment method = %T, want *payment.Card", svc.payMethod)
	}
	if card.CardNumber != "1234 5678 9012 3456" {
		t.Fatalf("card number = %q", card.CardNumber)
	}
}

func TestPayOrder_Errors(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		serviceErr error
		wantStatus int
	}{
		{
			name:       "unknown method",
			form:       url.Values{"pedido_id": {"1"}, "forma": {"cheque"}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "order not found",
			form:       url.Values{"pedido_id": {"7"}, "forma": {"pix"}},
			serviceErr: service.ErrOrderNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "already paid",
			form:       url.Values{"pedido_id": {"1"}, "forma": {"pix"}},
			serviceErr: service.ErrOrderAlreadyPaid,
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{payErr: tt.serviceErr}
			h := newTestHandler(t, svc)

			w := postForm(t, h.PayOrder, "/pagar_pedido", tt.form)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	h := newTestHandler(t, &stubService{})
	r := h.SetupRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
