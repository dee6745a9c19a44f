// Package menu реализует интерактивное терминальное меню магазина.
package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avieira/loja-online/internal/model"
	"github.com/avieira/loja-online/internal/payment"
	"github.com/avieira/loja-online/internal/service"
	"github.com/avieira/loja-online/internal/validation"
)

// Service определяет контракт бизнес-логики, используемой терминальным меню.
type Service interface {
	RegisterCustomer(name, cpf, address string) (string, *model.Customer, error)
	Customers() []service.CustomerEntry
	Products() []service.ProductEntry
	Orders() []service.OrderEntry
	CreateOrder(customerID string, items []service.ItemRequest) (string, *model.Order, error)
	PayOrder(orderID string, m payment.Method) (string, error)
	FlushState() error
}

// Menu ведёт терминальный цикл поверх пары reader/writer.
type Menu struct {
	service Service
	in      *bufio.Scanner
	out     io.Writer
	logger  *zap.Logger
}

// New создаёт меню, читающее команды из in и пишущее в out.
func New(svc Service, in io.Reader, out io.Writer, logger *zap.Logger) *Menu {
	return &Menu{
		service: svc,
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logger,
	}
}

// Run выполняет цикл меню, пока пользователь не выберет выход или не
// закончится ввод. Конец ввода равнозначен выходу с сохранением.
func (m *Menu) Run() {
	for {
		m.printMenu()

		choice, ok := m.readLine("Escolha uma opção: ")
		if !ok {
			m.saveAndExit()
			return
		}

		if m.dispatch(choice) {
			return
		}
	}
}

// dispatch выполняет один пункт меню. Паника внутри пункта гасится,
// логируется, и цикл продолжается.
func (m *Menu) dispatch(choice string) (exit bool) {
	defer func() {
		if rec := recover(); rec != nil {
			m.logger.Error("unexpected menu error", zap.Any("error", rec))
			fmt.Fprintf(m.out, "[ERRO INESPERADO] Ocorreu um erro: %v. Voltando ao menu principal.\n", rec)
		}
	}()

	switch choice {
	case "1":
		m.registerCustomer()
	case "2":
		m.listEntities()
	case "3":
		m.createOrder()
	case "4":
		m.processPayment()
	case "0":
		m.saveAndExit()
		return true
	default:
		fmt.Fprintln(m.out, "Opção inválida. Tente novamente.")
	}

	return false
}

func (m *Menu) printMenu() {
	fmt.Fprintln(m.out, "\n"+strings.Repeat("=", 50))
	fmt.Fprintln(m.out, "    SISTEMA DE LOJA ONLINE    ")
	fmt.Fprintln(m.out, strings.Repeat("=", 50))
	fmt.Fprintln(m.out, "1: Cadastrar Cliente")
	fmt.Fprintln(m.out, "2: Listar Entidades")
	fmt.Fprintln(m.out, "3: Criar Novo Pedido")
	fmt.Fprintln(m.out, "4: Processar Pagamento")
	fmt.Fprintln(m.out, "0: Sair e Salvar Dados")
	fmt.Fprintln(m.out, strings.Repeat("=", 50))
}

func (m *Menu) readLine(prompt string) (string, bool) {
	fmt.Fprint(m.out, prompt)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) registerCustomer() {
	fmt.Fprintln(m.out, "\n--- CADASTRO DE CLIENTE ---")

	name, _ := m.readLine("Nome: ")
	cpf, _ := m.readLine("CPF: ")
	address, _ := m.readLine("Endereço: ")

	id, customer, err := m.service.RegisterCustomer(name, cpf, address)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCustomer) {
			fmt.Fprintln(m.out, "[ERRO] Todos os campos são obrigatórios.")
			return
		}
		m.logger.Error("register customer error", zap.Error(err))
		fmt.Fprintf(m.out, "[ERRO] Falha ao cadastrar cliente: %v\n", err)
		return
	}

	fmt.Fprintf(m.out, "\n[SUCESSO] Cliente ID %s cadastrado.\n", id)
	fmt.Fprintf(m.out, "Dados: %s\n", customer.PresentData())
}

func (m *Menu) listEntities() {
	fmt.Fprintln(m.out, "\n--- LISTAGEM DE ENTIDADES ---")

	customers := m.service.Customers()
	products := m.service.Products()
	orders := m.service.Orders()

	if len(customers) == 0 && len(products) == 0 && len(orders) == 0 {
		fmt.Fprintln(m.out, "[AVISO] Nenhuma entidade cadastrada para exibição.")
		return
	}

	fmt.Fprintf(m.out, "\n[CLIENTES] Total: %d\n", len(customers))
	for _, entry := range customers {
		fmt.Fprintf(m.out, "ID %s: %s (%s)\n", entry.ID, entry.Customer.Name, entry.Customer.CPF)
	}

	fmt.Fprintf(m.out, "\n[PRODUTOS] Total: %d\n", len(products))
	for _, entry := range products {
		fmt.Fprintf(m.out, "ID %s: %s (R$ %s)\n", entry.ID, entry.Product.Name, entry.Product.Price.StringFixed(2))
	}

	fmt.Fprintf(m.out, "\n[PEDIDOS] Total: %d\n", len(orders))
	for _, entry := range orders {
		fmt.Fprintf(m.out, "Pedido ID %s: Cliente %s, Total R$ %s (Status: %s)\n",
			entry.ID, entry.Order.Customer.Name, entry.Order.Total().StringFixed(2), entry.Order.Status())
	}
}

func (m *Menu) createOrder() {
	fmt.Fprintln(m.out, "\n--- CRIAR NOVO PEDIDO ---")
	m.listEntities()

	if len(m.service.Customers()) == 0 {
		fmt.Fprintln(m.out, "[ERRO] Não há clientes cadastrados. Crie um cliente primeiro.")
		return
	}

	customerID, ok := m.readLine("\nDigite o ID do Cliente para o pedido: ")
	if !ok {
		return
	}
	if _, found := m.findCustomer(customerID); !found {
		fmt.Fprintln(m.out, "[ERRO] Cliente não encontrado. Retornando ao menu.")
		return
	}

	var requests []service.ItemRequest
	running := decimal.Zero

	for {
		pid, ok := m.readLine("ID do Produto (ou 'f' para finalizar): ")
		if !ok || pid == "f" {
			break
		}

		product, found := m.findProduct(pid)
		if !found {
			fmt.Fprintln(m.out, "[ERRO] Produto não encontrado.")
			continue
		}

		raw, _ := m.readLine("Quantidade: ")
		quantity := validation.ParseQuantity(raw)
		if quantity == 0 {
			fmt.Fprintln(m.out, "[AVISO] Quantidade deve ser um inteiro positivo.")
			continue
		}

		requests = append(requests, service.ItemRequest{ProductID: pid, Quantity: quantity})
		running = running.Add(product.Price.Mul(decimal.NewFromInt(int64(quantity))))
		fmt.Fprintf(m.out, "Item adicionado. Subtotal atual: R$ %s\n", running.StringFixed(2))
	}

	id, order, err := m.service.CreateOrder(customerID, requests)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCustomerNotFound):
			fmt.Fprintln(m.out, "[ERRO] Cliente não encontrado. Retornando ao menu.")
		case errors.Is(err, service.ErrEmptyOrder):
			fmt.Fprintln(m.out, "[AVISO] Pedido vazio. Cancelando e voltando ao menu.")
		default:
			m.logger.Error("create order error", zap.Error(err))
			fmt.Fprintf(m.out, "[ERRO] Falha ao criar pedido: %v\n", err)
		}
		return
	}

	fmt.Fprintf(m.out, "\n[SUCESSO] Pedido ID %s criado e salvo. Total: R$ %s\n", id, order.Total().StringFixed(2))
}

func (m *Menu) processPayment() {
	fmt.Fprintln(m.out, "\n--- PROCESSAR PAGAMENTO ---")
	m.listEntities()

	orderID, ok := m.readLine("\nDigite o ID do Pedido para pagar: ")
	if !ok {
		return
	}

	order, found := m.findOrder(orderID)
	if !found {
		fmt.Fprintln(m.out, "[ERRO] Pedido não encontrado. Retornando ao menu.")
		return
	}
	if order.Paid {
		fmt.Fprintln(m.out, "[AVISO] Pedido já foi pago. Retornando ao menu.")
		return
	}

	fmt.Fprintf(m.out, "Total a pagar: R$ %s\n", order.Total().StringFixed(2))
	fmt.Fprintln(m.out, "Selecione a forma de pagamento:")
	fmt.Fprintln(m.out, "1: Cartão de Crédito")
	fmt.Fprintln(m.out, "2: Pix")

	choice, _ := m.readLine("Opção: ")

	var method payment.Method
	switch choice {
	case "1":
		number, _ := m.readLine("Número do cartão: ")
		method = payment.NewCard(number)
	case "2":
		key, _ := m.readLine("Chave Pix: ")
		method = payment.NewPix(key)
	default:
		fmt.Fprintln(m.out, "[ERRO] Opção inválida. Retornando ao menu.")
		return
	}

	confirmation, err := m.service.PayOrder(orderID, method)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			fmt.Fprintln(m.out, "[ERRO] Pedido não encontrado. Retornando ao menu.")
		case errors.Is(err, service.ErrOrderAlreadyPaid):
			fmt.Fprintln(m.out, "[AVISO] Pedido já foi pago. Retornando ao menu.")
		default:
			m.logger.Error("pay order error", zap.Error(err), zap.String("order", orderID))
			fmt.Fprintf(m.out, "[ERRO] Falha ao processar pagamento: %v\n", err)
		}
		return
	}

	fmt.Fprintln(m.out, confirmation)
	fmt.Fprintf(m.out, "[SUCESSO] Pagamento do Pedido %s processado e salvo. Status: PAGO.\n", orderID)
}

func (m *Menu) saveAndExit() {
	if err := m.service.FlushState(); err != nil {
		m.logger.Error("save on exit error", zap.Error(err))
		fmt.Fprintf(m.out, "[ERRO] Falha ao salvar os dados: %v\n", err)
		return
	}
	fmt.Fprintln(m.out, "Dados salvos. Saindo do sistema. Até logo!")
}

func (m *Menu) findCustomer(id string) (*model.Customer, bool) {
	for _, entry := range m.service.Customers() {
		if entry.ID == id {
			return entry.Customer, true
		}
	}
	return nil, false
}

func (m *Menu) findProduct(id string) (*model.Product, bool) {
	for _, entry := range m.service.Products() {
		if entry.ID == id {
			return entry.Product, true
		}
	}
	return nil, false
}

func (m *Menu) findOrder(id string) (*model.Order, bool) {
	for _, entry := range m.service.Orders() {
		if entry.ID == id {
			return entry.Order, true
		}
	}
	return nil, false
}
