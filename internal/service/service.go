// Package service реализует бизнес-логику интернет-магазина.
package service

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/avieira/loja-online/internal/model"
	"github.com/avieira/loja-online/internal/payment"
)

// ErrCustomerNotFound возвращается, если клиент с указанным идентификатором не найден.
var (
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrOrderNotFound возвращается, если заказ с указанным идентификатором не найден.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderAlreadyPaid возвращается при попытке оплатить уже оплаченный заказ.
	ErrOrderAlreadyPaid = errors.New("order already paid")
	// ErrEmptyOrder возвращается, если ни один валидный товар не попал в заказ.
	ErrEmptyOrder = errors.New("order must have at least one item")
	// ErrInvalidCustomer возвращается при регистрации клиента с пустыми полями.
	ErrInvalidCustomer = errors.New("customer fields must not be empty")
)

// Store описывает контракт персистентности, используемый сервисом.
type Store interface {
	Save(*model.Dataset) error
}

// Service владеет набором данных в памяти и сохраняет его целиком после
// каждой изменяющей операции.
type Service struct {
	store Store
	data  *model.Dataset
}

// NewService создаёт сервис поверх загруженного набора данных.
func NewService(store Store, data *model.Dataset) *Service {
	return &Service{
		store: store,
		data:  data,
	}
}

// RegisterCustomer регистрирует нового клиента, выдаёт ему следующий
// идентификатор и сохраняет набор данных.
func (s *Service) RegisterCustomer(name, cpf, address string) (string, *model.Customer, error) {
	if name == "" || cpf == "" || address == "" {
		return "", nil, ErrInvalidCustomer
	}

	customer := model.NewCustomer(name, cpf, address)
	id := strconv.Itoa(s.data.NextIDs.Customer)
	s.data.Customers[id] = customer
	s.data.NextIDs.Customer++

	if err := s.store.Save(s.data); err != nil {
		return "", nil, fmt.Errorf("save dataset: %w", err)
	}

	return id, customer, nil
}

// CustomerEntry связывает клиента с его идентификатором в наборе данных.
type CustomerEntry struct {
	ID       string
	Customer *model.Customer
}

// ProductEntry связывает товар с его идентификатором в наборе данных.
type ProductEntry struct {
	ID      string
	Product *model.Product
}

// OrderEntry связывает заказ с его идентификатором в наборе данных.
type OrderEntry struct {
	ID    string
	Order *model.Order
}

// Customers возвращает клиентов, упорядоченных по числовому идентификатору.
func (s *Service) Customers() []CustomerEntry {
	entries := make([]CustomerEntry, 0, len(s.data.Customers))
	for _, id := range sortedIDs(s.data.Customers) {
		entries = append(entries, CustomerEntry{ID: id, Customer: s.data.Customers[id]})
	}
	return entries
}

// Products возвращает товары, упорядоченные по числовому идентификатору.
func (s *Service) Products() []ProductEntry {
	entries := make([]ProductEntry, 0, len(s.data.Products))
	for _, id := range sortedIDs(s.data.Products) {
		entries = append(entries, ProductEntry{ID: id, Product: s.data.Products[id]})
	}
	return entries
}

// Orders возвращает заказы, упорядоченные по числовому идентификатору.
func (s *Service) Orders() []OrderEntry {
	entries := make([]OrderEntry, 0, len(s.data.Orders))
	for _, id := range sortedIDs(s.data.Orders) {
		entries = append(entries, OrderEntry{ID: id, Order: s.data.Orders[id]})
	}
	return entries
}

// ItemRequest описывает одну запрошенную строку заказа.
type ItemRequest struct {
	ProductID string
	Quantity  int
}

// CreateOrder создаёт заказ для клиента из валидных строк. Строки с
// неизвестным товаром или неположительным количеством пропускаются;
// заказ без единой валидной строки не создаётся, счётчик
// идентификаторов не сдвигается.
func (s *Service) CreateOrder(customerID string, items []ItemRequest) (string, *model.Order, error) {
	customer, ok := s.data.Customers[customerID]
	if !ok {
		return "", nil, ErrCustomerNotFound
	}

	order := model.NewOrder(customerID, customer)
	for _, req := range items {
		product, ok := s.data.Products[req.ProductID]
		if !ok || req.Quantity <= 0 {
			continue
		}
		order.AddItem(product, req.Quantity)
	}
	if len(order.Items) == 0 {
		return "", nil, ErrEmptyOrder
	}

	id := strconv.Itoa(s.data.NextIDs.Order)
	s.data.Orders[id] = order
	s.data.NextIDs.Order++

	if err := s.store.Save(s.data); err != nil {
		return "", nil, fmt.Errorf("save dataset: %w", err)
	}

	return id, order, nil
}

// PayOrder финализирует заказ через указанный способ оплаты, сохраняет
// набор данных и возвращает текст подтверждения.
func (s *Service) PayOrder(orderID string, m payment.Method) (string, error) {
	order, ok := s.data.Orders[orderID]
	if !ok {
		return "", ErrOrderNotFound
	}

	confirmation, err := order.Finalize(m)
	if err != nil {
		if errors.Is(err, model.ErrAlreadyPaid) {
			return "", ErrOrderAlreadyPaid
		}
		return "", fmt.Errorf("finalize order: %w", err)
	}

	if err := s.store.Save(s.data); err != nil {
		return "", fmt.Errorf("save dataset: %w", err)
	}

	return confirmation, nil
}

// FlushState сохраняет текущий набор данных без изменений.
func (s *Service) FlushState() error {
	if err := s.store.Save(s.data); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}
	return nil
}

// sortedIDs возвращает ключи карты, упорядоченные как числа; нечисловые
// ключи упорядочиваются лексикографически после равных чисел.
func sortedIDs[T any](m map[string]T) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, _ := strconv.Atoi(ids[i])
		b, _ := strconv.Atoi(ids[j])
		if a != b {
			return a < b
		}
		return ids[i] < ids[j]
	})
	return ids
}
