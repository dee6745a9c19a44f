// Package model содержит доменные сущности интернет-магазина.
package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/avieira/loja-online/internal/payment"
)

// ErrAlreadyPaid возвращается при попытке финализировать уже оплаченный заказ.
var ErrAlreadyPaid = errors.New("order already paid")

// Presenter реализуют сущности, умеющие отображать собственные данные.
type Presenter interface {
	PresentData() string
}

// Person содержит атрибуты, общие для всех людей в системе.
type Person struct {
	Name string
	CPF  string
}

// PresentData возвращает базовое представление данных человека.
func (p Person) PresentData() string {
	return fmt.Sprintf("Nome: %s, CPF: %s", p.Name, p.CPF)
}

// Customer представляет клиента магазина: человека с адресом доставки.
type Customer struct {
	Person
	Address string
}

// NewCustomer создаёт клиента с указанными именем, CPF и адресом.
func NewCustomer(name, cpf, address string) *Customer {
	return &Customer{
		Person:  Person{Name: name, CPF: cpf},
		Address: address,
	}
}

// PresentData расширяет базовое представление данными клиента.
func (c *Customer) PresentData() string {
	return fmt.Sprintf("%s, Endereço: %s (CLIENTE)", c.Person.PresentData(), c.Address)
}

// Product описывает продаваемый товар. После создания не изменяется.
type Product struct {
	Name  string
	Price decimal.Decimal
}

// NewProduct создаёт товар с указанными названием и ценой.
func NewProduct(name string, price decimal.Decimal) *Product {
	return &Product{Name: name, Price: price}
}

// LineItem представляет одну строку заказа. Подытог фиксируется в момент
// создания и не пересчитывается при последующем изменении цены товара.
type LineItem struct {
	Product  *Product
	Quantity int
	Subtotal decimal.Decimal
}

// NewLineItem создаёт строку заказа для товара и количества. Проверка
// положительности количества лежит на вызывающей стороне.
func NewLineItem(product *Product, quantity int) *LineItem {
	return &LineItem{
		Product:  product,
		Quantity: quantity,
		Subtotal: product.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

func (i *LineItem) String() string {
	return fmt.Sprintf("- %dx %s (R$ %s)", i.Quantity, i.Product.Name, i.Subtotal.StringFixed(2))
}

// Order связывает клиента с упорядоченным списком строк заказа. Строки
// принадлежат заказу; клиент — нет, заказ хранит его идентификатор.
type Order struct {
	CustomerID string
	Customer   *Customer
	Items      []*LineItem
	Paid       bool
}

// NewOrder создаёт пустой неоплаченный заказ для клиента.
func NewOrder(customerID string, customer *Customer) *Order {
	return &Order{
		CustomerID: customerID,
		Customer:   customer,
	}
}

// AddItem добавляет в заказ новую строку. Один и тот же товар может
// встречаться в нескольких строках, строки не объединяются.
func (o *Order) AddItem(product *Product, quantity int) {
	o.Items = append(o.Items, NewLineItem(product, quantity))
}

// Total возвращает сумму подытогов всех строк заказа.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal)
	}
	return total
}

// Finalize списывает полную стоимость заказа через указанный способ
// оплаты и помечает заказ оплаченным. Повторная финализация возвращает
// ErrAlreadyPaid.
func (o *Order) Finalize(m payment.Method) (string, error) {
	if o.Paid {
		return "", ErrAlreadyPaid
	}

	m.SetAmount(o.Total())
	confirmation := m.Process()
	o.Paid = true

	return confirmation, nil
}

// Status возвращает отображаемый статус заказа.
func (o *Order) Status() string {
	if o.Paid {
		return "PAGO"
	}
	return "ABERTO"
}

// NextIDs содержит монотонно растущие счётчики идентификаторов.
type NextIDs struct {
	Customer int
	Order    int
}

// Dataset представляет полное состояние системы в памяти, целиком
// зеркалируемое в файл данных.
type Dataset struct {
	Customers map[string]*Customer
	Products  map[string]*Product
	Orders    map[string]*Order
	NextIDs   NextIDs
}
