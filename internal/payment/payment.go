// Package payment содержит контракт оплаты и его конкретные варианты.
package payment

import "github.com/shopspring/decimal"

// Method определяет контракт способа оплаты. Process выполняет логику
// конкретного варианта и возвращает текст подтверждения; как его
// отобразить, решает вызывающая сторона. Сумма выставляется заказом при
// финализации, а не создателем способа оплаты.
type Method interface {
	Process() string
	Amount() decimal.Decimal
	SetAmount(decimal.Decimal)
}
