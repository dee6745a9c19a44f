package payment

import (
	"fmt"
	"unicode"

	"github.com/shopspring/decimal"
)

// Card реализует оплату банковской картой. В подтверждении номер карты
// показывается только последними четырьмя цифрами.
type Card struct {
	amount     decimal.Decimal
	CardNumber string
}

// NewCard создаёт оплату картой с указанным номером.
func NewCard(cardNumber string) *Card {
	return &Card{CardNumber: cardNumber}
}

// Amount возвращает сумму оплаты.
func (c *Card) Amount() decimal.Decimal { return c.amount }

// SetAmount выставляет сумму оплаты.
func (c *Card) SetAmount(v decimal.Decimal) { c.amount = v }

// Process выполняет логику оплаты картой и возвращает подтверждение
// с учётом комиссии.
func (c *Card) Process() string {
	return fmt.Sprintf(
		"Processando R$ %s via Cartão (Final %s). Lógica de Cartão aplicada (Taxa de 5%%).",
		c.amount.StringFixed(2), lastFourDigits(c.CardNumber),
	)
}

// lastFourDigits оставляет от номера карты только последние четыре цифры.
func lastFourDigits(number string) string {
	digits := make([]rune, 0, len(number))
	for _, r := range number {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	if len(digits) <= 4 {
		return string(digits)
	}
	return string(digits[len(digits)-4:])
}
