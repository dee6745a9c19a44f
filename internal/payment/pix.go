package payment

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Pix реализует оплату мгновенным переводом Pix по ключу плательщика.
type Pix struct {
	amount decimal.Decimal
	Key    string
}

// NewPix создаёт оплату Pix с указанным ключом.
func NewPix(key string) *Pix {
	return &Pix{Key: key}
}

// Amount возвращает сумму оплаты.
func (p *Pix) Amount() decimal.Decimal { return p.amount }

// SetAmount выставляет сумму оплаты.
func (p *Pix) SetAmount(v decimal.Decimal) { p.amount = v }

// Process выполняет логику оплаты Pix и возвращает подтверждение
// о мгновенном зачислении.
func (p *Pix) Process() string {
	return fmt.Sprintf(
		"Processando R$ %s via Pix (Chave: %s). Confirmação imediata.",
		p.amount.StringFixed(2), p.Key,
	)
}
