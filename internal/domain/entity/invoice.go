package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LinkKey clave de metadata bajo la que se guarda el id sevDesk enlazado.
// El enlace es unidireccional (entidad de pago → id contable) y best-effort:
// no se mantiene índice inverso.
const LinkKey = "sevdesk_id"

// Clasificación de exención fiscal de la factura, tal como la reporta Stripe.
const (
	TaxExemptStatusExempt  = "exempt"  // exenta → taxType "eu" en sevDesk
	TaxExemptStatusReverse = "reverse" // inversión del sujeto pasivo → "noteu"
	TaxExemptStatusNone    = "none"    // caso estándar → "default"
)

// Invoice representa una factura de la plataforma de pagos, normalizada.
type Invoice struct {
	ID              string
	Number          string
	CreatedAt       time.Time
	Currency        string // código ISO en minúsculas tal como llega de Stripe
	TaxExemptStatus string // exempt | reverse | none
	AmountPaid      decimal.Decimal
	CustomerID      string
	Lines           []LineItem
	Metadata        map[string]string
}

// SevdeskID devuelve el id de la factura sevDesk enlazada, o "" si no existe enlace.
func (i *Invoice) SevdeskID() string {
	return i.Metadata[LinkKey]
}

// LineItem línea de factura. Una línea con más de un tax rate es una condición
// rechazada (ErrMultipleTaxRates), no un caso soportado.
type LineItem struct {
	Quantity    int64
	Amount      decimal.Decimal // importe total de la línea
	Description string
	TaxRateIDs  []string
}

// UnitPrice devuelve el precio unitario (Amount / Quantity).
// Con cantidad cero devuelve el importe completo para no dividir por cero.
func (l LineItem) UnitPrice() decimal.Decimal {
	if l.Quantity <= 0 {
		return l.Amount
	}
	return l.Amount.Div(decimal.NewFromInt(l.Quantity))
}
