package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContactInput datos para crear o actualizar un contacto sevDesk.
// VATNumber y TaxType son punteros a propósito: nil significa que el campo
// debe viajar como null explícito en el payload (limpiar el valor anterior),
// no que se omita.
type ContactInput struct {
	Name           string
	CategoryID     int
	CustomerNumber string // id del cliente Stripe; clave de búsqueda idempotente
	Description    string // id del cliente Stripe, para trazabilidad
	ExemptVAT      bool
	VATNumber      *string
	TaxType        *string
}

// InvoiceLineInput línea de la factura contable.
type InvoiceLineInput struct {
	Quantity  int64
	UnitPrice decimal.Decimal
	Name      string
	TaxRate   *decimal.Decimal // nil si la línea no lleva tax rate
}

// InvoiceInput datos para crear una factura sevDesk.
type InvoiceInput struct {
	Number    string
	ContactID string
	Date      time.Time
	TaxType   string // eu | noteu | default
	Currency  string // código ISO en mayúsculas
	Lines     []InvoiceLineInput
}

// BookingInput datos para contabilizar (marcar pagada) una factura sevDesk.
type BookingInput struct {
	Amount         decimal.Decimal
	Date           time.Time
	CheckAccountID string
}
