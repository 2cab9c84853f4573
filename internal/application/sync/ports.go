package sync

import (
	"context"

	"github.com/invorya/sevdesk-bridge/internal/application/dto"
	"github.com/invorya/sevdesk-bridge/internal/domain/entity"
)

// AccountingGateway puerto de salida hacia la plataforma contable (sevDesk).
// Los métodos Find* devuelven "" sin error cuando no hay coincidencia; un error
// indica fallo de transporte o de la API, que se propaga sin modificar.
type AccountingGateway interface {
	// FindContactByCustomerNumber busca un contacto por customerNumber
	// (el id del cliente Stripe). Soporta la estrategia lookup-before-create.
	FindContactByCustomerNumber(ctx context.Context, customerNumber string) (string, error)
	CreateContact(ctx context.Context, in dto.ContactInput) (string, error)
	UpdateContact(ctx context.Context, id string, in dto.ContactInput) error

	// FindInvoiceByNumber busca una factura por invoiceNumber.
	FindInvoiceByNumber(ctx context.Context, number string) (string, error)
	CreateInvoice(ctx context.Context, in dto.InvoiceInput) (string, error)
	BookInvoice(ctx context.Context, id string, in dto.BookingInput) error
	CancelInvoice(ctx context.Context, id string) error
}

// PaymentDirectory puerto de salida hacia la plataforma de pagos (Stripe):
// lecturas de cliente/tax rate y escritura del enlace en metadata.
type PaymentDirectory interface {
	// Customer obtiene el cliente con sus identificadores fiscales expandidos.
	Customer(ctx context.Context, id string) (*entity.Customer, error)
	// TaxRatePercentage resuelve el porcentaje de un tax rate por id.
	TaxRatePercentage(ctx context.Context, id string) (float64, error)
	// LinkCustomer escribe el id del contacto sevDesk en la metadata del cliente.
	LinkCustomer(ctx context.Context, customerID, sevdeskID string) error
	// LinkInvoice escribe el id de la factura sevDesk en la metadata de la factura.
	LinkInvoice(ctx context.Context, invoiceID, sevdeskID string) error
}
