package stripeapi

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"

	"github.com/invorya/sevdesk-bridge/internal/application/sync"
	"github.com/invorya/sevdesk-bridge/internal/domain/entity"
)

// Verificar en tiempo de compilación que Directory implementa el puerto.
var _ sync.PaymentDirectory = (*Directory)(nil)

// Directory adaptador sobre stripe-go que implementa sync.PaymentDirectory:
// lecturas de clientes y tax rates, y escritura del enlace sevdesk_id en metadata.
type Directory struct {
	api *client.API
}

// NewDirectory construye el adaptador con la secret key de la cuenta.
func NewDirectory(apiKey string) *Directory {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &Directory{api: api}
}

// Customer lee el cliente con tax_ids expandidos y lo normaliza.
func (d *Directory) Customer(ctx context.Context, id string) (*entity.Customer, error) {
	params := &stripe.CustomerParams{Params: stripe.Params{Context: ctx}}
	params.AddExpand("tax_ids")
	c, err := d.api.Customers.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: leer cliente %s: %w", id, err)
	}
	return MapCustomer(c), nil
}

// TaxRatePercentage resuelve el porcentaje de un tax rate.
func (d *Directory) TaxRatePercentage(ctx context.Context, id string) (float64, error) {
	rate, err := d.api.TaxRates.Get(id, &stripe.TaxRateParams{Params: stripe.Params{Context: ctx}})
	if err != nil {
		return 0, fmt.Errorf("stripe: leer tax rate %s: %w", id, err)
	}
	return rate.Percentage, nil
}

// LinkCustomer escribe el id del contacto sevDesk en la metadata del cliente.
func (d *Directory) LinkCustomer(ctx context.Context, customerID, sevdeskID string) error {
	params := &stripe.CustomerParams{Params: stripe.Params{Context: ctx}}
	params.AddMetadata(entity.LinkKey, sevdeskID)
	if _, err := d.api.Customers.Update(customerID, params); err != nil {
		return fmt.Errorf("stripe: enlazar cliente %s: %w", customerID, err)
	}
	return nil
}

// LinkInvoice escribe el id de la factura sevDesk en la metadata de la factura.
func (d *Directory) LinkInvoice(ctx context.Context, invoiceID, sevdeskID string) error {
	params := &stripe.InvoiceParams{Params: stripe.Params{Context: ctx}}
	params.AddMetadata(entity.LinkKey, sevdeskID)
	if _, err := d.api.Invoices.Update(invoiceID, params); err != nil {
		return fmt.Errorf("stripe: enlazar factura %s: %w", invoiceID, err)
	}
	return nil
}
