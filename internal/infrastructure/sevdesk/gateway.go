package sevdesk

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/invorya/sevdesk-bridge/internal/application/dto"
	"github.com/invorya/sevdesk-bridge/internal/application/sync"
)

// Verificar en tiempo de compilación que Gateway implementa el puerto.
var _ sync.AccountingGateway = (*Gateway)(nil)

// Gateway adaptador tipado sobre Client que implementa sync.AccountingGateway.
// Traduce los inputs de la capa de aplicación al modelo de la API sevDesk.
type Gateway struct {
	client *Client
}

// NewGateway construye la pasarela contable.
func NewGateway(client *Client) *Gateway {
	return &Gateway{client: client}
}

// FindContactByCustomerNumber busca un contacto por customerNumber (el id del
// cliente Stripe). Devuelve "" sin error si no hay coincidencia.
func (g *Gateway) FindContactByCustomerNumber(ctx context.Context, customerNumber string) (string, error) {
	var resp listResponse
	query := url.Values{"customerNumber": {customerNumber}}
	if err := g.client.Get(ctx, "Contact", query, &resp); err != nil {
		return "", err
	}
	if len(resp.Objects) == 0 {
		return "", nil
	}
	return resp.Objects[0].ID, nil
}

// CreateContact crea el contacto y devuelve su id.
func (g *Gateway) CreateContact(ctx context.Context, in dto.ContactInput) (string, error) {
	var resp objectResponse
	if err := g.client.Post(ctx, "Contact", g.contactPayload(in), &resp); err != nil {
		return "", err
	}
	if resp.Objects.ID == "" {
		return "", fmt.Errorf("sevdesk: la creación del contacto no devolvió id")
	}
	return resp.Objects.ID, nil
}

// UpdateContact actualiza el contacto existente en sitio.
func (g *Gateway) UpdateContact(ctx context.Context, id string, in dto.ContactInput) error {
	return g.client.Put(ctx, "Contact/"+id, g.contactPayload(in), nil)
}

// FindInvoiceByNumber busca una factura por invoiceNumber. "" si no existe.
func (g *Gateway) FindInvoiceByNumber(ctx context.Context, number string) (string, error) {
	var resp listResponse
	query := url.Values{"invoiceNumber": {number}}
	if err := g.client.Get(ctx, "Invoice", query, &resp); err != nil {
		return "", err
	}
	if len(resp.Objects) == 0 {
		return "", nil
	}
	return resp.Objects[0].ID, nil
}

// CreateInvoice crea la factura vía Factory/saveInvoice y devuelve su id.
func (g *Gateway) CreateInvoice(ctx context.Context, in dto.InvoiceInput) (string, error) {
	payload := saveInvoicePayload{
		Invoice: invoicePayload{
			InvoiceNumber: in.Number,
			Contact:       objectRef{ID: in.ContactID, ObjectName: "Contact"},
			InvoiceDate:   in.Date.Format(dateLayout),
			Status:        invoiceStatusOpen,
			InvoiceType:   invoiceTypeRE,
			SendType:      sendTypeVPDF,
			TaxType:       in.TaxType,
			Currency:      in.Currency,
			MapAll:        true,
		},
	}
	for _, line := range in.Lines {
		payload.InvoicePosSave = append(payload.InvoicePosSave, invoicePosPayload{
			Quantity: line.Quantity,
			Price:    line.UnitPrice,
			Name:     line.Name,
			TaxRate:  line.TaxRate,
			Unity:    objectRef{ID: "1", ObjectName: "Unity"},
			MapAll:   true,
		})
	}

	var resp saveInvoiceResponse
	if err := g.client.Post(ctx, "Invoice/Factory/saveInvoice", payload, &resp); err != nil {
		return "", err
	}
	if resp.Objects.Invoice.ID == "" {
		return "", fmt.Errorf("sevdesk: la creación de la factura no devolvió id")
	}
	return resp.Objects.Invoice.ID, nil
}

// BookInvoice contabiliza el importe cobrado sobre la factura (bookAmount).
func (g *Gateway) BookInvoice(ctx context.Context, id string, in dto.BookingInput) error {
	payload := bookAmountPayload{
		Amount: in.Amount,
		Date:   in.Date.Format(dateLayout),
		Type:   bookingTypeNormal,
		CheckAccount: objectRef{
			ID:         in.CheckAccountID,
			ObjectName: "CheckAccount",
		},
	}
	return g.client.Put(ctx, "Invoice/"+id+"/bookAmount", payload, nil)
}

// CancelInvoice cancela la factura (genera la factura de anulación en sevDesk).
func (g *Gateway) CancelInvoice(ctx context.Context, id string) error {
	return g.client.Post(ctx, "Invoice/"+id+"/cancelInvoice", nil, nil)
}

func (g *Gateway) contactPayload(in dto.ContactInput) contactPayload {
	return contactPayload{
		Name:           in.Name,
		CustomerNumber: in.CustomerNumber,
		Description:    in.Description,
		Category:       objectRef{ID: strconv.Itoa(in.CategoryID), ObjectName: "Category"},
		ExemptVat:      in.ExemptVAT,
		VatNumber:      in.VATNumber,
		TaxType:        in.TaxType,
	}
}
