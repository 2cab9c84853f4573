// Package sync contiene los casos de uso del puente Stripe → sevDesk: uno por
// tipo de evento de webhook soportado. Cada caso de uso orquesta llamadas a la
// pasarela contable y a la plataforma de pagos, y mantiene el enlace
// (metadata sevdesk_id) entre los registros de ambos sistemas.
package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/sevdesk-bridge/internal/application/dto"
	"github.com/invorya/sevdesk-bridge/internal/domain"
	"github.com/invorya/sevdesk-bridge/internal/domain/entity"
)

// Mapeo de la clasificación de exención de Stripe al taxType de sevDesk.
const (
	taxTypeEU      = "eu"
	taxTypeNotEU   = "noteu"
	taxTypeDefault = "default"
)

// Options parámetros fijos del puente.
type Options struct {
	CheckAccountID    string // cuenta bancaria sevDesk donde se contabilizan los cobros
	ContactCategoryID int    // categoría sevDesk asignada a los contactos creados
}

// Service implementa los handlers de eventos. Sin estado mutable entre
// invocaciones: cada evento es independiente y re-ejecutable.
type Service struct {
	accounting AccountingGateway
	payments   PaymentDirectory
	opts       Options
}

// NewService construye el servicio de sincronización.
func NewService(accounting AccountingGateway, payments PaymentDirectory, opts Options) *Service {
	return &Service{accounting: accounting, payments: payments, opts: opts}
}

// ── invoice.finalized ─────────────────────────────────────────────────────────

// InvoiceFinalized crea la factura en sevDesk a partir de la factura finalizada
// de Stripe y escribe el enlace de vuelta en la metadata de Stripe.
//
// Orden de operaciones (relevante para la idempotencia bajo redelivery):
//  1. Validar líneas: más de un tax rate por línea aborta sin crear nada.
//  2. Si la factura ya está enlazada, o ya existe en sevDesk una factura con el
//     mismo número, re-enlazar y terminar (lookup-before-create).
//  3. Resolver el contacto del cliente (enlace → búsqueda → creación).
//  4. Resolver secuencialmente el porcentaje de cada tax rate; la creación
//     espera a que todas las resoluciones terminen.
//  5. Crear la factura y escribir el enlace antes de responder.
func (s *Service) InvoiceFinalized(ctx context.Context, inv *entity.Invoice) error {
	for _, line := range inv.Lines {
		if len(line.TaxRateIDs) > 1 {
			return fmt.Errorf("sync: factura %s, línea %q: %w", inv.ID, line.Description, domain.ErrMultipleTaxRates)
		}
	}

	if inv.SevdeskID() != "" {
		return nil
	}
	if existing, err := s.accounting.FindInvoiceByNumber(ctx, inv.Number); err != nil {
		return fmt.Errorf("sync: buscar factura %s en sevDesk: %w", inv.Number, err)
	} else if existing != "" {
		return s.payments.LinkInvoice(ctx, inv.ID, existing)
	}

	contactID, err := s.resolveContact(ctx, inv.CustomerID)
	if err != nil {
		return err
	}

	lines := make([]dto.InvoiceLineInput, 0, len(inv.Lines))
	for _, line := range inv.Lines {
		in := dto.InvoiceLineInput{
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice(),
			Name:      line.Description,
		}
		if len(line.TaxRateIDs) == 1 {
			pct, err := s.payments.TaxRatePercentage(ctx, line.TaxRateIDs[0])
			if err != nil {
				return fmt.Errorf("sync: resolver tax rate %s: %w", line.TaxRateIDs[0], err)
			}
			rate := decimal.NewFromFloat(pct)
			in.TaxRate = &rate
		}
		lines = append(lines, in)
	}

	sevdeskID, err := s.accounting.CreateInvoice(ctx, dto.InvoiceInput{
		Number:    inv.Number,
		ContactID: contactID,
		Date:      inv.CreatedAt,
		TaxType:   taxTypeFor(inv.TaxExemptStatus),
		Currency:  strings.ToUpper(inv.Currency),
		Lines:     lines,
	})
	if err != nil {
		return fmt.Errorf("sync: crear factura %s en sevDesk: %w", inv.Number, err)
	}

	return s.payments.LinkInvoice(ctx, inv.ID, sevdeskID)
}

// ── invoice.paid ──────────────────────────────────────────────────────────────

// InvoicePaid contabiliza el cobro sobre la factura sevDesk enlazada.
// Sin enlace previo no hay nada que contabilizar: ErrNoLinkage.
func (s *Service) InvoicePaid(ctx context.Context, inv *entity.Invoice) error {
	sevdeskID := inv.SevdeskID()
	if sevdeskID == "" {
		return fmt.Errorf("sync: factura %s: %w", inv.ID, domain.ErrNoLinkage)
	}
	if err := s.accounting.BookInvoice(ctx, sevdeskID, dto.BookingInput{
		Amount:         inv.AmountPaid,
		Date:           time.Now(),
		CheckAccountID: s.opts.CheckAccountID,
	}); err != nil {
		return fmt.Errorf("sync: contabilizar factura %s: %w", inv.ID, err)
	}
	return nil
}

// ── invoice.voided ────────────────────────────────────────────────────────────

// InvoiceVoided cancela la factura sevDesk enlazada.
func (s *Service) InvoiceVoided(ctx context.Context, inv *entity.Invoice) error {
	sevdeskID := inv.SevdeskID()
	if sevdeskID == "" {
		return fmt.Errorf("sync: factura %s: %w", inv.ID, domain.ErrNoLinkage)
	}
	if err := s.accounting.CancelInvoice(ctx, sevdeskID); err != nil {
		return fmt.Errorf("sync: cancelar factura %s: %w", inv.ID, err)
	}
	return nil
}

// ── customer.created / customer.updated ──────────────────────────────────────

// CustomerUpserted crea o actualiza el contacto sevDesk del cliente.
// Se recibe solo el id: el payload del webhook no trae los identificadores
// fiscales, así que el cliente se relee de la API con tax_ids expandidos.
func (s *Service) CustomerUpserted(ctx context.Context, customerID string) error {
	cust, err := s.payments.Customer(ctx, customerID)
	if err != nil {
		return fmt.Errorf("sync: leer cliente %s: %w", customerID, err)
	}
	in := s.contactInput(cust)

	if sevdeskID := cust.SevdeskID(); sevdeskID != "" {
		if err := s.accounting.UpdateContact(ctx, sevdeskID, in); err != nil {
			return fmt.Errorf("sync: actualizar contacto %s: %w", sevdeskID, err)
		}
		return nil
	}

	// Sin enlace: lookup-before-create por customerNumber para no duplicar
	// contactos cuando Stripe reentrega el evento.
	if existing, err := s.accounting.FindContactByCustomerNumber(ctx, cust.ID); err != nil {
		return fmt.Errorf("sync: buscar contacto de %s: %w", cust.ID, err)
	} else if existing != "" {
		if err := s.accounting.UpdateContact(ctx, existing, in); err != nil {
			return fmt.Errorf("sync: actualizar contacto %s: %w", existing, err)
		}
		return s.payments.LinkCustomer(ctx, cust.ID, existing)
	}

	sevdeskID, err := s.accounting.CreateContact(ctx, in)
	if err != nil {
		return fmt.Errorf("sync: crear contacto de %s: %w", cust.ID, err)
	}
	return s.payments.LinkCustomer(ctx, cust.ID, sevdeskID)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// resolveContact devuelve el id del contacto sevDesk del cliente, creándolo si
// hace falta y dejando el enlace escrito en Stripe.
func (s *Service) resolveContact(ctx context.Context, customerID string) (string, error) {
	cust, err := s.payments.Customer(ctx, customerID)
	if err != nil {
		return "", fmt.Errorf("sync: leer cliente %s: %w", customerID, err)
	}
	if sevdeskID := cust.SevdeskID(); sevdeskID != "" {
		return sevdeskID, nil
	}

	if existing, err := s.accounting.FindContactByCustomerNumber(ctx, cust.ID); err != nil {
		return "", fmt.Errorf("sync: buscar contacto de %s: %w", cust.ID, err)
	} else if existing != "" {
		if err := s.payments.LinkCustomer(ctx, cust.ID, existing); err != nil {
			return "", err
		}
		return existing, nil
	}

	sevdeskID, err := s.accounting.CreateContact(ctx, s.contactInput(cust))
	if err != nil {
		return "", fmt.Errorf("sync: crear contacto de %s: %w", cust.ID, err)
	}
	if err := s.payments.LinkCustomer(ctx, cust.ID, sevdeskID); err != nil {
		return "", err
	}
	return sevdeskID, nil
}

// contactInput arma el payload del contacto. vatNumber y taxType solo se
// rellenan con un identificador eu_vat; en cualquier otro caso viajan como
// null explícito para limpiar valores anteriores.
func (s *Service) contactInput(c *entity.Customer) dto.ContactInput {
	in := dto.ContactInput{
		Name:           c.Name,
		CategoryID:     s.opts.ContactCategoryID,
		CustomerNumber: c.ID,
		Description:    c.ID,
		ExemptVAT:      c.TaxExempt,
	}
	if taxID, ok := c.PrimaryTaxID(); ok && taxID.Type == entity.TaxIDTypeEUVAT {
		vat := taxID.Value
		tt := taxTypeEU
		in.VATNumber = &vat
		in.TaxType = &tt
	}
	return in
}

// taxTypeFor traduce la clasificación de exención de Stripe al taxType sevDesk.
func taxTypeFor(status string) string {
	switch status {
	case entity.TaxExemptStatusExempt:
		return taxTypeEU
	case entity.TaxExemptStatusReverse:
		return taxTypeNotEU
	default:
		return taxTypeDefault
	}
}
