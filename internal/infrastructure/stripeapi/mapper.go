// Package stripeapi adapta la API de Stripe (stripe-go) a los puertos y
// entidades del dominio del puente.
package stripeapi

import (
	"time"

	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v74"

	"github.com/invorya/sevdesk-bridge/internal/domain/entity"
)

// centsToAmount convierte un importe en céntimos (como lo entrega Stripe) a
// unidades de moneda con decimales exactos.
func centsToAmount(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
}

// MapInvoice normaliza una factura de Stripe (objeto del webhook) a la entidad
// del dominio. Los tax rates de las líneas se guardan solo por id: el
// porcentaje se resuelve después, de forma secuencial, contra la API.
func MapInvoice(inv *stripe.Invoice) *entity.Invoice {
	out := &entity.Invoice{
		ID:              inv.ID,
		Number:          inv.Number,
		CreatedAt:       time.Unix(inv.Created, 0).UTC(),
		Currency:   string(inv.Currency),
		AmountPaid: centsToAmount(inv.AmountPaid),
		Metadata:   inv.Metadata,
	}
	if inv.CustomerTaxExempt != nil {
		out.TaxExemptStatus = string(*inv.CustomerTaxExempt)
	}
	if inv.Customer != nil {
		out.CustomerID = inv.Customer.ID
	}
	if inv.Lines == nil {
		return out
	}
	for _, line := range inv.Lines.Data {
		item := entity.LineItem{
			Quantity:    line.Quantity,
			Amount:      centsToAmount(line.Amount),
			Description: line.Description,
		}
		for _, rate := range line.TaxRates {
			item.TaxRateIDs = append(item.TaxRateIDs, rate.ID)
		}
		out.Lines = append(out.Lines, item)
	}
	return out
}

// MapCustomer normaliza un cliente de Stripe a la entidad del dominio.
// tax_ids debe venir expandido; sin expansión la lista queda vacía.
func MapCustomer(c *stripe.Customer) *entity.Customer {
	out := &entity.Customer{
		ID:        c.ID,
		Name:      c.Name,
		TaxExempt: c.TaxExempt == stripe.CustomerTaxExemptExempt,
		Metadata:  c.Metadata,
	}
	if c.TaxIDs != nil {
		for _, taxID := range c.TaxIDs.Data {
			out.TaxIDs = append(out.TaxIDs, entity.TaxID{
				Type:  string(taxID.Type),
				Value: taxID.Value,
			})
		}
	}
	return out
}
