package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	// ErrNoLinkage la entidad de pago no tiene enlace con sevDesk (metadata sevdesk_id ausente).
	ErrNoLinkage = errors.New("la entidad no está enlazada con sevDesk")
	// ErrMultipleTaxRates una línea de factura trae más de un tax rate; condición rechazada.
	ErrMultipleTaxRates = errors.New("línea de factura con múltiples tax rates")
	// ErrUnsupportedEvent tipo de evento de webhook no reconocido.
	ErrUnsupportedEvent = errors.New("tipo de evento no soportado")
)
