package http

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"

	"github.com/invorya/sevdesk-bridge/internal/domain"
	"github.com/invorya/sevdesk-bridge/internal/domain/entity"
	"github.com/invorya/sevdesk-bridge/internal/infrastructure/stripeapi"
	"github.com/invorya/sevdesk-bridge/pkg/logger"
)

// SyncService operaciones de sincronización que el entry point despacha.
// Interfaz definida en el consumidor para poder inyectar un fake en los tests.
type SyncService interface {
	InvoiceFinalized(ctx context.Context, inv *entity.Invoice) error
	InvoicePaid(ctx context.Context, inv *entity.Invoice) error
	InvoiceVoided(ctx context.Context, inv *entity.Invoice) error
	CustomerUpserted(ctx context.Context, customerID string) error
}

// ackResponse respuesta de éxito del webhook.
type ackResponse struct {
	Received bool `json:"received"`
}

// errorResponse respuesta de error del webhook.
type errorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// WebhookHandler entry point de los webhooks de Stripe: verifica la firma,
// parsea el sobre {type, data} y despacha al handler del tipo de evento.
type WebhookHandler struct {
	svc           SyncService
	webhookSecret string
	log           *logger.Logger
}

// NewWebhookHandler construye el handler.
func NewWebhookHandler(svc SyncService, webhookSecret string, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{svc: svc, webhookSecret: webhookSecret, log: log}
}

// HandleStripe POST /webhooks/stripe
//
// Cada rama del switch responde y retorna: solo un tipo de evento no
// reconocido cae al camino de "no soportado". Un fallo del handler responde
// 500 para que el mecanismo de redelivery de Stripe reentregue el evento.
func (h *WebhookHandler) HandleStripe(c *fiber.Ctx) error {
	event, err := webhook.ConstructEvent(c.Body(), c.Get("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		h.log.Warn().Err(err).Msg("firma de webhook inválida")
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: true, Message: "firma de webhook inválida"})
	}

	h.log.Info().Str("event_id", event.ID).Str("event_type", event.Type).Msg("evento recibido")
	ctx := c.UserContext()

	switch event.Type {
	case "invoice.finalized":
		inv, err := parseInvoice(event)
		if err != nil {
			return h.malformed(c, event.Type, err)
		}
		return h.respond(c, event, h.svc.InvoiceFinalized(ctx, inv))

	case "invoice.paid":
		inv, err := parseInvoice(event)
		if err != nil {
			return h.malformed(c, event.Type, err)
		}
		return h.respond(c, event, h.svc.InvoicePaid(ctx, inv))

	case "invoice.voided":
		inv, err := parseInvoice(event)
		if err != nil {
			return h.malformed(c, event.Type, err)
		}
		return h.respond(c, event, h.svc.InvoiceVoided(ctx, inv))

	case "customer.created", "customer.updated":
		var cust stripe.Customer
		if err := json.Unmarshal(event.Data.Raw, &cust); err != nil {
			return h.malformed(c, event.Type, err)
		}
		return h.respond(c, event, h.svc.CustomerUpserted(ctx, cust.ID))

	case "payout.paid":
		// No-op reconocido: los payouts no tienen contraparte en sevDesk.
		return c.JSON(ackResponse{Received: true})
	}

	h.log.Warn().Str("event_type", event.Type).Msg("tipo de evento no soportado")
	return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
		Error:   true,
		Message: domain.ErrUnsupportedEvent.Error() + ": " + event.Type,
	})
}

// respond traduce el resultado del handler a la respuesta HTTP del webhook.
func (h *WebhookHandler) respond(c *fiber.Ctx, event stripe.Event, err error) error {
	if err == nil {
		return c.JSON(ackResponse{Received: true})
	}

	if errors.Is(err, domain.ErrMultipleTaxRates) {
		// Condición terminal: reentregar el evento produciría el mismo rechazo.
		h.log.Error().Err(err).Str("event_id", event.ID).Msg("evento rechazado por validación")
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: true, Message: err.Error()})
	}

	h.log.Error().Err(err).Str("event_id", event.ID).Str("event_type", event.Type).Msg("handler de evento falló")
	sentry.CaptureException(err)
	return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: true, Message: err.Error()})
}

func (h *WebhookHandler) malformed(c *fiber.Ctx, eventType string, err error) error {
	h.log.Error().Err(err).Str("event_type", eventType).Msg("payload de evento malformado")
	return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: true, Message: "payload de evento malformado"})
}

func parseInvoice(event stripe.Event) (*entity.Invoice, error) {
	var inv stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
		return nil, err
	}
	return stripeapi.MapInvoice(&inv), nil
}
