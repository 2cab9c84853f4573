package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/sevdesk-bridge/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sync          SyncService
	WebhookSecret string
	Log           *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	handler := NewWebhookHandler(deps.Sync, deps.WebhookSecret, deps.Log)

	webhooks := app.Group("/webhooks")
	webhooks.Post("/stripe", handler.HandleStripe)
}
