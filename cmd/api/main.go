package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/invorya/sevdesk-bridge/internal/application/sync"
	"github.com/invorya/sevdesk-bridge/internal/infrastructure/sevdesk"
	"github.com/invorya/sevdesk-bridge/internal/infrastructure/stripeapi"
	httpRouter "github.com/invorya/sevdesk-bridge/internal/interfaces/http"
	"github.com/invorya/sevdesk-bridge/pkg/config"
	"github.com/invorya/sevdesk-bridge/pkg/logger"
	"github.com/invorya/sevdesk-bridge/pkg/secrets"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// Sentry (opcional): sin DSN los Capture* son no-ops.
	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.App.Env,
		}); err != nil {
			log.Error().Err(err).Msg("inicializar Sentry")
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()

	// Secret Provider: env en desarrollo, Google Secret Manager en producción.
	var secretProvider secrets.Provider
	switch cfg.Secrets.Provider {
	case "gcp":
		gp, err := secrets.NewGoogleProvider(ctx, cfg.Secrets.GoogleProject, cfg.Secrets.CredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("conectar con Secret Manager")
		}
		defer gp.Close()
		secretProvider = gp
	default:
		secretProvider = secrets.NewEnvProvider()
	}

	// Las credenciales de Stripe se resuelven una vez en el arranque; la API
	// key de sevDesk la resuelve el cliente en cada petición.
	stripeKey, err := secretProvider.Resolve(ctx, cfg.Stripe.SecretKeyRef)
	if err != nil {
		log.Fatal().Err(err).Msg("resolver secret key de Stripe")
	}
	webhookSecret, err := secretProvider.Resolve(ctx, cfg.Stripe.WebhookSecretRef)
	if err != nil {
		log.Fatal().Err(err).Msg("resolver webhook secret de Stripe")
	}

	paymentDirectory := stripeapi.NewDirectory(stripeKey)
	accountingGateway := sevdesk.NewGateway(
		sevdesk.NewClient(cfg.Sevdesk.BaseURL, cfg.Sevdesk.APIKeyRef, secretProvider),
	)
	syncService := sync.NewService(accountingGateway, paymentDirectory, sync.Options{
		CheckAccountID:    cfg.Sevdesk.CheckAccountID,
		ContactCategoryID: cfg.Sevdesk.ContactCategoryID,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "sevdesk-bridge API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sync:          syncService,
		WebhookSecret: webhookSecret,
		Log:           log.WithComponent("webhook"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
