package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Stripe  StripeConfig
	Sevdesk SevdeskConfig
	Secrets SecretsConfig
	Sentry  SentryConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StripeConfig referencias de secretos de Stripe.
// SecretKeyRef y WebhookSecretRef son referencias que resuelve el Secret Provider,
// no los valores en claro (en modo "env" la referencia es el nombre de la variable).
type StripeConfig struct {
	SecretKeyRef     string
	WebhookSecretRef string
}

// SevdeskConfig configuración de la API de sevDesk.
type SevdeskConfig struct {
	BaseURL           string // endpoint REST versionado, ej. https://my.sevdesk.de/api/v1
	APIKeyRef         string // referencia al secreto con la API key (se resuelve en cada petición)
	CheckAccountID    string // cuenta bancaria (CheckAccount) destino de los cobros
	ContactCategoryID int    // categoría fija asignada a los contactos creados
}

// SecretsConfig selección del Secret Provider.
type SecretsConfig struct {
	Provider        string // "env" o "gcp"
	GoogleProject   string // requerido con provider=gcp para referencias cortas
	CredentialsFile string // opcional: ruta a la service account key
}

// SentryConfig reporte de errores (opcional; DSN vacío lo desactiva).
type SentryConfig struct {
	DSN string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, SEVDESK_API_KEY_REF, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración .env en el directorio de trabajo
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "sevdesk-bridge"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Stripe: StripeConfig{
			SecretKeyRef:     getString(v, "STRIPE_SECRET_KEY_REF", "STRIPE_SECRET_KEY"),
			WebhookSecretRef: getString(v, "STRIPE_WEBHOOK_SECRET_REF", "STRIPE_WEBHOOK_SECRET"),
		},
		Sevdesk: SevdeskConfig{
			BaseURL:           getString(v, "SEVDESK_BASE_URL", "https://my.sevdesk.de/api/v1"),
			APIKeyRef:         getString(v, "SEVDESK_API_KEY_REF", "SEVDESK_API_KEY"),
			CheckAccountID:    getString(v, "SEVDESK_CHECK_ACCOUNT_ID", ""),
			ContactCategoryID: getInt(v, "SEVDESK_CONTACT_CATEGORY_ID", 3),
		},
		Secrets: SecretsConfig{
			Provider:        getString(v, "SECRETS_PROVIDER", "env"),
			GoogleProject:   getString(v, "GOOGLE_CLOUD_PROJECT", ""),
			CredentialsFile: getString(v, "GOOGLE_APPLICATION_CREDENTIALS", ""),
		},
		Sentry: SentryConfig{
			DSN: getString(v, "SENTRY_DSN", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate comprueba la configuración mínima para operar.
func (c *Config) validate() error {
	if c.Sevdesk.CheckAccountID == "" {
		return fmt.Errorf("config: SEVDESK_CHECK_ACCOUNT_ID es requerido")
	}
	if c.Secrets.Provider != "env" && c.Secrets.Provider != "gcp" {
		return fmt.Errorf("config: SECRETS_PROVIDER debe ser 'env' o 'gcp' (recibido %q)", c.Secrets.Provider)
	}
	if c.Secrets.Provider == "gcp" && c.Secrets.GoogleProject == "" {
		return fmt.Errorf("config: GOOGLE_CLOUD_PROJECT es requerido con SECRETS_PROVIDER=gcp")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
