// Package secrets define el Secret Provider: la capacidad mínima de resolver
// una referencia de secreto a su valor en texto. Las credenciales de Stripe y
// la API key de sevDesk se obtienen siempre a través de este puerto, nunca de
// estado global, de modo que los tests puedan sustituirlo por un fake.
package secrets

import (
	"context"
	"fmt"
	"os"
)

// Provider resuelve una referencia de secreto a su valor actual.
type Provider interface {
	// Resolve devuelve el valor del secreto identificado por ref.
	// El significado de ref depende del adaptador (nombre de env var,
	// resource name de Secret Manager, etc.).
	Resolve(ctx context.Context, ref string) (string, error)
}

// EnvProvider resuelve secretos desde variables de entorno.
// Pensado para desarrollo local; ref es el nombre de la variable.
type EnvProvider struct{}

// NewEnvProvider construye el adaptador de entorno.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

var _ Provider = (*EnvProvider)(nil)

// Resolve lee la variable de entorno ref. Una variable vacía o ausente es error:
// un secreto en blanco nunca es un valor operable.
func (p *EnvProvider) Resolve(_ context.Context, ref string) (string, error) {
	v := os.Getenv(ref)
	if v == "" {
		return "", fmt.Errorf("secrets: la variable de entorno %q no está definida", ref)
	}
	return v, nil
}
