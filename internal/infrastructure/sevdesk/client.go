// Package sevdesk implementa el cliente REST de la API de sevDesk y la
// pasarela tipada que usa el servicio de sincronización.
package sevdesk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/invorya/sevdesk-bridge/pkg/secrets"
)

// APIError error HTTP devuelto por la API de sevDesk. Se propaga sin modificar
// hacia el caller; el entry point lo convierte en 500 para que Stripe reentregue.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sevdesk: HTTP %d: %s", e.Status, e.Body)
}

// Client cliente HTTP genérico contra la API de sevDesk (verbos GET/POST/PUT
// sobre rutas relativas al base URL versionado).
//
// La API key no se cachea: se resuelve del Secret Provider en cada petición,
// de modo que una rotación del secreto surte efecto de inmediato.
type Client struct {
	baseURL    string
	keyRef     string
	secrets    secrets.Provider
	httpClient *http.Client
}

// NewClient construye el cliente. baseURL es el endpoint versionado
// (ej. https://my.sevdesk.de/api/v1) y keyRef la referencia del secreto con la API key.
func NewClient(baseURL, keyRef string, provider secrets.Provider) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		keyRef:  keyRef,
		secrets: provider,
		httpClient: &http.Client{
			// sevDesk puede tardar en las operaciones Factory; margen generoso.
			Timeout: 30 * time.Second,
		},
	}
}

// Get ejecuta GET sobre path con los query params dados y decodifica la respuesta en out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post ejecuta POST con body JSON (nil para peticiones sin cuerpo) y decodifica en out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put ejecuta PUT con body JSON y decodifica en out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	apiKey, err := c.secrets.Resolve(ctx, c.keyRef)
	if err != nil {
		return fmt.Errorf("sevdesk: resolver API key: %w", err)
	}

	endpoint := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("sevdesk: serializar request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("sevdesk: crear HTTP request: %w", err)
	}
	// sevDesk autentica con la API key directamente en Authorization (sin esquema Bearer).
	req.Header.Set("Authorization", apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("sevdesk: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("sevdesk: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return fmt.Errorf("sevdesk: leer respuesta: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(rawBody))}
	}

	if out != nil {
		if err := json.Unmarshal(rawBody, out); err != nil {
			return fmt.Errorf("sevdesk: deserializar respuesta de %s: %w", path, err)
		}
	}
	return nil
}
