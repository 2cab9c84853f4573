package sevdesk_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/sevdesk-bridge/internal/application/dto"
	"github.com/invorya/sevdesk-bridge/internal/infrastructure/sevdesk"
)

// fakeSecrets Secret Provider de test: cuenta las resoluciones para verificar
// que la API key se resuelve en cada petición y no se cachea.
type fakeSecrets struct {
	key   string
	calls int
}

func (f *fakeSecrets) Resolve(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.key, nil
}

// capturedRequest última petición recibida por el servidor de test.
type capturedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Header http.Header
	Body   map[string]any
	RawBody []byte
}

// newTestGateway levanta un httptest.Server que responde con respuesta fija y
// captura la petición entrante.
func newTestGateway(t *testing.T, status int, response string) (*sevdesk.Gateway, *fakeSecrets, *capturedRequest, func()) {
	t.Helper()
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Method = r.Method
		captured.Path = r.URL.Path
		captured.Query = map[string]string{}
		for k := range r.URL.Query() {
			captured.Query[k] = r.URL.Query().Get(k)
		}
		captured.Header = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		captured.RawBody = raw
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &captured.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	secretsProvider := &fakeSecrets{key: "sk-sevdesk-test"}
	gateway := sevdesk.NewGateway(sevdesk.NewClient(server.URL, "SEVDESK_API_KEY", secretsProvider))
	return gateway, secretsProvider, captured, server.Close
}

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación y cabeceras
// ──────────────────────────────────────────────────────────────────────────────

// La API key resuelta viaja tal cual en Authorization, y se resuelve del
// provider en cada petición (sin caché).
func TestClient_APIKeyPorPeticion(t *testing.T) {
	gateway, secretsProvider, captured, teardown := newTestGateway(t, http.StatusOK, `{"objects":[]}`)
	defer teardown()

	_, err := gateway.FindContactByCustomerNumber(context.Background(), "cus_1")
	require.NoError(t, err)
	assert.Equal(t, "sk-sevdesk-test", captured.Header.Get("Authorization"))
	assert.NotEmpty(t, captured.Header.Get("X-Request-Id"))
	assert.Equal(t, 1, secretsProvider.calls)

	_, err = gateway.FindContactByCustomerNumber(context.Background(), "cus_1")
	require.NoError(t, err)
	assert.Equal(t, 2, secretsProvider.calls, "cada petición debe resolver la key de nuevo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Contactos
// ──────────────────────────────────────────────────────────────────────────────

func TestGateway_FindContact_ConResultado(t *testing.T) {
	gateway, _, captured, teardown := newTestGateway(t, http.StatusOK, `{"objects":[{"id":"ct-31"}]}`)
	defer teardown()

	id, err := gateway.FindContactByCustomerNumber(context.Background(), "cus_7")
	require.NoError(t, err)
	assert.Equal(t, "ct-31", id)
	assert.Equal(t, http.MethodGet, captured.Method)
	assert.Equal(t, "/Contact", captured.Path)
	assert.Equal(t, "cus_7", captured.Query["customerNumber"])
}

func TestGateway_FindContact_SinResultado(t *testing.T) {
	gateway, _, _, teardown := newTestGateway(t, http.StatusOK, `{"objects":[]}`)
	defer teardown()

	id, err := gateway.FindContactByCustomerNumber(context.Background(), "cus_7")
	require.NoError(t, err)
	assert.Empty(t, id, "sin coincidencia debe devolver cadena vacía sin error")
}

// Sin identificador eu_vat, vatNumber y taxType deben viajar como null
// explícito en el JSON (presentes con valor null, no omitidos).
func TestGateway_CreateContact_CamposNulosExplicitos(t *testing.T) {
	gateway, _, captured, teardown := newTestGateway(t, http.StatusCreated, `{"objects":{"id":"ct-50"}}`)
	defer teardown()

	id, err := gateway.CreateContact(context.Background(), dto.ContactInput{
		Name:           "ACME GmbH",
		CategoryID:     3,
		CustomerNumber: "cus_7",
		Description:    "cus_7",
	})
	require.NoError(t, err)
	assert.Equal(t, "ct-50", id)
	assert.Equal(t, "/Contact", captured.Path)

	require.Contains(t, captured.Body, "vatNumber")
	assert.Nil(t, captured.Body["vatNumber"])
	require.Contains(t, captured.Body, "taxType")
	assert.Nil(t, captured.Body["taxType"])

	category, ok := captured.Body["category"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "3", category["id"])
	assert.Equal(t, "Category", category["objectName"])
}

func TestGateway_UpdateContact_PutSobreElID(t *testing.T) {
	gateway, _, captured, teardown := newTestGateway(t, http.StatusOK, `{"objects":{"id":"ct-50"}}`)
	defer teardown()

	vat := "DE123456789"
	tt := "eu"
	err := gateway.UpdateContact(context.Background(), "ct-50", dto.ContactInput{
		Name:      "ACME GmbH",
		VATNumber: &vat,
		TaxType:   &tt,
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, captured.Method)
	assert.Equal(t, "/Contact/ct-50", captured.Path)
	assert.Equal(t, "DE123456789", captured.Body["vatNumber"])
	assert.Equal(t, "eu", captured.Body["taxType"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Facturas
// ──────────────────────────────────────────────────────────────────────────────

func TestGateway_CreateInvoice_PayloadDelFactory(t *testing.T) {
	gateway, _, captured, teardown := newTestGateway(t, http.StatusCreated,
		`{"objects":{"invoice":{"id":"fc-88"}}}`)
	defer teardown()

	rate := decimal.NewFromInt(19)
	id, err := gateway.CreateInvoice(context.Background(), dto.InvoiceInput{
		Number:    "F-0042",
		ContactID: "ct-50",
		Date:      time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		TaxType:   "default",
		Currency:  "EUR",
		Lines: []dto.InvoiceLineInput{
			{Quantity: 2, UnitPrice: decimal.NewFromInt(25), Name: "Plan mensual", TaxRate: &rate},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "fc-88", id)
	assert.Equal(t, "/Invoice/Factory/saveInvoice", captured.Path)

	invoice, ok := captured.Body["invoice"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "F-0042", invoice["invoiceNumber"])
	assert.Equal(t, "10.03.2024", invoice["invoiceDate"], "fecha en formato alemán d.m.Y")
	assert.Equal(t, float64(200), invoice["status"])
	assert.Equal(t, "RE", invoice["invoiceType"])
	assert.Equal(t, "VPDF", invoice["sendType"])
	assert.Equal(t, "default", invoice["taxType"])
	assert.Equal(t, "EUR", invoice["currency"])

	contact, ok := invoice["contact"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ct-50", contact["id"])

	positions, ok := captured.Body["invoicePosSave"].([]any)
	require.True(t, ok)
	require.Len(t, positions, 1)
	position := positions[0].(map[string]any)
	assert.Equal(t, float64(2), position["quantity"])
	assert.Equal(t, "Plan mensual", position["name"])
}

func TestGateway_BookInvoice_PayloadDeContabilizacion(t *testing.T) {
	gateway, _, captured, teardown := newTestGateway(t, http.StatusOK, `{"objects":{"id":"fc-88"}}`)
	defer teardown()

	err := gateway.BookInvoice(context.Background(), "fc-88", dto.BookingInput{
		Amount:         decimal.NewFromFloat(119.00),
		Date:           time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
		CheckAccountID: "cta-77",
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, captured.Method)
	assert.Equal(t, "/Invoice/fc-88/bookAmount", captured.Path)
	assert.Equal(t, "02.04.2024", captured.Body["date"])
	assert.Equal(t, "N", captured.Body["type"])

	account, ok := captured.Body["checkAccount"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "cta-77", account["id"])
	assert.Equal(t, "CheckAccount", account["objectName"])
}

func TestGateway_CancelInvoice_PostSinCuerpo(t *testing.T) {
	gateway, _, captured, teardown := newTestGateway(t, http.StatusOK, `{"objects":{"id":"fc-89"}}`)
	defer teardown()

	require.NoError(t, gateway.CancelInvoice(context.Background(), "fc-88"))
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "/Invoice/fc-88/cancelInvoice", captured.Path)
	assert.Empty(t, captured.RawBody)
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores HTTP
// ──────────────────────────────────────────────────────────────────────────────

// Un estado no-2xx se propaga como APIError con el status y el cuerpo.
func TestGateway_ErrorHTTP_PropagaAPIError(t *testing.T) {
	gateway, _, _, teardown := newTestGateway(t, http.StatusUnauthorized, `{"error":{"message":"invalid token"}}`)
	defer teardown()

	_, err := gateway.FindContactByCustomerNumber(context.Background(), "cus_7")
	require.Error(t, err)

	var apiErr *sevdesk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Contains(t, apiErr.Body, "invalid token")
}
