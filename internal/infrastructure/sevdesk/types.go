package sevdesk

import "github.com/shopspring/decimal"

// Valores fijos del modelo sevDesk usados por el puente.
const (
	// invoiceStatusOpen factura creada como abierta (pendiente de cobro).
	invoiceStatusOpen = 200
	// invoiceTypeRE tipo de documento: factura (Rechnung).
	invoiceTypeRE = "RE"
	// sendTypeVPDF marca la factura como enviada en PDF.
	sendTypeVPDF = "VPDF"
	// bookingTypeNormal tipo de contabilización estándar para bookAmount.
	bookingTypeNormal = "N"

	// dateLayout formato de fecha que espera la API (d.m.Y alemán).
	dateLayout = "02.01.2006"
)

// objectRef referencia a un objeto del modelo sevDesk (id + objectName).
type objectRef struct {
	ID         string `json:"id"`
	ObjectName string `json:"objectName"`
}

// contactPayload cuerpo de creación/actualización de un contacto.
// VatNumber y TaxType no llevan omitempty: un cliente sin eu_vat debe
// limpiar ambos campos con null explícito.
type contactPayload struct {
	Name           string    `json:"name"`
	CustomerNumber string    `json:"customerNumber"`
	Description    string    `json:"description"`
	Category       objectRef `json:"category"`
	ExemptVat      bool      `json:"exemptVat"`
	VatNumber      *string   `json:"vatNumber"`
	TaxType        *string   `json:"taxType"`
}

// saveInvoicePayload cuerpo de POST /Invoice/Factory/saveInvoice.
type saveInvoicePayload struct {
	Invoice        invoicePayload      `json:"invoice"`
	InvoicePosSave []invoicePosPayload `json:"invoicePosSave"`
}

type invoicePayload struct {
	InvoiceNumber string    `json:"invoiceNumber"`
	Contact       objectRef `json:"contact"`
	InvoiceDate   string    `json:"invoiceDate"`
	Status        int       `json:"status"`
	InvoiceType   string    `json:"invoiceType"`
	SendType      string    `json:"sendType"`
	TaxType       string    `json:"taxType"`
	Currency      string    `json:"currency"`
	MapAll        bool      `json:"mapAll"`
}

type invoicePosPayload struct {
	Quantity int64            `json:"quantity"`
	Price    decimal.Decimal  `json:"price"`
	Name     string           `json:"name"`
	TaxRate  *decimal.Decimal `json:"taxRate"`
	Unity    objectRef        `json:"unity"`
	MapAll   bool             `json:"mapAll"`
}

// bookAmountPayload cuerpo de PUT /Invoice/{id}/bookAmount.
type bookAmountPayload struct {
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date"`
	Type         string          `json:"type"`
	CheckAccount objectRef       `json:"checkAccount"`
}

// ── Respuestas ────────────────────────────────────────────────────────────────

// modelObject campos mínimos que leemos de cualquier objeto devuelto por la API.
type modelObject struct {
	ID string `json:"id"`
}

// listResponse respuesta de los GET de modelo (objects es un array).
type listResponse struct {
	Objects []modelObject `json:"objects"`
}

// objectResponse respuesta de POST/PUT de modelo (objects es un objeto).
type objectResponse struct {
	Objects modelObject `json:"objects"`
}

// saveInvoiceResponse respuesta del Factory de facturas.
type saveInvoiceResponse struct {
	Objects struct {
		Invoice modelObject `json:"invoice"`
	} `json:"objects"`
}
