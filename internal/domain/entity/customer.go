package entity

// Tipos de identificador fiscal de la plataforma de pagos que nos interesan.
// Solo el IVA intracomunitario (eu_vat) se traslada a sevDesk como vatNumber.
const TaxIDTypeEUVAT = "eu_vat"

// TaxID identificador fiscal de un cliente (tipo + valor).
type TaxID struct {
	Type  string // ej. "eu_vat", "de_stn"
	Value string
}

// Customer representa un cliente de la plataforma de pagos (Stripe), normalizado.
// Los campos opcionales se modelan de forma explícita: TaxIDs puede estar vacío,
// y el enlace con sevDesk vive en Metadata bajo LinkKey.
type Customer struct {
	ID        string
	Name      string
	TaxExempt bool
	TaxIDs    []TaxID // cero o uno en la práctica; solo se usa el primero
	Metadata  map[string]string
}

// SevdeskID devuelve el id del contacto sevDesk enlazado, o "" si no existe enlace.
func (c *Customer) SevdeskID() string {
	return c.Metadata[LinkKey]
}

// PrimaryTaxID devuelve el primer identificador fiscal y true, o zero y false si no hay.
func (c *Customer) PrimaryTaxID() (TaxID, bool) {
	if len(c.TaxIDs) == 0 {
		return TaxID{}, false
	}
	return c.TaxIDs[0], true
}
