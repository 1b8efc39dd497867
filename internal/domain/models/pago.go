package models

// EstadoComprobante tracks a single proof through its lifecycle. A staged
// comprobante only becomes Submitted as part of the ledger-wide submission,
// never on its own.
type EstadoComprobante string

const (
	ComprobanteVacio      EstadoComprobante = "vacio"
	ComprobanteAnalizando EstadoComprobante = "analizando"
	ComprobanteBorrador   EstadoComprobante = "borrador"
	ComprobanteEnEspera   EstadoComprobante = "en_espera"
	ComprobanteRetirado   EstadoComprobante = "retirado"
	ComprobanteRegistrado EstadoComprobante = "registrado"
)

// Comprobante is one proof of payment as staged or submitted: normalized
// amount/date/time, a payment type from the closed set, issuing entity and
// external reference.
type Comprobante struct {
	Valor      float64 `json:"valor"`
	Fecha      string  `json:"fecha"` // ISO YYYY-MM-DD
	Hora       string  `json:"hora"`  // display form HH:MM
	Tipo       string  `json:"tipo"`
	Entidad    string  `json:"entidad"`
	Referencia string  `json:"referencia"`
	Archivo    string  `json:"archivo,omitempty"` // stored file name after submit
}

// Pago is the persisted master row for one submitted batch. The first
// comprobante's fields are kept as top-level convenience columns for the
// older single-proof submission shape.
type Pago struct {
	ID           int64   `json:"id"`
	Correo       string  `json:"correo"`
	ValorTotal   float64 `json:"valor_total"`
	Fecha        string  `json:"fecha"`
	Hora         string  `json:"hora"` // wire form HH:MM:SS
	Tipo         string  `json:"tipo"`
	Entidad      string  `json:"entidad"`
	Referencia   string  `json:"referencia"`
	Estado       string  `json:"estado"`
	BonoAplicado float64 `json:"bono_aplicado,omitempty"`
	CreadoEn     string  `json:"creado_en,omitempty"`

	Comprobantes []Comprobante `json:"comprobantes,omitempty"`
	Guias        []PagoGuia    `json:"guias,omitempty"`
}

// PagoGuia associates a guide with the comprobante that pays for it.
type PagoGuia struct {
	Referencia      string  `json:"referencia"`
	Tracking        string  `json:"tracking,omitempty"`
	Cliente         string  `json:"cliente,omitempty"`
	Valor           float64 `json:"valor"`
	ComprobanteIdx  int     `json:"comprobante_idx"`
}

// Coverage compares staged value (proofs + applied bonus) against what the
// guides require. Faltante is the amount still owed, Excedente what will be
// returned as a new bonus credit.
type Coverage struct {
	TotalGuias        float64 `json:"total_guias"`
	TotalComprobantes float64 `json:"total_comprobantes"`
	BonoAplicado      float64 `json:"bono_aplicado"`
	Cobertura         float64 `json:"cobertura"`
	Faltante          float64 `json:"faltante"`
	Excedente         float64 `json:"excedente"`
}
