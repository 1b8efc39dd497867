package models

// Bono states.
const (
	BonoActivo    = "activo"
	BonoAgotado   = "agotado"
	BonoVencido   = "vencido"
	BonoCancelado = "cancelado"
)

// Bono is a credit balance issued from a payment overage that the conductor
// may apply toward future guides. At most one bono is applied per staging
// session.
type Bono struct {
	ID              string  `json:"id"`
	Correo          string  `json:"correo"`
	ReferenciaPago  string  `json:"referencia_pago"`
	SaldoDisponible float64 `json:"saldo_disponible"`
	Estado          string  `json:"estado"`
	CreadoEn        string  `json:"creado_en,omitempty"`
}
