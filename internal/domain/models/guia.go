package models

// Guia is a deliverable owed by the payer. Loaded once into a staging
// session from upstream and read-only from that point on; the owed value is
// never recomputed server-side.
type Guia struct {
	Referencia string  `json:"referencia"`
	Valor      float64 `json:"valor"`
	Tracking   string  `json:"tracking,omitempty"`
	Cliente    string  `json:"cliente,omitempty"`
}
