package entity

import "github.com/shopspring/decimal"

// RecordKind tipo de registro transaccional.
type RecordKind string

const (
	KindLead     RecordKind = "lead"
	KindProperty RecordKind = "property"
	KindTask     RecordKind = "task"
)

// Financial indica si el tipo alimenta los rollups financieros (sólo leads).
func (k RecordKind) Financial() bool { return k == KindLead }

// Record vista mínima de un lead, propiedad o tarea para visibilidad y rollups.
// OwnerID nil = sin asignar. Value nil se trata como cero.
type Record struct {
	ID      string
	Kind    RecordKind
	OwnerID *string
	Value   *decimal.Decimal
	State   string
}

// ValueOrZero devuelve el monto o cero si está ausente.
func (r Record) ValueOrZero() decimal.Decimal {
	if r.Value == nil {
		return decimal.Zero
	}
	return *r.Value
}

// StrPtr helper para campos opcionales.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StrVal devuelve "" para punteros nulos.
func StrVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
