// Package rollup calcula los agregados financieros (revenue, pipeline, profit, tasa de conversión)
// sobre los leads de un alcance. Es la única fórmula del sistema: el dashboard maestro, el
// dashboard por usuario, el de manager y los filtros la comparten.
//
//	revenue    = Σ budget de leads Converted
//	pipeline   = Σ budget del resto de estados
//	profit     = revenue × ProfitMargin
//	conversión = round(100 × converted / total, 1), 0 si no hay leads
package rollup

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/scope"
)

// ProfitMargin margen fijo sobre revenue (20%). No es configurable por organización.
var ProfitMargin = decimal.RequireFromString("0.20")

var hundred = decimal.NewFromInt(100)

// Bucket conteo y suma de montos de un estado de conversión.
type Bucket struct {
	State string
	Count int
	Value decimal.Decimal
}

// Result agregado derivado; nunca se persiste.
type Result struct {
	Revenue               decimal.Decimal
	Pipeline              decimal.Decimal
	Profit                decimal.Decimal
	CountsByState         map[string]int
	TotalCount            int
	ConvertedCount        int
	ConversionRatePercent decimal.Decimal
}

// OwnerTotals desempeño individual de un owner.
type OwnerTotals struct {
	OwnerID   string
	LeadCount int
	Revenue   decimal.Decimal
}

// Compute agrega los registros financieros cuyo owner cae en el alcance.
// Registros de tipos no financieros (propiedades, tareas) se ignoran; montos ausentes valen cero.
func Compute(s scope.Scope, records []entity.Record) Result {
	return FromBuckets(Buckets(s, records))
}

// Buckets agrupa por estado los registros del alcance, en orden de primera aparición.
// Es la contraparte en memoria de un GROUP BY status.
func Buckets(s scope.Scope, records []entity.Record) []Bucket {
	idx := make(map[string]int)
	var out []Bucket
	for _, r := range records {
		if !r.Kind.Financial() || !s.Contains(r.OwnerID) {
			continue
		}
		i, ok := idx[r.State]
		if !ok {
			i = len(out)
			idx[r.State] = i
			out = append(out, Bucket{State: r.State, Value: decimal.Zero})
		}
		out[i].Count++
		out[i].Value = out[i].Value.Add(r.ValueOrZero())
	}
	return out
}

// FromBuckets deriva el Result a partir de agregados por estado (vengan de memoria o de SQL).
func FromBuckets(buckets []Bucket) Result {
	res := Result{
		Revenue:       decimal.Zero,
		Pipeline:      decimal.Zero,
		CountsByState: make(map[string]int, len(buckets)),
	}
	for _, b := range buckets {
		res.CountsByState[b.State] += b.Count
		res.TotalCount += b.Count
		if b.State == entity.LeadStatusConverted {
			res.Revenue = res.Revenue.Add(b.Value)
			res.ConvertedCount += b.Count
		} else {
			res.Pipeline = res.Pipeline.Add(b.Value)
		}
	}
	res.Profit = Profit(res.Revenue)
	res.ConversionRatePercent = ConversionRate(res.ConvertedCount, res.TotalCount)
	return res
}

// Profit aplica el margen fijo.
func Profit(revenue decimal.Decimal) decimal.Decimal {
	return revenue.Mul(ProfitMargin)
}

// ConversionRate porcentaje redondeado a un decimal; 0 si total es 0.
func ConversionRate(converted, total int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(converted)).Mul(hundred).
		Div(decimal.NewFromInt(int64(total))).Round(1)
}

// ByOwner totales por owner dentro del alcance (sólo owners con al menos un lead).
// Orden de primera aparición.
func ByOwner(s scope.Scope, records []entity.Record) []OwnerTotals {
	idx := make(map[string]int)
	var out []OwnerTotals
	for _, r := range records {
		if !r.Kind.Financial() || r.OwnerID == nil || !s.Contains(r.OwnerID) {
			continue
		}
		i, ok := idx[*r.OwnerID]
		if !ok {
			i = len(out)
			idx[*r.OwnerID] = i
			out = append(out, OwnerTotals{OwnerID: *r.OwnerID, Revenue: decimal.Zero})
		}
		out[i].LeadCount++
		if r.State == entity.LeadStatusConverted {
			out[i].Revenue = out[i].Revenue.Add(r.ValueOrZero())
		}
	}
	return out
}

// Ranked entrada de ranking por revenue.
type Ranked struct {
	OwnerID string
	Revenue decimal.Decimal
}

// TopN ordena por revenue descendente, conserva el orden de entrada en empates y trunca a n.
// No modifica la entrada.
func TopN(ranked []Ranked, n int) []Ranked {
	out := make([]Ranked, len(ranked))
	copy(out, ranked)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue.GreaterThan(out[j].Revenue)
	})
	if n < 0 {
		n = 0
	}
	if n < len(out) {
		out = out[:n]
	}
	return out
}
