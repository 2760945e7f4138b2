// Package pdf genera el reporte PDF del dashboard maestro.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha de generación + alcance (view-as)   │
//	│  KPIs: revenue | pipeline | profit | conversión              │
//	│  EQUIPOS: manager | tamaño | revenue | profit                │
//	│  TOP AGENTES: agente | leads | revenue                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ankitkhetariya/crm-real-estate/internal/application/analytics"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/dto"
)

var _ analytics.ReportGenerator = (*MarotoReportGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 24, Green: 60, Blue: 110}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoReportGenerator implementa analytics.ReportGenerator con Maroto v2.
type MarotoReportGenerator struct {
	printer *message.Printer
}

// NewMarotoReportGenerator construye el generador. Los montos usan separadores de miles en inglés.
func NewMarotoReportGenerator() *MarotoReportGenerator {
	return &MarotoReportGenerator{printer: message.NewPrinter(language.English)}
}

// GenerateMasterReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateMasterReport(_ context.Context, r *dto.MasterDashboardDTO, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Master Dashboard", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(r, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.kpiRow(r.Stats))
	m.AddRows(line.NewRow(4))

	m.AddRows(sectionRow("TEAM PERFORMANCE"))
	m.AddRows(tableHeader([]string{"Manager", "Team size", "Team revenue", "Team profit"}))
	for _, p := range r.ManagerPerformance {
		m.AddRows(tableRow([]string{
			p.ManagerName,
			g.printer.Sprintf("%d", p.TeamSize),
			g.money(p.TeamRevenue),
			g.money(p.TeamProfit),
		}))
	}
	m.AddRows(line.NewRow(4))

	m.AddRows(sectionRow("TOP AGENTS"))
	m.AddRows(tableHeader([]string{"#", "Agent", "Leads", "Revenue"}))
	for i, a := range r.TopAgents {
		m.AddRows(tableRow([]string{
			fmt.Sprintf("%d", i+1),
			a.Name,
			g.printer.Sprintf("%d", a.TotalLeads),
			g.money(a.Revenue),
		}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoReportGenerator) headerRow(r *dto.MasterDashboardDTO, generatedAt time.Time) core.Row {
	scopeLabel := "Organization-wide"
	if r.ViewAs != "" {
		scopeLabel = "Viewing as " + r.ViewAs
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New("Master Dashboard", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New(scopeLabel, props.Text{Size: 9, Top: 10, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Generated "+generatedAt.Format("2006-01-02 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(g.printer.Sprintf("%d managers - %d agents", r.Stats.TotalManagers, r.Stats.TotalAgents), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func (g *MarotoReportGenerator) kpiRow(s dto.MasterStatsDTO) core.Row {
	kpi := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 2, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 7, Align: align.Center}),
		)
	}
	return row.New(18).Add(
		kpi("REVENUE", g.money(s.TotalRevenue)),
		kpi("PIPELINE", g.money(s.TotalPipeline)),
		kpi("PROFIT", g.money(s.TotalProfit)),
		kpi("CONVERSION", s.ConversionRate.StringFixed(1)+"%"),
	)
}

func sectionRow(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1}),
	))
}

func tableHeader(labels []string) core.Row {
	cols := make([]core.Col, 0, len(labels))
	for i, l := range labels {
		cols = append(cols, col.New(3).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: cellAlign(i), Top: 1,
		})))
	}
	return row.New(6).Add(cols...)
}

func tableRow(values []string) core.Row {
	cols := make([]core.Col, 0, len(values))
	for i, v := range values {
		cols = append(cols, col.New(3).Add(text.New(v, props.Text{
			Size: 8, Align: cellAlign(i), Top: 1,
		})))
	}
	return row.New(5).Add(cols...)
}

// cellAlign primera columna a la izquierda, el resto numérico a la derecha.
func cellAlign(i int) align.Type {
	if i == 0 {
		return align.Left
	}
	return align.Right
}

// money formatea con dos decimales y separador de miles, ej. 1,234,567.50.
func (g *MarotoReportGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}
