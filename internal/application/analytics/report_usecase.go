package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/ankitkhetariya/crm-real-estate/internal/application/dto"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/visibility"
)

// ReportGenerator renderiza el dashboard maestro a PDF (puerto de salida).
type ReportGenerator interface {
	GenerateMasterReport(ctx context.Context, report *dto.MasterDashboardDTO, generatedAt time.Time) ([]byte, error)
}

// ReportUseCase genera el PDF del dashboard maestro con los mismos números que el JSON.
type ReportUseCase struct {
	dashboard *DashboardUseCase
	generator ReportGenerator
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(dashboard *DashboardUseCase, generator ReportGenerator) *ReportUseCase {
	return &ReportUseCase{dashboard: dashboard, generator: generator, now: time.Now}
}

// MasterReportPDF devuelve (pdfBytes, filename). Mismas reglas de acceso que MasterDashboard.
func (uc *ReportUseCase) MasterReportPDF(ctx context.Context, actor visibility.Actor, viewAs string) ([]byte, string, error) {
	data, err := uc.dashboard.MasterDashboard(ctx, actor, viewAs)
	if err != nil {
		return nil, "", err
	}
	now := uc.now()
	pdf, err := uc.generator.GenerateMasterReport(ctx, data, now)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generar pdf: %w", err)
	}
	return pdf, fmt.Sprintf("master-dashboard-%s.pdf", now.Format("20060102")), nil
}
