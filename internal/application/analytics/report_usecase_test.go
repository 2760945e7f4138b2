package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankitkhetariya/crm-real-estate/internal/application/analytics"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/dto"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain"
)

type fakeGenerator struct {
	got *dto.MasterDashboardDTO
	err error
}

func (g *fakeGenerator) GenerateMasterReport(_ context.Context, r *dto.MasterDashboardDTO, _ time.Time) ([]byte, error) {
	g.got = r
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-fake"), nil
}

func TestMasterReportPDF_UsaLosDatosDelDashboard(t *testing.T) {
	gen := &fakeGenerator{}
	uc := analytics.NewReportUseCase(newDashboard(newOrg(t), 5), gen)

	pdf, name, err := uc.MasterReportPDF(context.Background(), admin, "M")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.Regexp(t, `^master-dashboard-\d{8}\.pdf$`, name)
	require.NotNil(t, gen.got)
	assertDec(t, 1500, gen.got.Stats.TotalRevenue)
}

func TestMasterReportPDF_SoloAdmin(t *testing.T) {
	gen := &fakeGenerator{}
	uc := analytics.NewReportUseCase(newDashboard(newOrg(t), 5), gen)

	_, _, err := uc.MasterReportPDF(context.Background(), agentA1, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Nil(t, gen.got)
}

func TestMasterReportPDF_ErrorDelGenerador(t *testing.T) {
	boom := errors.New("sin fuentes")
	uc := analytics.NewReportUseCase(newDashboard(newOrg(t), 5), &fakeGenerator{err: boom})

	_, _, err := uc.MasterReportPDF(context.Background(), admin, "")
	assert.ErrorIs(t, err, boom)
}
