package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankitkhetariya/crm-real-estate/internal/application/analytics"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/visibility"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/infrastructure/memory"
)

var (
	admin   = visibility.Actor{ID: "admin", Role: entity.RoleAdmin}
	mgrM    = visibility.Actor{ID: "M", Role: entity.RoleManager}
	agentA1 = visibility.Actor{ID: "A1", Role: entity.RoleAgent}
)

// Organización: M con A1 y A2, M2 con A3. Revenue: A1=1000, A2=500, A3=300 y un lead
// convertido sin asignar de 50. M tiene un lead New de 200 (pipeline).
func newOrg(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	users := []*entity.User{
		{ID: "admin", Name: "Admin", Role: entity.RoleAdmin},
		{ID: "M", Name: "M", Role: entity.RoleManager},
		{ID: "M2", Name: "M2", Role: entity.RoleManager},
		{ID: "A1", Name: "A1", Role: entity.RoleAgent, ManagedBy: entity.StrPtr("M")},
		{ID: "A2", Name: "A2", Role: entity.RoleAgent, ManagedBy: entity.StrPtr("M")},
		{ID: "A3", Name: "A3", Role: entity.RoleAgent, ManagedBy: entity.StrPtr("M2")},
	}
	for i, u := range users {
		u.Email = u.ID + "@crm.test"
		u.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.Users().Create(ctx, u))
	}

	lead := func(id, owner, status string, budget int64) {
		b := decimal.NewFromInt(budget)
		require.NoError(t, s.Leads().Create(ctx, &entity.Lead{
			ID: id, Name: id, Status: status, Source: "Website", Budget: &b,
			AssignedTo: entity.StrPtr(owner), CreatedAt: base,
		}))
	}
	lead("l1", "A1", entity.LeadStatusConverted, 1000)
	lead("l2", "A2", entity.LeadStatusConverted, 500)
	lead("l3", "M", entity.LeadStatusNew, 200)
	lead("l4", "A3", entity.LeadStatusConverted, 300)
	lead("l5", "", entity.LeadStatusConverted, 50)

	task := func(id, owner, status string) {
		require.NoError(t, s.Tasks().Create(ctx, &entity.Task{
			ID: id, Title: id, Status: status, Priority: "medium", DueDate: base,
			AssignedTo: entity.StrPtr(owner), CreatedAt: base,
		}))
	}
	task("t1", "A1", entity.TaskStatusPending)
	task("t2", "A1", entity.TaskStatusCompleted)
	task("t3", "M", entity.TaskStatusInProgress)
	task("t4", "A2", entity.TaskStatusCancelled)
	return s
}

func newDashboard(s *memory.Store, top int) *analytics.DashboardUseCase {
	return analytics.NewDashboardUseCase(s.Users(), s.Records(), visibility.NewResolver(s.Users()), top)
}

func assertDec(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.NewFromInt(want).Equal(got), "esperado %d, obtenido %s", want, got)
}

func TestTeamRollup_IgualAVistaDelAdminComoManager(t *testing.T) {
	ctx := context.Background()
	s := newOrg(t)
	uc := newDashboard(s, 5)

	team, err := uc.TeamRollup(ctx, "M")
	require.NoError(t, err)
	assertDec(t, 1500, team.Revenue)
	assertDec(t, 200, team.Pipeline)
	assertDec(t, 300, team.Profit)

	stats, err := uc.ScopedStats(ctx, admin, "M")
	require.NoError(t, err)
	assert.True(t, team.Revenue.Equal(stats.TotalRevenue))
	assert.True(t, team.Pipeline.Equal(stats.TotalPipeline))
	assert.Equal(t, 3, stats.TotalLeads)
	assert.Equal(t, "M", stats.ViewAs)
}

func TestMasterDashboard_TotalesDeLaOrganizacion(t *testing.T) {
	s := newOrg(t)
	uc := newDashboard(s, 2)

	d, err := uc.MasterDashboard(context.Background(), admin, "")
	require.NoError(t, err)

	// Incluye el lead sin asignar.
	assertDec(t, 1850, d.Stats.TotalRevenue)
	assertDec(t, 200, d.Stats.TotalPipeline)
	assertDec(t, 370, d.Stats.TotalProfit)
	assert.Equal(t, 5, d.Stats.TotalLeads)
	assert.Equal(t, 3, d.Stats.TotalAgents)
	assert.Equal(t, 2, d.Stats.TotalManagers)
	assert.Len(t, d.ManagersList, 2)
	assert.Len(t, d.AgentsList, 3)

	require.Len(t, d.ManagerPerformance, 2)
	assert.Equal(t, "M", d.ManagerPerformance[0].ManagerID)
	assert.Equal(t, 2, d.ManagerPerformance[0].TeamSize)
	assertDec(t, 1500, d.ManagerPerformance[0].TeamRevenue)
	assertDec(t, 300, d.ManagerPerformance[0].TeamProfit)
	assert.Equal(t, "M2", d.ManagerPerformance[1].ManagerID)
	assert.Equal(t, 1, d.ManagerPerformance[1].TeamSize)
	assertDec(t, 300, d.ManagerPerformance[1].TeamRevenue)

	require.Len(t, d.TopAgents, 2)
	assert.Equal(t, "A1", d.TopAgents[0].ID)
	assert.Equal(t, "A2", d.TopAgents[1].ID)
	assert.Equal(t, 1, d.TopAgents[0].TotalLeads)
}

func TestMasterDashboard_ViewAsFiltraSoloTotales(t *testing.T) {
	s := newOrg(t)
	uc := newDashboard(s, 5)

	d, err := uc.MasterDashboard(context.Background(), admin, "M2")
	require.NoError(t, err)
	assertDec(t, 300, d.Stats.TotalRevenue)
	assert.Equal(t, 1, d.Stats.TotalLeads)
	assert.Equal(t, "M2", d.ViewAs)
	// El ranking y el desempeño siguen siendo de toda la organización.
	assert.Len(t, d.TopAgents, 3)
	assert.Len(t, d.ManagerPerformance, 2)
}

func TestMasterDashboard_SoloAdmin(t *testing.T) {
	uc := newDashboard(newOrg(t), 5)
	_, err := uc.MasterDashboard(context.Background(), mgrM, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMasterDashboard_EmpateConservaOrden(t *testing.T) {
	ctx := context.Background()
	s := newOrg(t)
	// A2 alcanza a A1 con otro lead convertido de 500.
	b := decimal.NewFromInt(500)
	require.NoError(t, s.Leads().Create(ctx, &entity.Lead{
		ID: "l6", Status: entity.LeadStatusConverted, Budget: &b, AssignedTo: entity.StrPtr("A2"),
	}))
	uc := newDashboard(s, 2)

	d, err := uc.MasterDashboard(ctx, admin, "")
	require.NoError(t, err)
	require.Len(t, d.TopAgents, 2)
	assert.Equal(t, "A1", d.TopAgents[0].ID)
	assert.Equal(t, "A2", d.TopAgents[1].ID)
	assertDec(t, 1000, d.TopAgents[1].Revenue)
	assert.Equal(t, 2, d.TopAgents[1].TotalLeads)
}

func TestScopedStats_AgenteIgnoraViewAs(t *testing.T) {
	uc := newDashboard(newOrg(t), 5)

	stats, err := uc.ScopedStats(context.Background(), agentA1, "A2")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalLeads)
	assert.Equal(t, 1, stats.ConvertedLeads)
	assertDec(t, 1000, stats.TotalRevenue)
	assertDec(t, 100, stats.ConversionRate)
	// t1 pendiente cuenta; t2 completada no.
	assert.Equal(t, 1, stats.ActiveTasksCount)
	assert.Empty(t, stats.ViewAs)
}

func TestScopedStats_ManagerSinViewAs(t *testing.T) {
	uc := newDashboard(newOrg(t), 5)

	stats, err := uc.ScopedStats(context.Background(), mgrM, "")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalLeads)
	assert.Equal(t, map[string]int{entity.LeadStatusConverted: 2, entity.LeadStatusNew: 1}, stats.StatusCounts)
	// t1, t3 y t4 (cancelada cuenta como activa).
	assert.Equal(t, 3, stats.ActiveTasksCount)
}

func TestScopedStats_ManagerFueraDeEquipo(t *testing.T) {
	uc := newDashboard(newOrg(t), 5)
	_, err := uc.ScopedStats(context.Background(), mgrM, "A3")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTeamAnalytics_Manager(t *testing.T) {
	uc := newDashboard(newOrg(t), 5)

	res, err := uc.TeamAnalytics(context.Background(), mgrM, "")
	require.NoError(t, err)
	assert.Equal(t, "M", res.ManagerID)
	require.Len(t, res.Agents, 2)
	assert.Equal(t, "A1", res.Agents[0].ID)
	assertDec(t, 1000, res.Agents[0].Revenue)
	assert.Equal(t, "A2", res.Agents[1].ID)
	assertDec(t, 1500, res.Team.Revenue)
	assertDec(t, 200, res.Team.Pipeline)
}

func TestTeamAnalytics_Permisos(t *testing.T) {
	ctx := context.Background()
	uc := newDashboard(newOrg(t), 5)

	_, err := uc.TeamAnalytics(ctx, mgrM, "M2")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.TeamAnalytics(ctx, agentA1, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.TeamAnalytics(ctx, admin, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.TeamAnalytics(ctx, admin, "A1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	res, err := uc.TeamAnalytics(ctx, admin, "M2")
	require.NoError(t, err)
	require.Len(t, res.Agents, 1)
	assert.Equal(t, "A3", res.Agents[0].ID)
}
