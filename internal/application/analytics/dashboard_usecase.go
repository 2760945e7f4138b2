// Package analytics contiene los casos de uso de dashboards: el maestro del admin,
// las estadísticas por alcance y la analítica de equipo del manager.
// Todos los agregados salen de rollup.FromBuckets; no hay fórmulas paralelas.
package analytics

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ankitkhetariya/crm-real-estate/internal/application/dto"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/visibility"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/repository"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/rollup"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/scope"
)

const defaultTopAgents = 5

// DashboardUseCase genera los dashboards. Siempre relee el estado (sin caché).
type DashboardUseCase struct {
	users     repository.UserRepository
	records   repository.RecordRepository
	resolver  *visibility.Resolver
	topAgents int
}

// NewDashboardUseCase construye el caso de uso. topAgents <= 0 usa 5.
func NewDashboardUseCase(
	users repository.UserRepository,
	records repository.RecordRepository,
	resolver *visibility.Resolver,
	topAgents int,
) *DashboardUseCase {
	if topAgents <= 0 {
		topAgents = defaultTopAgents
	}
	return &DashboardUseCase{users: users, records: records, resolver: resolver, topAgents: topAgents}
}

// Rollup agrega los leads del alcance.
func (uc *DashboardUseCase) Rollup(ctx context.Context, s scope.Scope) (rollup.Result, error) {
	buckets, err := uc.records.AggregateByConversionState(ctx, s)
	if err != nil {
		return rollup.Result{}, fmt.Errorf("analytics: agregar por estado: %w", err)
	}
	return rollup.FromBuckets(buckets), nil
}

// TeamRollup rollup del manager y su equipo; mismo alcance que ve el manager sin view-as.
func (uc *DashboardUseCase) TeamRollup(ctx context.Context, managerID string) (rollup.Result, error) {
	s, err := uc.resolver.TeamScope(ctx, managerID)
	if err != nil {
		return rollup.Result{}, err
	}
	return uc.Rollup(ctx, s)
}

// MasterDashboard vista del admin. viewAs filtra sólo los totales financieros;
// desempeño por manager, top de agentes y listados son siempre de toda la organización.
//
// Consultas en paralelo:
//  1. Rollup(alcance)            → Stats
//  2. ListByRole(manager)        → ManagersList + ManagerPerformance (TeamRollup por manager)
//  3. ListByRole(agent)          → AgentsList + TopAgents
//  4. AggregateByOwner(todo)     → revenue por agente para el ranking
func (uc *DashboardUseCase) MasterDashboard(ctx context.Context, actor visibility.Actor, viewAs string) (*dto.MasterDashboardDTO, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	s, err := uc.resolver.Resolve(ctx, actor, viewAs)
	if err != nil {
		return nil, err
	}

	var (
		totals   rollup.Result
		managers []*entity.User
		agents   []*entity.User
		byOwner  []rollup.OwnerTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = uc.Rollup(gctx, s)
		return err
	})
	g.Go(func() error {
		var err error
		managers, err = uc.users.ListByRole(gctx, entity.RoleManager)
		return err
	})
	g.Go(func() error {
		var err error
		agents, err = uc.users.ListByRole(gctx, entity.RoleAgent)
		return err
	})
	g.Go(func() error {
		var err error
		byOwner, err = uc.records.AggregateByOwner(gctx, scope.Unrestricted())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard maestro: %w", err)
	}

	performance, err := uc.managerPerformance(ctx, managers, agents)
	if err != nil {
		return nil, err
	}

	return &dto.MasterDashboardDTO{
		Stats: dto.MasterStatsDTO{
			TotalRevenue:   totals.Revenue,
			TotalPipeline:  totals.Pipeline,
			TotalProfit:    totals.Profit,
			ConversionRate: totals.ConversionRatePercent,
			TotalLeads:     totals.TotalCount,
			TotalAgents:    len(agents),
			TotalManagers:  len(managers),
		},
		ManagerPerformance: performance,
		TopAgents:          uc.rankAgents(agents, byOwner, uc.topAgents),
		ManagersList:       dto.ToUserResponses(managers),
		AgentsList:         dto.ToUserResponses(agents),
		ViewAs:             viewAs,
	}, nil
}

// managerPerformance un TeamRollup por manager, en paralelo; conserva el orden de managers.
func (uc *DashboardUseCase) managerPerformance(ctx context.Context, managers, agents []*entity.User) ([]dto.ManagerPerformanceDTO, error) {
	teamSize := make(map[string]int, len(managers))
	for _, a := range agents {
		if a.ManagedBy != nil {
			teamSize[*a.ManagedBy]++
		}
	}

	out := make([]dto.ManagerPerformanceDTO, len(managers))
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range managers {
		g.Go(func() error {
			res, err := uc.TeamRollup(gctx, m.ID)
			if err != nil {
				return fmt.Errorf("rollup del equipo %s: %w", m.ID, err)
			}
			out[i] = dto.ManagerPerformanceDTO{
				ManagerID:   m.ID,
				ManagerName: m.Name,
				TeamSize:    teamSize[m.ID],
				TeamRevenue: res.Revenue,
				TeamProfit:  res.Profit,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard maestro: %w", err)
	}
	return out, nil
}

// rankAgents ordena agentes por revenue propio (empates en el orden del listado) y trunca a n.
func (uc *DashboardUseCase) rankAgents(agents []*entity.User, byOwner []rollup.OwnerTotals, n int) []dto.AgentRevenueDTO {
	totals := make(map[string]rollup.OwnerTotals, len(byOwner))
	for _, t := range byOwner {
		totals[t.OwnerID] = t
	}
	byID := make(map[string]*entity.User, len(agents))
	ranked := make([]rollup.Ranked, 0, len(agents))
	for _, a := range agents {
		byID[a.ID] = a
		rev := totals[a.ID].Revenue
		ranked = append(ranked, rollup.Ranked{OwnerID: a.ID, Revenue: rev})
	}

	top := rollup.TopN(ranked, n)
	out := make([]dto.AgentRevenueDTO, 0, len(top))
	for _, r := range top {
		a := byID[r.OwnerID]
		out = append(out, dto.AgentRevenueDTO{
			ID:         a.ID,
			Name:       a.Name,
			Email:      a.Email,
			ManagedBy:  a.ManagedBy,
			TotalLeads: totals[a.ID].LeadCount,
			Revenue:    r.Revenue,
		})
	}
	return out
}

// ScopedStats estadísticas de leads y tareas activas del alcance del actor (con view-as opcional).
func (uc *DashboardUseCase) ScopedStats(ctx context.Context, actor visibility.Actor, viewAs string) (*dto.ScopedStatsDTO, error) {
	s, err := uc.resolver.Resolve(ctx, actor, viewAs)
	if err != nil {
		return nil, err
	}

	var (
		res    rollup.Result
		active int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res, err = uc.Rollup(gctx, s)
		return err
	})
	g.Go(func() error {
		var err error
		active, err = uc.records.CountActiveTasks(gctx, s)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("estadísticas: %w", err)
	}

	if actor.Role == entity.RoleAgent {
		viewAs = ""
	}
	return &dto.ScopedStatsDTO{
		TotalLeads:       res.TotalCount,
		ConvertedLeads:   res.ConvertedCount,
		TotalRevenue:     res.Revenue,
		TotalPipeline:    res.Pipeline,
		Profit:           res.Profit,
		ConversionRate:   res.ConversionRatePercent,
		StatusCounts:     res.CountsByState,
		ActiveTasksCount: active,
		ViewAs:           viewAs,
	}, nil
}

// TeamAnalytics agentes del manager con su desempeño (revenue desc) más el rollup del equipo.
// Un manager sólo consulta su propio equipo (managerID vacío = el actor); el admin, cualquiera.
func (uc *DashboardUseCase) TeamAnalytics(ctx context.Context, actor visibility.Actor, managerID string) (*dto.TeamAnalyticsDTO, error) {
	switch actor.Role {
	case entity.RoleManager:
		if managerID != "" && managerID != actor.ID {
			return nil, domain.ErrForbidden
		}
		managerID = actor.ID
	case entity.RoleAdmin:
		if managerID == "" {
			return nil, domain.Invalid("managerId es obligatorio")
		}
		m, err := uc.users.FindByID(ctx, managerID)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, domain.ErrUserNotFound
		}
		if m.Role != entity.RoleManager {
			return nil, domain.Invalid("el usuario %s no es manager", managerID)
		}
	default:
		return nil, domain.ErrForbidden
	}

	team, err := uc.resolver.Team(ctx, managerID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(team))
	for _, a := range team {
		ids = append(ids, a.ID)
	}
	byOwner, err := uc.records.AggregateByOwner(ctx, scope.Of(ids...))
	if err != nil {
		return nil, fmt.Errorf("analítica de equipo: %w", err)
	}
	teamRes, err := uc.TeamRollup(ctx, managerID)
	if err != nil {
		return nil, err
	}

	return &dto.TeamAnalyticsDTO{
		ManagerID: managerID,
		Agents:    uc.rankAgents(team, byOwner, len(team)),
		Team: dto.TeamRollupDTO{
			Revenue:        teamRes.Revenue,
			Pipeline:       teamRes.Pipeline,
			Profit:         teamRes.Profit,
			ConversionRate: teamRes.ConversionRatePercent,
			StatusCounts:   teamRes.CountsByState,
		},
	}, nil
}
