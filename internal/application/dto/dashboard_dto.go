package dto

import "github.com/shopspring/decimal"

// MasterDashboardDTO respuesta de GET /api/admin/master-dashboard.
type MasterDashboardDTO struct {
	Stats              MasterStatsDTO          `json:"stats"`
	ManagerPerformance []ManagerPerformanceDTO `json:"managerPerformance"`
	TopAgents          []AgentRevenueDTO       `json:"topAgents"`
	ManagersList       []UserResponse          `json:"managersList"`
	AgentsList         []UserResponse          `json:"agentsList"`
	// ViewAs usuario cuyo alcance filtra Stats; vacío para toda la organización.
	ViewAs string `json:"viewAs,omitempty"`
}

// MasterStatsDTO totales financieros del alcance más conteos del directorio.
type MasterStatsDTO struct {
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalPipeline  decimal.Decimal `json:"totalPipeline"`
	TotalProfit    decimal.Decimal `json:"totalProfit"`
	ConversionRate decimal.Decimal `json:"conversionRate"`
	TotalLeads     int             `json:"totalLeads"`
	TotalAgents    int             `json:"totalAgents"`
	TotalManagers  int             `json:"totalManagers"`
}

// ManagerPerformanceDTO rollup de equipo (manager + sus agentes).
type ManagerPerformanceDTO struct {
	ManagerID   string          `json:"managerId"`
	ManagerName string          `json:"managerName"`
	TeamSize    int             `json:"teamSize"`
	TeamRevenue decimal.Decimal `json:"teamRevenue"`
	TeamProfit  decimal.Decimal `json:"teamProfit"`
}

// AgentRevenueDTO desempeño individual de un agente.
type AgentRevenueDTO struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	ManagedBy  *string         `json:"managedBy"`
	TotalLeads int             `json:"totalLeads"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// ScopedStatsDTO respuesta de GET /api/leads/stats.
type ScopedStatsDTO struct {
	TotalLeads       int             `json:"totalLeads"`
	ConvertedLeads   int             `json:"convertedLeads"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TotalPipeline    decimal.Decimal `json:"totalPipeline"`
	Profit           decimal.Decimal `json:"profit"`
	ConversionRate   decimal.Decimal `json:"conversionRate"`
	StatusCounts     map[string]int  `json:"statusCounts"`
	ActiveTasksCount int             `json:"activeTasksCount"`
	ViewAs           string          `json:"viewAs,omitempty"`
}

// TeamAnalyticsDTO respuesta de GET /api/manager/my-agents.
type TeamAnalyticsDTO struct {
	ManagerID string            `json:"managerId"`
	Agents    []AgentRevenueDTO `json:"agents"`
	Team      TeamRollupDTO     `json:"team"`
}

// TeamRollupDTO agregado financiero del equipo.
type TeamRollupDTO struct {
	Revenue        decimal.Decimal `json:"revenue"`
	Pipeline       decimal.Decimal `json:"pipeline"`
	Profit         decimal.Decimal `json:"profit"`
	ConversionRate decimal.Decimal `json:"conversionRate"`
	StatusCounts   map[string]int  `json:"statusCounts"`
}
