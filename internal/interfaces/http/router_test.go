package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankitkhetariya/crm-real-estate/internal/application/analytics"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/auth"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/dto"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/hierarchy"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/usecase"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/visibility"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/infrastructure/memory"
	apphttp "github.com/ankitkhetariya/crm-real-estate/internal/interfaces/http"
	pkgjwt "github.com/ankitkhetariya/crm-real-estate/pkg/jwt"
)

type stubReport struct{}

func (stubReport) GenerateMasterReport(context.Context, *dto.MasterDashboardDTO, time.Time) ([]byte, error) {
	return []byte("%PDF-1.3 stub"), nil
}

type apiFixture struct {
	app   *fiber.App
	store *memory.Store
}

// Directorio: admin, managers M y M2, agentes A1 y A2 en el equipo de M, A3 sin manager.
func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	s := memory.NewStore()
	ctx := context.Background()
	for _, u := range []*entity.User{
		{ID: "admin", Role: entity.RoleAdmin},
		{ID: "M", Role: entity.RoleManager},
		{ID: "M2", Role: entity.RoleManager},
		{ID: "A1", Role: entity.RoleAgent, ManagedBy: entity.StrPtr("M")},
		{ID: "A2", Role: entity.RoleAgent, ManagedBy: entity.StrPtr("M")},
		{ID: "A3", Role: entity.RoleAgent},
	} {
		u.Name, u.Email, u.CreatedAt = u.ID, u.ID+"@crm.test", time.Now().UTC()
		require.NoError(t, s.Users().Create(ctx, u))
	}

	tx := memory.NewTxRunner(s)
	resolver := visibility.NewResolver(s.Users())
	h := hierarchy.NewManager(tx, nil)
	dashboard := analytics.NewDashboardUseCase(s.Users(), s.Records(), resolver, 5)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     auth.NewAuthUseCase(s.Users(), h, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60}, nil),
		Hierarchy:  h,
		Reconciler: hierarchy.NewReconciler(tx, nil),
		Dashboard:  dashboard,
		Report:     analytics.NewReportUseCase(dashboard, stubReport{}),
		LeadUC:     usecase.NewLeadUseCase(s.Leads(), resolver),
		PropertyUC: usecase.NewPropertyUseCase(s.Properties(), resolver),
		TaskUC:     usecase.NewTaskUseCase(s.Tasks(), s.Leads(), s.Properties(), resolver),
		Users:      s.Users(),
		JWTSecret:  testJWTSecret,
	})
	return &apiFixture{app: app, store: s}
}

func (f *apiFixture) do(t *testing.T, method, path, userID string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		u, err := f.store.Users().FindByID(context.Background(), userID)
		require.NoError(t, err)
		role := "agent"
		if u != nil {
			role = u.Role.String()
		}
		tok, err := pkgjwt.Generate(testJWTSecret, userID, role, testIssuer, testExpMin)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (f *apiFixture) teamOf(t *testing.T, managerID string) []string {
	t.Helper()
	team, err := f.store.Users().FindByManager(context.Background(), managerID)
	require.NoError(t, err)
	ids := []string{}
	for _, u := range team {
		ids = append(ids, u.ID)
	}
	return ids
}

func TestAssignTeamHTTP_ConflictoYForce(t *testing.T) {
	f := newAPI(t)

	resp := f.do(t, http.MethodPut, "/api/admin/assign-team", "admin",
		dto.AssignTeamRequest{ManagerID: "M2", AgentIDs: []string{"A1", "A3"}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decode[dto.ErrorResponse](t, resp).Code)
	assert.Empty(t, f.teamOf(t, "M2"))

	resp = f.do(t, http.MethodPut, "/api/admin/assign-team", "admin",
		dto.AssignTeamRequest{ManagerID: "M2", AgentIDs: []string{"A1", "A3"}, Force: true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.AssignTeamResponse](t, resp)
	assert.Equal(t, []string{"A1"}, out.Reassigned)
	assert.Equal(t, []string{"A1", "A3"}, f.teamOf(t, "M2"))
	assert.Equal(t, []string{"A2"}, f.teamOf(t, "M"))
}

func TestAssignTeamHTTP_Validacion(t *testing.T) {
	f := newAPI(t)

	resp := f.do(t, http.MethodPut, "/api/admin/assign-team", "admin", dto.AssignTeamRequest{AgentIDs: []string{"A1"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	resp = f.do(t, http.MethodPut, "/api/admin/assign-team", "admin", dto.AssignTeamRequest{ManagerID: "A3"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodPut, "/api/admin/assign-team", "admin", dto.AssignTeamRequest{ManagerID: "nadie"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminHTTP_SoloAdmin(t *testing.T) {
	f := newAPI(t)
	for _, path := range []string{"/api/admin/master-dashboard", "/api/admin/master-dashboard/report.pdf"} {
		resp := f.do(t, http.MethodGet, path, "M", nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
		resp.Body.Close()
	}
	resp := f.do(t, http.MethodGet, "/api/admin/master-dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestChangeRoleHTTP(t *testing.T) {
	f := newAPI(t)

	resp := f.do(t, http.MethodPut, "/api/admin/users/admin/role", "admin", dto.ChangeRoleRequest{Role: "agent"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "SELF_MODIFICATION", decode[dto.ErrorResponse](t, resp).Code)

	resp = f.do(t, http.MethodPut, "/api/admin/users/M/role", "admin", dto.ChangeRoleRequest{Role: "admin"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodPut, "/api/admin/users/nadie/role", "admin", dto.ChangeRoleRequest{Role: "agent"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodPut, "/api/admin/users/M/role", "admin", dto.ChangeRoleRequest{Role: "agent"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "agent", decode[dto.ChangeRoleResponse](t, resp).Role)
	assert.Empty(t, f.teamOf(t, "M"))
}

func TestRemoveUserHTTP_DesasignaRegistros(t *testing.T) {
	f := newAPI(t)

	resp := f.do(t, http.MethodPost, "/api/leads", "M", map[string]any{"name": "Casa centro", "budget": 1000})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	lead := decode[dto.LeadResponse](t, resp)

	resp = f.do(t, http.MethodDelete, "/api/admin/users/M", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	assert.Empty(t, f.teamOf(t, "M"))
	l, err := f.store.Leads().GetByID(context.Background(), lead.ID)
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Nil(t, l.AssignedTo)

	// El token de M sigue siendo válido en firma pero el usuario ya no existe.
	resp = f.do(t, http.MethodGet, "/api/leads", "M", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLeadsHTTP_AlcanceYViewAs(t *testing.T) {
	f := newAPI(t)

	for _, owner := range []string{"A1", "A2", "A3"} {
		resp := f.do(t, http.MethodPost, "/api/leads", owner,
			map[string]any{"name": "lead-" + owner, "status": "Converted", "budget": 100})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := f.do(t, http.MethodGet, "/api/leads", "M", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.LeadResponse](t, resp), 2)

	resp = f.do(t, http.MethodGet, "/api/leads/stats?viewAs=A1", "M", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[dto.ScopedStatsDTO](t, resp)
	assert.Equal(t, 1, stats.TotalLeads)
	assert.True(t, decimal.NewFromInt(100).Equal(stats.TotalRevenue))

	// Fuera del equipo: 403 genérico, sin datos.
	resp = f.do(t, http.MethodGet, "/api/leads/stats?viewAs=A3", "M", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "FORBIDDEN", errBody.Code)
	assert.Equal(t, "no permitido", errBody.Message)

	resp = f.do(t, http.MethodGet, "/api/leads/stats?viewAs=M", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, decode[dto.ScopedStatsDTO](t, resp).TotalLeads)
}

func TestLeadsHTTP_RegistroAjenoEsNotFound(t *testing.T) {
	f := newAPI(t)

	resp := f.do(t, http.MethodPost, "/api/leads", "A3", map[string]any{"name": "privado"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	lead := decode[dto.LeadResponse](t, resp)

	resp = f.do(t, http.MethodGet, "/api/leads/"+lead.ID, "A1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodDelete, "/api/leads/"+lead.ID, "M", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodDelete, "/api/leads/delete-all", "A3", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), decode[dto.DeletedResponse](t, resp).Deleted)
}

func TestMasterDashboardHTTP(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodPost, "/api/leads", "A1", map[string]any{"name": "l", "status": "Converted", "budget": 1000})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodGet, "/api/admin/master-dashboard", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	d := decode[dto.MasterDashboardDTO](t, resp)
	assert.True(t, decimal.NewFromInt(1000).Equal(d.Stats.TotalRevenue))
	assert.True(t, decimal.NewFromInt(200).Equal(d.Stats.TotalProfit))
	assert.Equal(t, 3, d.Stats.TotalAgents)
	assert.Equal(t, 2, d.Stats.TotalManagers)
	require.NotEmpty(t, d.TopAgents)
	assert.Equal(t, "A1", d.TopAgents[0].ID)

	resp = f.do(t, http.MethodGet, "/api/admin/master-dashboard/report.pdf", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "master-dashboard-")
	resp.Body.Close()
}

func TestMyAgentsHTTP(t *testing.T) {
	f := newAPI(t)

	resp := f.do(t, http.MethodGet, "/api/manager/my-agents", "M", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.TeamAnalyticsDTO](t, resp)
	assert.Equal(t, "M", out.ManagerID)
	assert.Len(t, out.Agents, 2)

	resp = f.do(t, http.MethodGet, "/api/manager/my-agents", "A1", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestRegisterHTTP_AgenteConManager(t *testing.T) {
	f := newAPI(t)

	resp := f.do(t, http.MethodPost, "/api/auth/register", "admin", dto.RegisterRequest{
		Name: "Nuevo", Email: "nuevo@crm.test", Password: "password1", ManagedBy: "M2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	u := decode[dto.UserResponse](t, resp)
	assert.Equal(t, []string{u.ID}, f.teamOf(t, "M2"))

	resp = f.do(t, http.MethodPost, "/api/auth/register", "admin", dto.RegisterRequest{
		Name: "Corto", Email: "corto@crm.test", Password: "123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodPost, "/api/auth/register", "M", dto.RegisterRequest{
		Name: "X", Email: "x@crm.test", Password: "password1",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}
