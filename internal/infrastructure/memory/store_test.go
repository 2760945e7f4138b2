package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/scope"
	"github.com/ankitkhetariya/crm-real-estate/internal/infrastructure/memory"
)

func seedUser(t *testing.T, s *memory.Store, id string, role entity.Role, managedBy *string) {
	t.Helper()
	err := s.Users().Create(context.Background(), &entity.User{
		ID: id, Name: id, Email: id + "@crm.test", Role: role, ManagedBy: managedBy,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
}

func seedLead(t *testing.T, s *memory.Store, id, owner, status, budget string) {
	t.Helper()
	b := decimal.RequireFromString(budget)
	err := s.Leads().Create(context.Background(), &entity.Lead{
		ID: id, Name: id, Status: status, Budget: &b, AssignedTo: entity.StrPtr(owner),
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
}

func TestUserRepo_EmailDuplicadoSinDistinguirMayusculas(t *testing.T) {
	s := memory.NewStore()
	seedUser(t, s, "u1", entity.RoleAgent, nil)

	err := s.Users().Create(context.Background(), &entity.User{ID: "u2", Email: "U1@CRM.test", Role: entity.RoleAgent})

	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestUserRepo_DevuelveCopias(t *testing.T) {
	s := memory.NewStore()
	seedUser(t, s, "m", entity.RoleManager, nil)
	seedUser(t, s, "a", entity.RoleAgent, entity.StrPtr("m"))

	u, err := s.Users().FindByID(context.Background(), "a")
	require.NoError(t, err)
	*u.ManagedBy = "otro"
	u.Role = entity.RoleAdmin

	again, err := s.Users().FindByID(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "m", *again.ManagedBy)
	assert.Equal(t, entity.RoleAgent, again.Role)
}

func TestUserRepo_ClearManagedBy(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedUser(t, s, "m", entity.RoleManager, nil)
	seedUser(t, s, "a1", entity.RoleAgent, entity.StrPtr("m"))
	seedUser(t, s, "a2", entity.RoleAgent, entity.StrPtr("m"))
	seedUser(t, s, "a3", entity.RoleAgent, nil)

	n, err := s.Users().ClearManagedBy(ctx, "m")

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	team, err := s.Users().FindByManager(ctx, "m")
	require.NoError(t, err)
	assert.Empty(t, team)
}

func TestUserRepo_DeleteConRegistrosAsignadosFalla(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedUser(t, s, "a", entity.RoleAgent, nil)
	seedLead(t, s, "l1", "a", entity.LeadStatusNew, "10")

	err := s.Users().Delete(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = s.Records().UnassignOwner(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, s.Users().Delete(ctx, "a"))
	require.NoError(t, s.Users().Delete(ctx, "a"), "borrar dos veces es idempotente")
}

func TestLeadRepo_OwnerInexistente(t *testing.T) {
	s := memory.NewStore()

	err := s.Leads().Create(context.Background(), &entity.Lead{ID: "l1", AssignedTo: entity.StrPtr("nadie")})

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRecordRepo_FiltraPorAlcance(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedUser(t, s, "a", entity.RoleAgent, nil)
	seedUser(t, s, "b", entity.RoleAgent, nil)
	seedLead(t, s, "l1", "a", entity.LeadStatusConverted, "100")
	seedLead(t, s, "l2", "b", entity.LeadStatusNew, "50")
	require.NoError(t, s.Leads().Create(ctx, &entity.Lead{ID: "l3", Status: entity.LeadStatusNew}))

	onlyA, err := s.Records().FindByOwnerIn(ctx, entity.KindLead, scope.Of("a"))
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	assert.Equal(t, "l1", onlyA[0].ID)

	all, err := s.Records().FindByOwnerIn(ctx, entity.KindLead, scope.Unrestricted())
	require.NoError(t, err)
	assert.Len(t, all, 3, "sin restricción incluye el lead sin asignar")

	none, err := s.Records().FindByOwnerIn(ctx, entity.KindLead, scope.Of())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecordRepo_AgregadosPorEstadoYOwner(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedUser(t, s, "a", entity.RoleAgent, nil)
	seedUser(t, s, "b", entity.RoleAgent, nil)
	seedLead(t, s, "l1", "a", entity.LeadStatusConverted, "100")
	seedLead(t, s, "l2", "a", entity.LeadStatusConverted, "300")
	seedLead(t, s, "l3", "b", entity.LeadStatusNew, "200")

	buckets, err := s.Records().AggregateByConversionState(ctx, scope.Unrestricted())
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, entity.LeadStatusConverted, buckets[0].State)
	assert.Equal(t, 2, buckets[0].Count)
	assert.True(t, decimal.NewFromInt(400).Equal(buckets[0].Value))

	totals, err := s.Records().AggregateByOwner(ctx, scope.Of("a", "b"))
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "a", totals[0].OwnerID)
	assert.True(t, decimal.NewFromInt(400).Equal(totals[0].Revenue))
	assert.True(t, totals[1].Revenue.IsZero())
}

func TestRecordRepo_UnassignOwnerCubreLosTresTipos(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedUser(t, s, "a", entity.RoleAgent, nil)
	seedLead(t, s, "l1", "a", entity.LeadStatusNew, "1")
	require.NoError(t, s.Properties().Create(ctx, &entity.Property{ID: "p1", Price: decimal.NewFromInt(5), AssignedTo: entity.StrPtr("a")}))
	require.NoError(t, s.Tasks().Create(ctx, &entity.Task{ID: "t1", Status: entity.TaskStatusPending, AssignedTo: entity.StrPtr("a")}))

	n, err := s.Records().UnassignOwner(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	owners, err := s.Records().DistinctOwnerIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, owners)

	n, err = s.Records().UnassignOwner(ctx, "a")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecordRepo_CountActiveTasks(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedUser(t, s, "a", entity.RoleAgent, nil)
	for id, status := range map[string]string{
		"t1": entity.TaskStatusPending,
		"t2": entity.TaskStatusInProgress,
		"t3": entity.TaskStatusCompleted,
		"t4": entity.TaskStatusCancelled,
	} {
		require.NoError(t, s.Tasks().Create(ctx, &entity.Task{ID: id, Status: status, AssignedTo: entity.StrPtr("a")}))
	}

	n, err := s.Records().CountActiveTasks(ctx, scope.Of("a"))

	require.NoError(t, err)
	assert.Equal(t, 3, n, "todo lo que no está completed cuenta como activa")
}

func TestLeadRepo_DeleteDesligaTareas(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedUser(t, s, "a", entity.RoleAgent, nil)
	seedLead(t, s, "l1", "a", entity.LeadStatusNew, "1")
	require.NoError(t, s.Tasks().Create(ctx, &entity.Task{ID: "t1", RelatedLead: entity.StrPtr("l1")}))

	n, err := s.Leads().DeleteByOwner(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	task, err := s.Tasks().GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, task.RelatedLead)
}

func TestUserRepo_AssignManagerCondicional(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	users := s.Users()
	for _, u := range []*entity.User{
		{ID: "m1", Email: "m1@crm.test", Role: entity.RoleManager},
		{ID: "m2", Email: "m2@crm.test", Role: entity.RoleManager},
		{ID: "a1", Email: "a1@crm.test", Role: entity.RoleAgent},
	} {
		require.NoError(t, users.Create(ctx, u))
	}

	require.NoError(t, users.AssignManager(ctx, "a1", "m1", false))
	require.NoError(t, users.AssignManager(ctx, "a1", "m1", false), "re-asignar al mismo manager es idempotente")
	assert.ErrorIs(t, users.AssignManager(ctx, "a1", "m2", false), domain.ErrConflict)
	require.NoError(t, users.AssignManager(ctx, "a1", "m2", true))
	assert.ErrorIs(t, users.AssignManager(ctx, "fantasma", "m1", false), domain.ErrUserNotFound)

	a1, err := users.FindByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "m2", *a1.ManagedBy)
}
