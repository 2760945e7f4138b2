package hierarchy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankitkhetariya/crm-real-estate/internal/application/hierarchy"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/infrastructure/memory"
)

func TestReconcile_DesvinculaManagerInvalido(t *testing.T) {
	ctx := context.Background()
	s := newDirectory(t)
	// m1 degradado sin pasar por ChangeRole: a1 y a2 quedan apuntando a un agente.
	require.NoError(t, s.Users().UpdateRole(ctx, "m1", entity.RoleAgent))
	r := hierarchy.NewReconciler(memory.NewTxRunner(s), nil)

	dry, err := r.Reconcile(ctx, true)
	require.NoError(t, err)
	assert.True(t, dry.DryRun)
	assert.ElementsMatch(t, []string{"a1", "a2"}, dry.DetachedUsers)
	assert.NotNil(t, user(t, s, "a1").ManagedBy, "dry-run no escribe")

	report, err := r.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a1", "a2"}, report.DetachedUsers)
	assert.Nil(t, user(t, s, "a1").ManagedBy)

	again, err := r.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.True(t, again.Clean())
}

func TestReconcile_DirectorioSanoNoCambiaNada(t *testing.T) {
	s := newDirectory(t)

	report, err := hierarchy.NewReconciler(memory.NewTxRunner(s), nil).Reconcile(context.Background(), false)

	require.NoError(t, err)
	assert.True(t, report.Clean())
	assert.Equal(t, []string{"a1", "a2"}, teamOf(t, s, "m1"))
}
