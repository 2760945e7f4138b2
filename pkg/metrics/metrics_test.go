package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCascadeFailed_CuentaEjecucionYPaso(t *testing.T) {
	runs := cascadeRuns.WithLabelValues("remove_user", "failed")
	step := cascadeFailures.WithLabelValues("remove_user", "records_unassigned")
	beforeRuns := testutil.ToFloat64(runs)
	beforeStep := testutil.ToFloat64(step)

	CascadeFailed("remove_user", "records_unassigned")

	assert.Equal(t, beforeRuns+1, testutil.ToFloat64(runs))
	assert.Equal(t, beforeStep+1, testutil.ToFloat64(step))
}

func TestCascadeSucceededYRejected(t *testing.T) {
	done := cascadeRuns.WithLabelValues("change_role", "done")
	rejected := cascadeRuns.WithLabelValues("change_role", "rejected")
	d0, r0 := testutil.ToFloat64(done), testutil.ToFloat64(rejected)

	CascadeSucceeded("change_role")
	CascadeRejected("change_role")
	CascadeRejected("change_role")

	assert.Equal(t, d0+1, testutil.ToFloat64(done))
	assert.Equal(t, r0+2, testutil.ToFloat64(rejected))
}

func TestScopeResolved_Etiquetas(t *testing.T) {
	allowed := scopeResolutions.WithLabelValues("manager", "allowed")
	denied := scopeResolutions.WithLabelValues("manager", "denied")
	a0, d0 := testutil.ToFloat64(allowed), testutil.ToFloat64(denied)

	ScopeResolved("manager", true)
	ScopeResolved("manager", false)

	assert.Equal(t, a0+1, testutil.ToFloat64(allowed))
	assert.Equal(t, d0+1, testutil.ToFloat64(denied))
}
