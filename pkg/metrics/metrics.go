// Package metrics expone los contadores Prometheus del motor de jerarquía y visibilidad.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cascadeRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crm",
		Subsystem: "cascade",
		Name:      "runs_total",
		Help:      "Cascadas de cambio de rol / baja de usuario por operación y resultado.",
	}, []string{"operation", "result"})

	cascadeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crm",
		Subsystem: "cascade",
		Name:      "failures_total",
		Help:      "Cascadas interrumpidas a mitad de camino, por operación y paso fallido.",
	}, []string{"operation", "step"})

	scopeResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crm",
		Subsystem: "visibility",
		Name:      "resolutions_total",
		Help:      "Resoluciones de alcance por rol del actor y resultado.",
	}, []string{"role", "result"})
)

// CascadeSucceeded registra una cascada completada.
func CascadeSucceeded(operation string) {
	cascadeRuns.WithLabelValues(operation, "done").Inc()
}

// CascadeRejected registra una cascada rechazada en validación (sin escrituras).
func CascadeRejected(operation string) {
	cascadeRuns.WithLabelValues(operation, "rejected").Inc()
}

// CascadeFailed registra una cascada que falló después de validar.
func CascadeFailed(operation, step string) {
	cascadeRuns.WithLabelValues(operation, "failed").Inc()
	cascadeFailures.WithLabelValues(operation, step).Inc()
}

// ScopeResolved registra el resultado de una resolución de alcance.
func ScopeResolved(role string, allowed bool) {
	result := "denied"
	if allowed {
		result = "allowed"
	}
	scopeResolutions.WithLabelValues(role, result).Inc()
}
