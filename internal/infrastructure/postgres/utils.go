package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain/scope"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// isForeignKeyViolation 23503: owner o manager inexistente.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

// scopeArgs traduce el alcance a los dos parámetros del filtro
// ($n::boolean OR assigned_to = ANY($m::text[])).
func scopeArgs(s scope.Scope) (bool, []string) {
	if s.IsUnrestricted() {
		return true, []string{}
	}
	return false, s.OwnerIDs()
}

// scopeFilter fragmento WHERE para la columna de owner con los parámetros indicados.
const scopeFilter = `($1::boolean OR assigned_to = ANY($2::text[]))`
