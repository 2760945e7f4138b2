package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain/scope"
)

func TestScopeArgs(t *testing.T) {
	all, ids := scopeArgs(scope.Unrestricted())
	assert.True(t, all)
	assert.NotNil(t, ids, "ANY($2::text[]) necesita un arreglo, no NULL")
	assert.Empty(t, ids)

	all, ids = scopeArgs(scope.Of("a1", "a2", "a1", ""))
	assert.False(t, all)
	assert.ElementsMatch(t, []string{"a1", "a2"}, ids)
}

func TestScopeArgs_AlcanceVacioNoEsTotal(t *testing.T) {
	all, ids := scopeArgs(scope.Of())
	assert.False(t, all)
	assert.Empty(t, ids)
}

func TestPgErrorCodes(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isUniqueViolation(fk))
	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isForeignKeyViolation(errors.New("otro")))
}
