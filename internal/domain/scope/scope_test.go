package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain/scope"
)

func ptr(s string) *string { return &s }

func TestScope_Of_IgnoraVaciosYDuplicados(t *testing.T) {
	s := scope.Of("b", "a", "", "b")

	assert.False(t, s.IsUnrestricted())
	assert.Equal(t, []string{"a", "b"}, s.OwnerIDs())
	assert.True(t, s.Contains(ptr("a")))
	assert.False(t, s.Contains(ptr("c")))
	assert.False(t, s.Contains(nil), "un registro sin asignar no entra en un alcance restringido")
}

func TestScope_Unrestricted(t *testing.T) {
	s := scope.Unrestricted()

	assert.True(t, s.IsUnrestricted())
	assert.Nil(t, s.OwnerIDs())
	assert.True(t, s.Contains(nil))
	assert.True(t, s.Has("cualquiera"))
}

func TestScope_Equal(t *testing.T) {
	assert.True(t, scope.Of("a", "b").Equal(scope.Of("b", "a")))
	assert.False(t, scope.Of("a").Equal(scope.Of("a", "b")))
	assert.False(t, scope.Of().Equal(scope.Unrestricted()))
	assert.True(t, scope.Unrestricted().Equal(scope.Unrestricted()))
	assert.Equal(t, []string{}, scope.Of().OwnerIDs())
}
