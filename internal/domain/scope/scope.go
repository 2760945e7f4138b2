// Package scope define el alcance de visibilidad: el conjunto de owner-ids cuyos registros
// puede ver un actor, o el centinela "sin restricción" del admin sin view-as.
// Es un valor derivado; nunca se persiste.
package scope

import "sort"

// Scope conjunto inmutable de owner-ids.
type Scope struct {
	unrestricted bool
	ids          map[string]struct{}
}

// Unrestricted alcance sin filtro de owner (incluye registros sin asignar).
func Unrestricted() Scope {
	return Scope{unrestricted: true}
}

// Of construye un alcance restringido; ignora ids vacíos y duplicados.
func Of(ids ...string) Scope {
	s := Scope{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id != "" {
			s.ids[id] = struct{}{}
		}
	}
	return s
}

// IsUnrestricted indica si el alcance no filtra por owner.
func (s Scope) IsUnrestricted() bool { return s.unrestricted }

// Contains indica si un registro con ese owner cae en el alcance.
// Un registro sin owner sólo es visible con alcance sin restricción.
func (s Scope) Contains(ownerID *string) bool {
	if s.unrestricted {
		return true
	}
	if ownerID == nil {
		return false
	}
	_, ok := s.ids[*ownerID]
	return ok
}

// Has indica si el id está en el conjunto explícito.
func (s Scope) Has(id string) bool {
	return s.Contains(&id)
}

// OwnerIDs ids ordenados; nil para el alcance sin restricción, slice vacío si no hay ninguno.
func (s Scope) OwnerIDs() []string {
	if s.unrestricted {
		return nil
	}
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Equal compara dos alcances.
func (s Scope) Equal(o Scope) bool {
	if s.unrestricted || o.unrestricted {
		return s.unrestricted == o.unrestricted
	}
	if len(s.ids) != len(o.ids) {
		return false
	}
	for id := range s.ids {
		if _, ok := o.ids[id]; !ok {
			return false
		}
	}
	return true
}
