// Package memory implementa los puertos de persistencia en memoria para desarrollo local,
// demos y tests de aplicación. No es transaccional: cada llamada a un repo toma el lock del
// store por separado, así que un lector concurrente puede observar una cascada a medias.
package memory

import (
	"sync"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
)

// Store estado compartido por todos los repos en memoria.
type Store struct {
	mu         sync.RWMutex
	users      map[string]*entity.User
	leads      map[string]*entity.Lead
	properties map[string]*entity.Property
	tasks      map[string]*entity.Task

	// txMu serializa las unidades de trabajo de TxRunner entre sí (no contra lecturas sueltas).
	txMu sync.Mutex
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		users:      map[string]*entity.User{},
		leads:      map[string]*entity.Lead{},
		properties: map[string]*entity.Property{},
		tasks:      map[string]*entity.Task{},
	}
}

// Users repo de usuarios sobre el store.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Records vista transversal de registros.
func (s *Store) Records() *RecordRepo { return &RecordRepo{s: s} }

// Leads repo de leads.
func (s *Store) Leads() *LeadRepo { return &LeadRepo{s: s} }

// Properties repo de propiedades.
func (s *Store) Properties() *PropertyRepo { return &PropertyRepo{s: s} }

// Tasks repo de tareas.
func (s *Store) Tasks() *TaskRepo { return &TaskRepo{s: s} }

// ownerExists valida la referencia assigned_to como lo haría la FK. Requiere s.mu tomado.
func (s *Store) ownerExists(ownerID *string) bool {
	if ownerID == nil {
		return true
	}
	_, ok := s.users[*ownerID]
	return ok
}

// ownsRecords indica si algún registro apunta al usuario. Requiere s.mu tomado.
func (s *Store) ownsRecords(userID string) bool {
	for _, l := range s.leads {
		if l.AssignedTo != nil && *l.AssignedTo == userID {
			return true
		}
	}
	for _, p := range s.properties {
		if p.AssignedTo != nil && *p.AssignedTo == userID {
			return true
		}
	}
	for _, t := range s.tasks {
		if t.AssignedTo != nil && *t.AssignedTo == userID {
			return true
		}
	}
	return false
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
