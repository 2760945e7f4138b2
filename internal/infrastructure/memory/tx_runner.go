package memory

import (
	"context"

	"github.com/ankitkhetariya/crm-real-estate/internal/application/hierarchy"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/repository"
)

var _ hierarchy.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta la unidad de trabajo sobre los repos del store, una unidad a la vez.
// No hay rollback: si fn falla a mitad de camino, las escrituras previas quedan aplicadas.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

func (r *TxRunner) Run(ctx context.Context, fn func(
	users repository.UserRepository,
	records repository.RecordRepository,
) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(r.s.Users(), r.s.Records())
}
