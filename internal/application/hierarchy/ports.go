package hierarchy

import (
	"context"

	"github.com/ankitkhetariya/crm-real-estate/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una unidad de trabajo, pasando repositorios atados a ella.
// En PostgreSQL es una transacción real; en memoria las escrituras no se revierten.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		users repository.UserRepository,
		records repository.RecordRepository,
	) error) error
}
