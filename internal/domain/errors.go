package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autenticado")
	ErrForbidden          = errors.New("no permitido")
	ErrSelfModification   = errors.New("no puede modificar su propia cuenta")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrCascadeFailure     = errors.New("cascada interrumpida")
)

// Invalid envuelve ErrInvalidInput con el detalle del campo.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// CascadeStep estado de la máquina de una cascada de identidad.
type CascadeStep string

// Pending → Validated → HierarchyMutated → RecordsUnassigned → IdentityCommitted → Done;
// Rejected si falla una precondición. Pending significa que aún no se validó ni escribió nada.
const (
	StepPending           CascadeStep = "pending"
	StepValidated         CascadeStep = "validated"
	StepHierarchyMutated  CascadeStep = "hierarchy_mutated"
	StepRecordsUnassigned CascadeStep = "records_unassigned"
	StepIdentityCommitted CascadeStep = "identity_committed"
	StepDone              CascadeStep = "done"
	StepRejected          CascadeStep = "rejected"
)

// Next devuelve el paso siguiente de la secuencia; Done y Rejected son terminales.
func (s CascadeStep) Next() CascadeStep {
	switch s {
	case StepPending:
		return StepValidated
	case StepValidated:
		return StepHierarchyMutated
	case StepHierarchyMutated:
		return StepRecordsUnassigned
	case StepRecordsUnassigned:
		return StepIdentityCommitted
	case StepIdentityCommitted:
		return StepDone
	}
	return s
}

// CascadeError cascada fallida después de Validated. Step es el paso que no llegó a completarse;
// Completed el último que sí. Sin transacción puede haber escrituras parciales ya aplicadas.
type CascadeError struct {
	Operation string
	UserID    string
	Step      CascadeStep
	Completed CascadeStep
	Err       error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("%s: %s(%s) falló en %s (último paso completo: %s): %v",
		ErrCascadeFailure, e.Operation, e.UserID, e.Step, e.Completed, e.Err)
}

// Unwrap expone el error original.
func (e *CascadeError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrCascadeFailure).
func (e *CascadeError) Is(target error) bool { return target == ErrCascadeFailure }
