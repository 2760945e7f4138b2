package entity

import "time"

// Estados y prioridades de tarea.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

var (
	TaskStatuses   = []string{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled}
	TaskPriorities = []string{"low", "medium", "high"}
)

// Task tarea de seguimiento; opcionalmente ligada a un lead o una propiedad.
type Task struct {
	ID              string
	Title           string
	Description     string
	DueDate         time.Time
	Priority        string
	Status          string
	AssignedTo      *string
	RelatedLead     *string
	RelatedProperty *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Record proyecta la tarea a la vista de visibilidad (sin monto).
func (t *Task) Record() Record {
	return Record{ID: t.ID, Kind: KindTask, OwnerID: t.AssignedTo, State: t.Status}
}

// Active indica si la tarea cuenta como pendiente en los dashboards.
func (t *Task) Active() bool { return t.Status != TaskStatusCompleted }

// ValidTaskStatus indica si s es un estado de tarea conocido.
func ValidTaskStatus(s string) bool { return contains(TaskStatuses, s) }

// ValidTaskPriority indica si p es una prioridad conocida.
func ValidTaskPriority(p string) bool { return contains(TaskPriorities, p) }
