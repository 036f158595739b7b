package entity

import "time"

// TaskStatus estado de una tarea de bodega.
type TaskStatus string

const (
	TaskOpen TaskStatus = "open"
	TaskDone TaskStatus = "done"
)

// TaskType tipo de tarea operativa.
type TaskType string

const (
	TaskCycleCount TaskType = "cycle_count"
	TaskPutaway    TaskType = "putaway"
	TaskPick       TaskType = "pick"
)

// TaskPriority prioridad de la tarea.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityNormal TaskPriority = "normal"
	PriorityHigh   TaskPriority = "high"
)

// Task tarea independiente del cálculo de inventario. SKU y Warehouse son
// referencias informativas, no claves foráneas.
type Task struct {
	ID        string
	Type      TaskType
	Title     string
	Status    TaskStatus
	Priority  TaskPriority
	Assignee  string
	SKU       string
	Warehouse string
	CreatedAt time.Time
	DueAt     *time.Time
}

// ValidTaskType indica si t es uno de los tipos soportados.
func ValidTaskType(t TaskType) bool {
	switch t {
	case TaskCycleCount, TaskPutaway, TaskPick:
		return true
	}
	return false
}

// ValidTaskPriority indica si p es una prioridad soportada.
func ValidTaskPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}
