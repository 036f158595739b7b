package mongodb

import (
	"fmt"
	"time"

	"github.com/jhoicas/smart-warehouse/internal/domain/entity"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Nombres de colecciones y campos compartidos con los datos existentes.
const (
	collTransactions = "transactions"
	collInventories  = "inventories"
	collTasks        = "tasks"
)

type movementDoc struct {
	ID   any       `bson:"_id,omitempty"`
	SKU  string    `bson:"sku"`
	Type string    `bson:"type"`
	Qty  int64     `bson:"qty"`
	WH   string    `bson:"wh"`
	By   string    `bson:"by"`
	Note string    `bson:"note"`
	At   time.Time `bson:"at"`
}

func movementToDoc(m *entity.Movement) movementDoc {
	return movementDoc{
		ID:   m.ID,
		SKU:  m.SKU,
		Type: string(m.Kind),
		Qty:  m.Quantity,
		WH:   m.Warehouse,
		By:   m.Actor,
		Note: m.Note,
		At:   m.At,
	}
}

func (d movementDoc) toEntity() *entity.Movement {
	return &entity.Movement{
		ID:        idString(d.ID),
		SKU:       d.SKU,
		Kind:      entity.MovementKind(d.Type),
		Quantity:  d.Qty,
		Warehouse: d.WH,
		Actor:     d.By,
		Note:      d.Note,
		At:        d.At,
	}
}

type snapshotDoc struct {
	SKU       string    `bson:"sku"`
	Name      string    `bson:"name"`
	Qty       int64     `bson:"qty"`
	UoM       string    `bson:"uom"`
	WH        string    `bson:"wh"`
	Location  string    `bson:"location"`
	ImageURL  string    `bson:"imageUrl"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d snapshotDoc) toEntity() *entity.Snapshot {
	return &entity.Snapshot{
		SKU:       d.SKU,
		Name:      d.Name,
		Quantity:  d.Qty,
		UoM:       d.UoM,
		Warehouse: d.WH,
		Location:  d.Location,
		ImageURL:  d.ImageURL,
		UpdatedAt: d.UpdatedAt,
	}
}

type taskPayload struct {
	SKU string `bson:"sku"`
	WH  string `bson:"wh"`
}

type taskDoc struct {
	ID        any         `bson:"_id,omitempty"`
	Type      string      `bson:"type"`
	Title     string      `bson:"title"`
	Status    string      `bson:"status"`
	Priority  string      `bson:"priority"`
	Assignee  string      `bson:"assignee"`
	Payload   taskPayload `bson:"payload"`
	CreatedAt time.Time   `bson:"created_at"`
	DueAt     *time.Time  `bson:"due_at,omitempty"`
}

func taskToDoc(t *entity.Task) taskDoc {
	return taskDoc{
		ID:        t.ID,
		Type:      string(t.Type),
		Title:     t.Title,
		Status:    string(t.Status),
		Priority:  string(t.Priority),
		Assignee:  t.Assignee,
		Payload:   taskPayload{SKU: t.SKU, WH: t.Warehouse},
		CreatedAt: t.CreatedAt,
		DueAt:     t.DueAt,
	}
}

func (d taskDoc) toEntity() *entity.Task {
	priority := entity.TaskPriority(d.Priority)
	if priority == "" {
		priority = entity.PriorityNormal
	}
	return &entity.Task{
		ID:        idString(d.ID),
		Type:      entity.TaskType(d.Type),
		Title:     d.Title,
		Status:    entity.TaskStatus(d.Status),
		Priority:  priority,
		Assignee:  d.Assignee,
		SKU:       d.Payload.SKU,
		Warehouse: d.Payload.WH,
		CreatedAt: d.CreatedAt,
		DueAt:     d.DueAt,
	}
}

// idString convierte un _id (ObjectID de datos heredados o string propio) a texto.
func idString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case primitive.ObjectID:
		return id.Hex()
	default:
		return fmt.Sprint(id)
	}
}

// idCandidates devuelve los valores de _id a probar: el texto tal cual y, si es
// hex válido, también su ObjectID.
func idCandidates(id string) []any {
	out := []any{id}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		out = append(out, oid)
	}
	return out
}
