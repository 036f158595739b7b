package repository

import "context"

// Store agrupa los tres puertos sobre un mismo almacén documental o relacional.
// Se inyecta en los casos de uso; no hay handles globales.
type Store interface {
	Movements() MovementRepository
	Snapshots() SnapshotRepository
	Tasks() TaskRepository
	Close(ctx context.Context) error
}
