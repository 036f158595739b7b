package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed schema.sql
var schemaSQL string

// Querier lo cumplen *pgxpool.Pool, *pgx.Conn y pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// EnsureSchema crea tablas e índices si no existen. Es idempotente.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("aplicar esquema: %w", err)
	}
	return nil
}

// where arma una cláusula WHERE con parámetros posicionales, omitiendo valores vacíos.
type where struct {
	conds []string
	args  []any
}

func (w *where) eq(column, value string) {
	if value == "" {
		return
	}
	w.args = append(w.args, value)
	w.conds = append(w.conds, column+" = $"+strconv.Itoa(len(w.args)))
}

func (w *where) ilike(column, value string) {
	if value == "" {
		return
	}
	w.args = append(w.args, "%"+escapeLike(value)+"%")
	w.conds = append(w.conds, column+" ILIKE $"+strconv.Itoa(len(w.args)))
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// limit agrega LIMIT como parámetro; n <= 0 no limita.
func (w *where) limit(n int) string {
	if n <= 0 {
		return ""
	}
	w.args = append(w.args, n)
	return " LIMIT $" + strconv.Itoa(len(w.args))
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
