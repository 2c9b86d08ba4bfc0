// Package postgres implements rest.Store on database/sql with the lib/pq driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/GoSim-25-26J-441/seed-api/internal/rest"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Table maps a model onto a SQL table.
type Table[T rest.Model] struct {
	Name string

	// Columns lists the table columns; the first one is the primary key.
	Columns []string

	// Immutable columns are written on insert and left alone by the upsert.
	Immutable []string

	// DDL creates the table; used by Migrate.
	DDL string

	New func() T

	// Values returns the column values of an entity, in Columns order.
	Values func(T) []any

	// Fields returns scan destinations into an entity, in Columns order.
	Fields func(T) []any
}

// Store provides persistence for one table
type Store[T rest.Model] struct {
	db    *sql.DB
	table Table[T]

	selectOne string
	selectAll string
	upsert    string
	deleteOne string
}

// NewStore creates a new Store for table
func NewStore[T rest.Model](db *sql.DB, table Table[T]) *Store[T] {
	cols := strings.Join(table.Columns, ", ")
	pk := table.Columns[0]

	return &Store[T]{
		db:        db,
		table:     table,
		selectOne: fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", cols, table.Name, pk),
		selectAll: fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", cols, table.Name, pk),
		upsert:    upsertQuery(table),
		deleteOne: fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table.Name, pk),
	}
}

func upsertQuery[T rest.Model](table Table[T]) string {
	placeholders := make([]string, len(table.Columns))
	for i := range table.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	immutable := make(map[string]bool, len(table.Immutable))
	for _, c := range table.Immutable {
		immutable[c] = true
	}
	sets := make([]string, 0, len(table.Columns))
	for _, c := range table.Columns[1:] {
		if immutable[c] {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s)",
		table.Name, strings.Join(table.Columns, ", "), strings.Join(placeholders, ", "), table.Columns[0])
	if len(sets) == 0 {
		return q + " DO NOTHING"
	}
	return q + " DO UPDATE SET " + strings.Join(sets, ", ")
}

// FindByID retrieves an entity by its primary key
func (s *Store[T]) FindByID(ctx context.Context, id string) (T, error) {
	item := s.table.New()
	err := s.db.QueryRowContext(ctx, s.selectOne, id).Scan(s.table.Fields(item)...)
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, rest.ErrNotFound
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to get %s: %w", s.table.Name, err)
	}
	return item, nil
}

// FindAll returns every row ordered by primary key
func (s *Store[T]) FindAll(ctx context.Context) ([]T, error) {
	rows, err := s.db.QueryContext(ctx, s.selectAll)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.table.Name, err)
	}
	defer rows.Close()

	out := make([]T, 0, 16)
	for rows.Next() {
		item := s.table.New()
		if err := rows.Scan(s.table.Fields(item)...); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", s.table.Name, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Save upserts all items in a single transaction
func (s *Store[T]) Save(ctx context.Context, items ...T) (err error) {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, item := range items {
		if _, err = tx.ExecContext(ctx, s.upsert, s.table.Values(item)...); err != nil {
			return s.wrap(err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", s.table.Name, err)
	}
	return nil
}

// Delete removes a row, reporting whether it existed
func (s *Store[T]) Delete(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, s.deleteOne, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete %s: %w", s.table.Name, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

func (s *Store[T]) wrap(err error) error {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("save %s: %w", s.table.Name, rest.ErrConflict)
		case foreignKeyViolation:
			return fmt.Errorf("save %s: %w", s.table.Name, &rest.ReferenceError{Field: detailColumn(pgErr.Detail)})
		}
	}
	return fmt.Errorf("failed to save %s: %w", s.table.Name, err)
}

// detailColumn extracts the column from a violation detail such as
// `Key (parent_id)=(x) is not present in table "nodes".`
func detailColumn(detail string) string {
	tail, ok := strings.CutPrefix(detail, "Key (")
	if !ok {
		return ""
	}
	col, _, ok := strings.Cut(tail, ")")
	if !ok || strings.Contains(col, ",") {
		return ""
	}
	return col
}
