// Package store is the relational boundary of the workflow engine. It exposes a
// small set of gorm-backed CRUD primitives over the tables declared in the schema
// registry. Backends live in the postgres and sqlite subpackages.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by SelectByID when no row matches.
var ErrNotFound = errors.New("store: record not found")

// Querier is the set of primitives the domain services consume.
// It is satisfied both by a Store and by the transaction handle passed to WithTx.
type Querier interface {
	Insert(ctx context.Context, t Table, fields Row) (int64, error)
	// InsertIfAbsent inserts fields unless a row with the same unique columns
	// exists. It reports the number of rows written (0 or 1).
	InsertIfAbsent(ctx context.Context, t Table, fields Row, unique ...string) (int64, error)
	Update(ctx context.Context, t Table, fields Row, conds ...Cond) (int64, error)
	Delete(ctx context.Context, t Table, conds ...Cond) (int64, error)
	SelectByID(ctx context.Context, t Table, fields []string, id int64) (Row, error)
	SelectByIDs(ctx context.Context, t Table, fields []string, ids []int64) ([]Row, error)
	SelectWhere(ctx context.Context, t Table, sel Select) ([]Row, error)
	FetchPage(ctx context.Context, t Table, p PageParams) (*Page, error)
}

// Store is a Querier that can also open transactions and manage its schema.
type Store interface {
	Querier
	// WithTx runs fn inside one transaction. The transaction is rolled back when fn
	// returns an error and committed otherwise.
	WithTx(ctx context.Context, fn func(q Querier) error) error
	// Migrate applies the embedded DDL. It is safe to run repeatedly.
	Migrate(ctx context.Context) error
	Close()
}

// ReplaceChildren deletes every child row of parent (narrowed by scope) and inserts rows.
// Child sets are never diffed; the caller supplies the complete new set and runs this
// inside its transaction.
func ReplaceChildren(ctx context.Context, q Querier, t Table, parent Cond, rows []Row, scope ...Cond) error {
	conds := append([]Cond{parent}, scope...)
	if _, err := q.Delete(ctx, t, conds...); err != nil {
		return err
	}
	for _, r := range rows {
		child := make(Row, len(r)+1)
		for k, v := range r {
			child[k] = v
		}
		child[parent.Field] = parent.Value
		if _, err := q.Insert(ctx, t, child); err != nil {
			return err
		}
	}
	return nil
}
