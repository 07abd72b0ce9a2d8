package model

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/zserver/internal/errs"
	"github.com/and161185/zserver/internal/model/store"
	"github.com/and161185/zserver/internal/reqctx"
)

// table describes how one entity kind maps onto its table.
type table struct {
	name    string   // SQL table name
	entity  string   // entity kind reported in errors
	columns []string // columns selected into the entity struct, in order
}

// fields are the column/value pairs written by a create or update payload.
type fields struct {
	names  []string
	values []any
}

// fielder is implemented by create and update payloads.
type fielder interface {
	fields() fields
}

func (t table) selectSQL() string {
	return "SELECT " + joinIdents(t.columns) + " FROM " + quoteIdent(t.name)
}

// create inserts data and returns the new id.
// The ctx is not checked against row ownership yet.
func create[C fielder](ctx context.Context, _ reqctx.Ctx, mm *Manager, t table, data C) (int64, error) {
	f := data.fields()
	if len(f.names) == 0 {
		return 0, fmt.Errorf("%w: %s create without fields", errs.ErrValidation, t.entity)
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		quoteIdent(t.name), joinIdents(f.names), placeholders(1, len(f.names)))

	var id int64
	if err := mm.pool().QueryRow(ctx, q, f.values...).Scan(&id); err != nil {
		return 0, storageErr(err)
	}
	return id, nil
}

// get loads the row with id into E. No row gives *EntityNotFoundError.
func get[E any](ctx context.Context, _ reqctx.Ctx, mm *Manager, t table, id int64) (E, error) {
	var zero E
	rows, err := mm.pool().Query(ctx, t.selectSQL()+" WHERE id = $1", id)
	if err != nil {
		return zero, storageErr(err)
	}
	e, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[E])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, &EntityNotFoundError{Entity: t.entity, ID: id}
		}
		return zero, storageErr(err)
	}
	return e, nil
}

// firstBy loads the first row whose column equals value.
func firstBy[E any](ctx context.Context, _ reqctx.Ctx, mm *Manager, t table, column string, value any) (E, error) {
	var zero E
	q := t.selectSQL() + " WHERE " + quoteIdent(column) + " = $1 ORDER BY id LIMIT 1"
	rows, err := mm.pool().Query(ctx, q, value)
	if err != nil {
		return zero, storageErr(err)
	}
	e, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[E])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, fmt.Errorf("%s with %s=%v: %w", t.entity, column, value, errs.ErrNotFound)
		}
		return zero, storageErr(err)
	}
	return e, nil
}

// list returns every row ordered by id.
func list[E any](ctx context.Context, _ reqctx.Ctx, mm *Manager, t table) ([]E, error) {
	rows, err := mm.pool().Query(ctx, t.selectSQL()+" ORDER BY id")
	if err != nil {
		return nil, storageErr(err)
	}
	es, err := pgx.CollectRows(rows, pgx.RowToStructByName[E])
	if err != nil {
		return nil, storageErr(err)
	}
	return es, nil
}

// update writes data into the row with id. Concurrent updates are last-write-wins.
func update[U fielder](ctx context.Context, _ reqctx.Ctx, mm *Manager, t table, id int64, data U) error {
	f := data.fields()
	if len(f.names) == 0 {
		return fmt.Errorf("%w: %s update without fields", errs.ErrValidation, t.entity)
	}
	sets := make([]string, len(f.names))
	for i, n := range f.names {
		sets[i] = fmt.Sprintf("%s = $%d", quoteIdent(n), i+1)
	}
	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", quoteIdent(t.name), strings.Join(sets, ", "), len(f.names)+1)

	tag, err := mm.pool().Exec(ctx, q, append(f.values, id)...)
	if err != nil {
		return storageErr(err)
	}
	if tag.RowsAffected() == 0 {
		return &EntityNotFoundError{Entity: t.entity, ID: id}
	}
	return nil
}

// remove deletes the row with id.
func remove(ctx context.Context, _ reqctx.Ctx, mm *Manager, t table, id int64) error {
	tag, err := mm.pool().Exec(ctx, "DELETE FROM "+quoteIdent(t.name)+" WHERE id = $1", id)
	if err != nil {
		return storageErr(err)
	}
	if tag.RowsAffected() == 0 {
		return &EntityNotFoundError{Entity: t.entity, ID: id}
	}
	return nil
}

func storageErr(err error) error {
	if store.IsUniqueViolation(err) {
		return Storage(fmt.Errorf("%w: %w", errs.ErrAlreadyExists, err))
	}
	return Storage(err)
}

func quoteIdent(s string) string { return pgx.Identifier{s}.Sanitize() }

func joinIdents(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = quoteIdent(n)
	}
	return strings.Join(q, ", ")
}

func placeholders(from, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(ps, ", ")
}
