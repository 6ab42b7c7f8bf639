package repository

import (
	"context"

	"github.com/forgo/devcamper/api/internal/database"
	"github.com/forgo/devcamper/api/internal/query"
)

// listRecords runs a list query against table: a count of every matching
// record, then the requested page. The two reads are not isolated from
// concurrent writes.
func listRecords[T any](ctx context.Context, db database.Database, table string, schema query.Schema, q *query.ListQuery, decode func(interface{}) (*T, error)) (*query.Page[T], error) {
	stmt, err := schema.Compile(table, q)
	if err != nil {
		return nil, err
	}

	countResult, err := db.Query(ctx, stmt.Count, stmt.Vars)
	if err != nil {
		return nil, err
	}
	total := extractCount(countResult)

	result, err := db.Query(ctx, stmt.Select, stmt.Vars)
	if err != nil {
		return nil, err
	}

	items, err := decodeRecords(statementRows(result, 0), decode)
	if err != nil {
		return nil, err
	}

	return &query.Page[T]{
		Items:      items,
		Pagination: query.NewPagination(stmt.Page, stmt.Limit, total),
	}, nil
}
