package database

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// AtomicBatch groups statements that must succeed or fail together. The
// RPC protocol has no session transactions, so the batch is sent as one
// request wrapped in BEGIN/COMMIT TRANSACTION:
//
//	err := database.NewAtomicBatch().
//	    Add("DELETE course WHERE bootcamp = type::record($id)", vars).
//	    Add("DELETE type::record($id)", vars).
//	    Execute(ctx, db)
//
// Each statement's variables are renamed with a statement prefix ($id
// becomes $s1_id, $s2_id, ...) so two statements may bind the same name to
// different values.
type AtomicBatch struct {
	statements []string
	vars       map[string]interface{}
}

// NewAtomicBatch creates an empty batch
func NewAtomicBatch() *AtomicBatch {
	return &AtomicBatch{vars: make(map[string]interface{})}
}

var varRef = regexp.MustCompile(`\$[A-Za-z_][A-Za-z0-9_]*`)

// Add appends a statement and its variables to the batch
func (b *AtomicBatch) Add(stmt string, vars map[string]interface{}) *AtomicBatch {
	prefix := fmt.Sprintf("s%d_", len(b.statements)+1)

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.vars[prefix+name] = vars[name]
	}

	if len(vars) > 0 {
		// whole names only: $id must not rewrite $idx or $parent.id
		stmt = varRef.ReplaceAllStringFunc(stmt, func(ref string) string {
			if _, ok := vars[ref[1:]]; ok {
				return "$" + prefix + ref[1:]
			}
			return ref
		})
	}

	stmt = strings.TrimSuffix(strings.TrimSpace(stmt), ";")
	b.statements = append(b.statements, stmt)
	return b
}

// Len returns the number of statements in the batch
func (b *AtomicBatch) Len() int {
	return len(b.statements)
}

// Statement renders the transaction and its merged variables. An empty
// batch renders as "".
func (b *AtomicBatch) Statement() (string, map[string]interface{}) {
	if len(b.statements) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("BEGIN TRANSACTION;\n")
	for _, stmt := range b.statements {
		sb.WriteString(stmt)
		sb.WriteString(";\n")
	}
	sb.WriteString("COMMIT TRANSACTION;")
	return sb.String(), b.vars
}

// Execute sends the batch in a single round trip. An empty batch is a no-op.
func (b *AtomicBatch) Execute(ctx context.Context, db Querier) error {
	stmt, vars := b.Statement()
	if stmt == "" {
		return nil
	}
	return db.Execute(ctx, stmt, vars)
}
