package database

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
)

// Migrate applies every *.surql file in files, in name order. Migrations use
// IF NOT EXISTS definitions, so running them again is a no-op.
func Migrate(ctx context.Context, db Querier, files fs.FS) error {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".surql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := fs.ReadFile(files, name)
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		if err := db.Execute(ctx, string(content), nil); err != nil {
			return fmt.Errorf("applying %s: %w", name, err)
		}
		slog.Debug("migration applied", slog.String("file", name))
	}
	return nil
}
