package testdb

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/forgo/devcamper/api/internal/database"
	"github.com/forgo/devcamper/api/migrations"
)

// TestDB is a migrated database in a namespace of its own
type TestDB struct {
	DB        database.Database
	Namespace string
	t         *testing.T
}

// unreachable remembers a failed first connection so the rest of the
// package skips at once instead of waiting on the dial timeout again.
var (
	probeOnce   sync.Once
	unreachable error
)

func config() database.Config {
	return database.Config{
		Host:     envOr("TEST_DB_HOST", "localhost"),
		Port:     envOr("TEST_DB_PORT", "8000"),
		User:     envOr("TEST_DB_USER", "root"),
		Password: envOr("TEST_DB_PASSWORD", "root"),
		Database: "test",
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// New connects to a fresh namespace and applies the embedded migrations.
// The test is skipped in -short mode or when SurrealDB is unreachable. The
// namespace is removed when the test finishes.
func New(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("testdb: skipping database test in short mode")
	}

	cfg := config()
	cfg.Namespace = "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	probeOnce.Do(func() { unreachable = probe(ctx, cfg) })
	if unreachable != nil {
		t.Skipf("testdb: SurrealDB not reachable at %s: %v", cfg.Endpoint(), unreachable)
	}

	db := database.NewSurrealDB(cfg)
	if err := db.Connect(ctx); err != nil {
		t.Fatalf("testdb: connect: %v", err)
	}

	tdb := &TestDB{DB: db, Namespace: cfg.Namespace, t: t}
	t.Cleanup(tdb.Close)

	if err := database.Migrate(ctx, db, migrations.Files); err != nil {
		t.Fatalf("testdb: migrations failed: %v", err)
	}
	return tdb
}

func probe(ctx context.Context, cfg database.Config) error {
	db := database.NewSurrealDB(cfg)
	if err := db.Connect(ctx); err != nil {
		return err
	}
	return db.Close()
}

// Close drops the namespace and disconnects. Calling it again is a no-op.
func (tdb *TestDB) Close() {
	if tdb.DB == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = tdb.DB.Execute(ctx, "REMOVE NAMESPACE "+tdb.Namespace, nil)
	_ = tdb.DB.Close()
	tdb.DB = nil
}

// Ctx returns a context that times out after ten seconds and is cancelled
// when the test ends
func (tdb *TestDB) Ctx() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	tdb.t.Cleanup(cancel)
	return ctx
}
