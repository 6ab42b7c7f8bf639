package database

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/surrealdb/surrealdb.go"
)

// SurrealDB implements Database over the SurrealDB websocket RPC
type SurrealDB struct {
	config Config

	mu sync.RWMutex
	db *surrealdb.DB
}

// NewSurrealDB creates an unconnected SurrealDB
func NewSurrealDB(cfg Config) *SurrealDB {
	return &SurrealDB{config: cfg}
}

// Connect dials the endpoint, signs in and selects the namespace and
// database. A failed step closes the half-open connection.
func (s *SurrealDB) Connect(ctx context.Context) error {
	conn, err := surrealdb.FromEndpointURLString(ctx, s.config.Endpoint())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	if _, err := conn.SignIn(ctx, &surrealdb.Auth{
		Username: s.config.User,
		Password: s.config.Password,
	}); err != nil {
		_ = conn.Close(ctx)
		return fmt.Errorf("%w: signin: %v", ErrConnection, err)
	}

	if err := conn.Use(ctx, s.config.Namespace, s.config.Database); err != nil {
		_ = conn.Close(ctx)
		return fmt.Errorf("%w: use %s/%s: %v", ErrConnection, s.config.Namespace, s.config.Database, err)
	}

	s.mu.Lock()
	s.db = conn
	s.mu.Unlock()
	return nil
}

// Close closes the connection. Calling it again is a no-op.
func (s *SurrealDB) Close() error {
	s.mu.Lock()
	conn := s.db
	s.db = nil
	s.mu.Unlock()

	if conn == nil {
		return nil
	}
	return conn.Close(context.Background())
}

func (s *SurrealDB) conn() (*surrealdb.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, fmt.Errorf("%w: not connected", ErrConnection)
	}
	return s.db, nil
}

// Ping asks the server for its version
func (s *SurrealDB) Ping(ctx context.Context) error {
	conn, err := s.conn()
	if err != nil {
		return err
	}
	if _, err := conn.Version(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// Query runs every statement in query and returns one {status, result} map
// per statement. Any failed statement fails the call.
func (s *SurrealDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	conn, err := s.conn()
	if err != nil {
		return nil, err
	}

	results, err := surrealdb.Query[interface{}](ctx, conn, query, vars)
	if err != nil {
		return nil, classifyFailure([]string{err.Error()})
	}
	if results == nil {
		return nil, nil
	}

	out := make([]interface{}, 0, len(*results))
	var failures []string
	for _, r := range *results {
		if r.Status != "OK" {
			msg := "statement failed"
			if r.Error != nil {
				msg = r.Error.Message
			}
			failures = append(failures, msg)
			continue
		}
		out = append(out, map[string]interface{}{"status": r.Status, "result": r.Result})
	}
	if len(failures) > 0 {
		return nil, classifyFailure(failures)
	}
	return out, nil
}

// QueryOne returns the first record of the first statement, or ErrNotFound
// when it produced none. Scalar results are returned as they are.
func (s *SurrealDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	results, err := s.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return firstRecord(results)
}

// Execute runs query and discards its results
func (s *SurrealDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := s.Query(ctx, query, vars)
	return err
}

func firstRecord(results []interface{}) (interface{}, error) {
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	stmt, ok := results[0].(map[string]interface{})
	if !ok {
		return results[0], nil
	}

	switch rows := stmt["result"].(type) {
	case nil:
		return nil, ErrNotFound
	case []interface{}:
		if len(rows) == 0 {
			return nil, ErrNotFound
		}
		return rows[0], nil
	default:
		return rows, nil
	}
}

// abortedByTransaction is how SurrealDB reports the statements that a
// failed transaction cancelled
const abortedByTransaction = "not executed due to a failed transaction"

// classifyFailure picks the most specific error among statement failures.
// An index violation anywhere wins; otherwise the first real cause beats
// the cancellation notices.
func classifyFailure(messages []string) error {
	for _, msg := range messages {
		if isIndexViolation(msg) {
			return fmt.Errorf("%w: %s", ErrDuplicate, msg)
		}
	}
	for _, msg := range messages {
		if !strings.Contains(msg, abortedByTransaction) {
			return fmt.Errorf("%w: %s", ErrQuery, msg)
		}
	}
	return fmt.Errorf("%w: %s", ErrQuery, messages[0])
}

func isIndexViolation(msg string) bool {
	lower := strings.ToLower(msg)
	for _, marker := range []string{"already contains", "unique", "duplicate"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
