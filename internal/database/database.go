// Package database is the storage boundary of the API. Repositories talk to
// a Database; only surrealdb.go knows about the driver.
//
// Query returns one {"status","result"} map per statement, in statement
// order. QueryOne unwraps the first record of the first statement, and
// Execute discards results. A failed statement fails the whole call with
// one of the sentinels below, so callers branch with errors.Is:
//
//	if errors.Is(err, database.ErrDuplicate) {
//	    // unique index hit: user_email, bootcamp_name, review_bootcamp_user
//	}
package database

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound: the record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate: a unique index rejected the write
	ErrDuplicate = errors.New("duplicate record")

	// ErrConnection: the database could not be reached
	ErrConnection = errors.New("database connection error")

	// ErrQuery: any other statement failure
	ErrQuery = errors.New("query error")
)

// Querier runs SurrealQL
type Querier interface {
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Database is a Querier with a connection lifecycle
type Database interface {
	Querier
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error
}

// Config holds connection settings
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
	TLS       bool // wss instead of ws
}

// Endpoint returns the RPC websocket URL
func (c Config) Endpoint() string {
	scheme := "ws"
	if c.TLS {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s:%s", scheme, c.Host, c.Port)
}
