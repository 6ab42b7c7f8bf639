// Package testdb provides an isolated SurrealDB for integration tests.
//
// Each call to New connects to the instance named by TEST_DB_HOST and
// TEST_DB_PORT (default localhost:8000), creates a fresh namespace, and
// applies the embedded migrations. Tests are skipped when no instance is
// reachable or when running with -short.
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.New(t) // namespace removed on t.Cleanup
//	    repo := repository.NewBootcampRepository(tdb.DB)
//	}
//
// Reachability is probed once per test binary; after a failed probe every
// later New skips immediately.
package testdb
