// Package repository implements the SurrealDB data access layer.
//
// Each repository handles one table:
//
//   - UserRepository: accounts, lookup by email, password updates
//   - BootcampRepository: bootcamps with their courses, cascading delete
//   - CourseRepository: courses and the parent bootcamp's averageCost
//   - ReviewRepository: reviews and the parent bootcamp's averageRating
//
// # Query Patterns
//
//   - Parameterized queries with $variable syntax; ids go through type::record()
//   - time::now() for createdAt
//   - List endpoints compile a query.ListQuery against the table's schema
//     and run a count plus a page query (see list.go)
//
// Records come back from the driver with record ids and datetimes in
// driver-specific types. normalize flattens them into strings and
// time.Time, after which records are decoded into model structs through
// their JSON tags.
//
// Lookups by id return (nil, nil) when the record does not exist.
package repository
