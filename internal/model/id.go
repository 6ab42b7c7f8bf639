package model

import (
	"regexp"
	"strings"
)

// Record tables
const (
	TableUser     = "user"
	TableBootcamp = "bootcamp"
	TableCourse   = "course"
	TableReview   = "review"
)

var recordKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,64}$`)

// ParseRecordID accepts "table:key" or a bare key and returns the full
// record id for table. Anything else is an InvalidIDError.
func ParseRecordID(table, raw string) (string, error) {
	key := raw
	if tb, k, ok := strings.Cut(raw, ":"); ok {
		if tb != table {
			return "", &InvalidIDError{Value: raw}
		}
		key = k
	}
	// SurrealDB renders some keys wrapped in angle brackets
	key = strings.TrimSuffix(strings.TrimPrefix(key, "⟨"), "⟩")
	if !recordKeyPattern.MatchString(key) {
		return "", &InvalidIDError{Value: raw}
	}
	return table + ":" + key, nil
}
