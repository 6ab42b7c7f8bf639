package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/forgo/devcamper/api/internal/database"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// normalize converts driver values into plain JSON-friendly values:
// record ids become "table:key" strings and datetimes become time.Time.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case models.RecordID:
		return convertSurrealID(t)
	case *models.RecordID:
		if t == nil {
			return nil
		}
		return convertSurrealID(*t)
	case models.CustomDateTime:
		return t.Time
	case *models.CustomDateTime:
		if t == nil {
			return nil
		}
		return t.Time
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, x := range t {
			out[k] = normalize(x)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, x := range t {
			out[i] = normalize(x)
		}
		return out
	default:
		return v
	}
}

// convertSurrealID converts a SurrealDB ID (which may be a complex object) to a string
func convertSurrealID(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case models.RecordID:
		return fmt.Sprintf("%s:%v", v.Table, v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprintf("%s:%v", v.Table, v.ID)
		}
		return ""
	case map[string]interface{}:
		// {"tb": "user", "id": "xxx"} format
		tb, _ := v["tb"].(string)
		if tb == "" {
			tb, _ = v["Table"].(string)
		}
		key, ok := v["id"]
		if !ok {
			key = v["ID"]
		}
		if tb != "" && key != nil {
			return fmt.Sprintf("%s:%v", tb, key)
		}
	}
	return fmt.Sprintf("%v", id)
}

// asRecord normalizes a single result row into a map
func asRecord(result interface{}) (map[string]interface{}, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}
	data, ok := normalize(result).(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected result format %T", result)
	}
	return data, nil
}

// decodeRecord maps a result row onto T through T's JSON tags
func decodeRecord[T any](result interface{}) (*T, error) {
	data, err := asRecord(result)
	if err != nil {
		return nil, err
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var out T
	if err := json.Unmarshal(jsonBytes, &out); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return &out, nil
}

// decodeRecords decodes every row of a statement result
func decodeRecords[T any](rows []interface{}, decode func(interface{}) (*T, error)) ([]*T, error) {
	out := make([]*T, 0, len(rows))
	for _, row := range rows {
		item, err := decode(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// statementRows returns the result rows of the idx-th statement
func statementRows(results []interface{}, idx int) []interface{} {
	if idx >= len(results) {
		return nil
	}
	resp, ok := results[idx].(map[string]interface{})
	if !ok {
		return nil
	}
	switch rows := resp["result"].(type) {
	case []interface{}:
		return rows
	case nil:
		return nil
	default:
		// Single-record statements (ONLY, RETURN AFTER on one id)
		return []interface{}{rows}
	}
}

// firstRow returns the first row of the first statement, or ErrNotFound
func firstRow(results []interface{}) (interface{}, error) {
	rows := statementRows(results, 0)
	if len(rows) == 0 {
		return nil, database.ErrNotFound
	}
	return rows[0], nil
}

// extractCount extracts count from a `SELECT count() ... GROUP ALL` result.
// An empty table yields no rows at all.
func extractCount(results []interface{}) int {
	rows := statementRows(results, 0)
	if len(rows) == 0 {
		return 0
	}
	if data, ok := rows[0].(map[string]interface{}); ok {
		return extractCountValue(data["count"])
	}
	return 0
}

// extractCountValue converts various numeric types to int
func extractCountValue(v interface{}) int {
	switch c := v.(type) {
	case float64:
		return int(c)
	case float32:
		return int(c)
	case int:
		return c
	case int64:
		return int(c)
	case uint64:
		return int(c)
	case uint32:
		return int(c)
	}
	return 0
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// notFoundAsNil maps ErrNotFound to a nil record with no error
func notFoundAsNil[T any](v *T, err error) (*T, error) {
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	return v, err
}
