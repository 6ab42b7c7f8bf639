package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/forgo/devcamper/api/internal/model"
)

// Kind decides how a filter value is coerced and compared
type Kind int

const (
	String Kind = iota
	Number
	Bool
	Time
	Record
	StringList
)

// Field describes one queryable field. Table is the target table of a
// Record field.
type Field struct {
	Kind  Kind
	Table string
}

// Field constructors

func StringField() Field { return Field{Kind: String} }
func NumberField() Field { return Field{Kind: Number} }
func BoolField() Field { return Field{Kind: Bool} }
func TimeField() Field { return Field{Kind: Time} }
func ListField() Field { return Field{Kind: StringList} }
func RecordField(table string) Field { return Field{Kind: Record, Table: table} }

// Populate eager-loads the children that point at each listed record
type Populate struct {
	Field      string // output field name
	Table      string // child table
	ForeignKey string // child field holding the parent id
}

// Schema is the set of fields a resource can be listed by. Fetch names
// record-link fields replaced by the linked record in results.
type Schema struct {
	Fields   map[string]Field
	Populate *Populate
	Fetch    []string
}

// Statement is a compiled list query
type Statement struct {
	Select string
	Count  string
	Vars   map[string]interface{}
	Page   int
	Limit  int
	Offset int
}

// Compile validates q against the schema and renders the select and count
// statements for table.
func (s Schema) Compile(table string, q *ListQuery) (*Statement, error) {
	if q == nil {
		q = &ListQuery{Page: DefaultPage, Limit: DefaultLimit}
	}
	if q.Page < 1 || q.Limit < 1 {
		return nil, fmt.Errorf("%w: page and limit must be positive", ErrInvalidFilter)
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return nil, fmt.Errorf("%w: page %d is out of range for limit %d", ErrInvalidFilter, q.Page, q.Limit)
	}

	vars := make(map[string]interface{})
	where, err := s.where(q.Filters, vars)
	if err != nil {
		return nil, err
	}

	order, err := s.order(q.Sort)
	if err != nil {
		return nil, err
	}

	projection, err := s.projection(q.Select, q.Sort)
	if err != nil {
		return nil, err
	}

	vars["limit"] = q.Limit
	vars["offset"] = q.Offset()

	fetch := ""
	if len(s.Fetch) > 0 {
		fetch = " FETCH " + strings.Join(s.Fetch, ", ")
	}

	return &Statement{
		Select: fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT $limit START $offset%s", projection, table, where, order, fetch),
		Count:  fmt.Sprintf("SELECT count() AS count FROM %s%s GROUP ALL", table, where),
		Vars:   vars,
		Page:   q.Page,
		Limit:  q.Limit,
		Offset: q.Offset(),
	}, nil
}

func (s Schema) lookup(name string) (Field, error) {
	if name == "id" {
		return RecordField(""), nil
	}
	f, ok := s.Fields[name]
	if !ok {
		return Field{}, fmt.Errorf("%w: unknown field %q", ErrInvalidFilter, name)
	}
	return f, nil
}

func (s Schema) where(filters []Filter, vars map[string]interface{}) (string, error) {
	if len(filters) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(filters))
	for i, f := range filters {
		field, err := s.lookup(f.Field)
		if err != nil {
			return "", err
		}
		clause, err := field.clause(f, fmt.Sprintf("f%d", i), vars)
		if err != nil {
			return "", err
		}
		clauses = append(clauses, clause)
	}
	return " WHERE " + strings.Join(clauses, " AND "), nil
}

func (fd Field) clause(f Filter, name string, vars map[string]interface{}) (string, error) {
	switch fd.Kind {
	case Bool, StringList, Record:
		if f.Op != OpEq && f.Op != OpIn {
			return "", fmt.Errorf("%w: operator %s is not supported on %s", ErrInvalidFilter, f.Op, f.Field)
		}
	}

	values := make([]interface{}, 0, len(f.Values))
	for _, raw := range f.Values {
		v, err := fd.coerce(f.Field, raw)
		if err != nil {
			return "", err
		}
		values = append(values, v)
	}

	switch {
	case (fd.Kind == Record || fd.Kind == Time) && f.Op == OpIn:
		parts := make([]string, len(values))
		for i, v := range values {
			key := fmt.Sprintf("%s_%d", name, i)
			vars[key] = v
			parts[i] = fmt.Sprintf("%s = %s", f.Field, fd.wrap(key))
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil
	case fd.Kind == Record:
		vars[name] = values[0]
		return fmt.Sprintf("%s = %s", f.Field, fd.wrap(name)), nil
	case fd.Kind == StringList && f.Op == OpIn:
		vars[name] = values
		return fmt.Sprintf("%s CONTAINSANY $%s", f.Field, name), nil
	case fd.Kind == StringList:
		vars[name] = values[0]
		return fmt.Sprintf("%s CONTAINS $%s", f.Field, name), nil
	case fd.Kind == Time:
		vars[name] = values[0]
		return fmt.Sprintf("%s %s %s", f.Field, operators[f.Op], fd.wrap(name)), nil
	case f.Op == OpIn:
		vars[name] = values
		return fmt.Sprintf("%s IN $%s", f.Field, name), nil
	default:
		vars[name] = values[0]
		return fmt.Sprintf("%s %s $%s", f.Field, operators[f.Op], name), nil
	}
}

// wrap casts a bound variable to the stored type of the field
func (fd Field) wrap(name string) string {
	switch fd.Kind {
	case Record:
		return "type::record($" + name + ")"
	case Time:
		return "<datetime>$" + name
	default:
		return "$" + name
	}
}

func (fd Field) coerce(field, raw string) (interface{}, error) {
	invalid := func() error {
		return fmt.Errorf("%w: invalid value %q for %s", ErrInvalidFilter, raw, field)
	}

	switch fd.Kind {
	case Number:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, invalid()
		}
		return n, nil
	case Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, invalid()
		}
		return b, nil
	case Time:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.UTC().Format(time.RFC3339Nano), nil
			}
		}
		return nil, invalid()
	case Record:
		table := fd.Table
		if table == "" {
			// id filters accept any table prefix; the record simply won't match
			table, _, _ = strings.Cut(raw, ":")
		}
		id, err := model.ParseRecordID(table, raw)
		if err != nil {
			return nil, invalid()
		}
		return id, nil
	default:
		return raw, nil
	}
}

func (s Schema) order(keys []SortKey) (string, error) {
	if len(keys) == 0 {
		return DefaultSortField + " DESC", nil
	}

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, err := s.lookup(k.Field); err != nil {
			return "", err
		}
		dir := "ASC"
		if k.Desc {
			dir = "DESC"
		}
		parts = append(parts, k.Field+" "+dir)
	}
	return strings.Join(parts, ", "), nil
}

func (s Schema) projection(selected []string, sortKeys []SortKey) (string, error) {
	var fields []string
	if len(selected) == 0 {
		fields = []string{"*"}
	} else {
		seen := map[string]bool{"id": true}
		fields = []string{"id"}
		add := func(name string) error {
			if seen[name] {
				return nil
			}
			if _, err := s.lookup(name); err != nil {
				return err
			}
			seen[name] = true
			fields = append(fields, name)
			return nil
		}
		for _, name := range selected {
			if err := add(name); err != nil {
				return "", err
			}
		}
		// ORDER BY fields must be part of an explicit projection
		if len(sortKeys) == 0 {
			sortKeys = []SortKey{{Field: DefaultSortField}}
		}
		for _, k := range sortKeys {
			if err := add(k.Field); err != nil {
				return "", err
			}
		}
	}

	if p := s.Populate; p != nil {
		fields = append(fields, fmt.Sprintf("(SELECT * FROM %s WHERE %s = $parent.id ORDER BY createdAt DESC) AS %s", p.Table, p.ForeignKey, p.Field))
	}
	return strings.Join(fields, ", "), nil
}
