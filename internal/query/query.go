package query

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Paging defaults
const (
	DefaultPage  = 1
	DefaultLimit = 25
)

// DefaultSortField orders results newest first when no sort is given
const DefaultSortField = "createdAt"

// ErrInvalidFilter reports a malformed filter, sort, select or operator
var ErrInvalidFilter = errors.New("invalid query")

// Operator is a comparison used by a filter
type Operator string

const (
	OpEq  Operator = "eq"
	OpGt  Operator = "gt"
	OpGte Operator = "gte"
	OpLt  Operator = "lt"
	OpLte Operator = "lte"
	OpIn  Operator = "in"
)

var operators = map[Operator]string{
	OpEq:  "=",
	OpGt:  ">",
	OpGte: ">=",
	OpLt:  "<",
	OpLte: "<=",
	OpIn:  "IN",
}

// Filter is a single field comparison. Values holds the raw strings; they
// are coerced against the schema when compiled.
type Filter struct {
	Field  string
	Op     Operator
	Values []string
}

// SortKey orders results by one field
type SortKey struct {
	Field string
	Desc  bool
}

// ListQuery is the parsed form of a list request
type ListQuery struct {
	Filters []Filter
	Select  []string
	Sort    []SortKey
	Page    int
	Limit   int
}

// Offset returns the number of records skipped before the current page
func (q *ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

var filterKeyPattern = regexp.MustCompile(`^([^\[\]]+)\[([^\[\]]*)\]$`)

// Parse converts raw query parameters into a ListQuery
func Parse(values url.Values) (*ListQuery, error) {
	q := &ListQuery{Page: DefaultPage, Limit: DefaultLimit}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		vals := values[key]
		if len(vals) == 0 {
			continue
		}
		last := vals[len(vals)-1]

		switch key {
		case "select":
			q.Select = splitList(last)
		case "sort":
			q.Sort = parseSort(last)
		case "page":
			q.Page = positiveInt(last, DefaultPage)
		case "limit":
			q.Limit = positiveInt(last, DefaultLimit)
		default:
			f, err := parseFilter(key, vals)
			if err != nil {
				return nil, err
			}
			q.Filters = append(q.Filters, f)
		}
	}

	return q, nil
}

func parseFilter(key string, vals []string) (Filter, error) {
	field, op := key, OpEq
	if m := filterKeyPattern.FindStringSubmatch(key); m != nil {
		field, op = m[1], Operator(strings.ToLower(m[2]))
	} else if strings.ContainsAny(key, "[]") {
		return Filter{}, fmt.Errorf("%w: malformed filter %q", ErrInvalidFilter, key)
	}
	if _, ok := operators[op]; !ok {
		return Filter{}, fmt.Errorf("%w: unknown operator %q on %s", ErrInvalidFilter, op, field)
	}

	f := Filter{Field: field, Op: op}
	if op == OpIn {
		for _, v := range vals {
			f.Values = append(f.Values, splitList(v)...)
		}
		if len(f.Values) == 0 {
			return Filter{}, fmt.Errorf("%w: %s[in] needs at least one value", ErrInvalidFilter, field)
		}
	} else {
		f.Values = []string{vals[len(vals)-1]}
	}
	return f, nil
}

func parseSort(raw string) []SortKey {
	var keys []SortKey
	for _, part := range splitList(raw) {
		desc := strings.HasPrefix(part, "-")
		field := strings.TrimLeft(part, "-+")
		if field == "" {
			continue
		}
		keys = append(keys, SortKey{Field: field, Desc: desc})
	}
	return keys
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
