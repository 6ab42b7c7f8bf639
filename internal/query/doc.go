// Package query turns list-endpoint query strings into SurrealQL.
//
// Parse reads the raw parameters into a ListQuery:
//
//	?averageCost[lte]=10000&careers[in]=Business,UI/UX&select=name,description&sort=-averageRating&page=2&limit=10
//
// Reserved keys are select, sort, page and limit. Every other key is a
// filter written as field or field[op], where op is one of eq, gt, gte, lt,
// lte or in.
//
// A Schema lists the fields a resource may be filtered, sorted and
// projected by. Compile validates the ListQuery against it and produces a
// Statement whose values are always bound as variables; field names in the
// generated text only ever come from schema keys.
package query
