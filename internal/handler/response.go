package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/internal/query"
)

// DataResponse wraps a single successful result
type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// CollectionResponse wraps a list of results. Pagination is omitted for
// nested lists, which are never paged.
type CollectionResponse struct {
	Success    bool              `json:"success"`
	Count      int               `json:"count"`
	Pagination *query.Pagination `json:"pagination,omitempty"`
	Data       interface{}       `json:"data"`
}

// TokenResponse is returned by the endpoints that issue a bearer token
type TokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// Response is what an endpoint produces on success. The adapter writes the
// cookies first, then Body with Status.
type Response struct {
	Status  int
	Body    interface{}
	Cookies []*http.Cookie
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Data builds a {success:true,data} response
func Data(status int, data interface{}) *Response {
	return &Response{Status: status, Body: DataResponse{Success: true, Data: data}}
}

// Empty is the body returned by deletes and logout: {success:true,data:{}}
func Empty() *Response {
	return Data(http.StatusOK, struct{}{})
}

// Collection builds a {success,count,data} response for an unpaged list
func Collection(items interface{}, count int) *Response {
	return &Response{
		Status: http.StatusOK,
		Body:   CollectionResponse{Success: true, Count: count, Data: items},
	}
}

// Paged builds the list response for a Query Builder page. When the caller
// asked for a projection, items are reduced to id, the selected fields and
// any populated relation so zero values of unselected fields are not sent.
func Paged[T any](page *query.Page[T], selected []string, populated ...string) (*Response, error) {
	var items interface{} = page.Items
	if len(selected) > 0 {
		keep := append(append([]string{"id"}, selected...), populated...)
		projected, err := project(page.Items, keep)
		if err != nil {
			return nil, err
		}
		items = projected
	}
	pagination := page.Pagination
	return &Response{
		Status: http.StatusOK,
		Body: CollectionResponse{
			Success:    true,
			Count:      page.Count(),
			Pagination: &pagination,
			Data:       items,
		},
	}, nil
}

func project[T any](items []*T, keep []string) ([]map[string]json.RawMessage, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("projecting results: %w", err)
	}
	var docs []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("projecting results: %w", err)
	}

	out := make([]map[string]json.RawMessage, 0, len(docs))
	for _, doc := range docs {
		trimmed := make(map[string]json.RawMessage, len(keep))
		for _, field := range keep {
			if v, ok := doc[field]; ok {
				trimmed[field] = v
			}
		}
		out = append(out, trimmed)
	}
	return out, nil
}

// DecodeJSON decodes a JSON request body into the given struct. An empty
// body leaves v untouched. The body must hold exactly one JSON value.
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return model.NewBadRequestError(fmt.Sprintf("Invalid request body: %s", err.Error()))
	}
	var extra json.RawMessage
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		return model.NewBadRequestError("Invalid request body: unexpected data after JSON value")
	}
	return nil
}

// decodeOnto returns an apply function that merges the request body over
// the current values of a resource. Fields absent from the body keep
// their stored values.
func decodeOnto[T any](r *http.Request) func(*T) error {
	return func(in *T) error {
		return DecodeJSON(r, in)
	}
}
