package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/forgo/devcamper/api/internal/database"
	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/pkg/jwt"
)

// TestIssuer is the issuer of every token minted by JWTHelper
const TestIssuer = "devcamper-test"

var testSecret = []byte("devcamper-test-secret-0123456789abcdef")

// ============================================================================
// JWT Helpers
// ============================================================================

// JWTHelper mints tokens accepted by the service it wraps
type JWTHelper struct {
	service *jwt.Service
}

// NewJWTHelper creates a JWT helper with a fixed in-memory secret
func NewJWTHelper(t *testing.T) *JWTHelper {
	t.Helper()
	return &JWTHelper{service: NewTestJWTService(t)}
}

// Service returns the JWT service to wire into the auth service under test
func (h *JWTHelper) Service() *jwt.Service {
	return h.service
}

// GenerateToken creates a valid token for user
func (h *JWTHelper) GenerateToken(t *testing.T, user *model.User) string {
	t.Helper()
	token, err := h.service.Sign(claimsFor(user))
	if err != nil {
		t.Fatalf("helpers: failed to sign token: %v", err)
	}
	return token
}

// GenerateExpiredToken creates a correctly signed token that expired an
// hour ago
func (h *JWTHelper) GenerateExpiredToken(t *testing.T, user *model.User) string {
	t.Helper()
	past := func() time.Time { return time.Now().Add(-2 * time.Hour) }
	signer := jwt.NewTestService(testSecret, TestIssuer, time.Hour, past)
	token, err := signer.Sign(claimsFor(user))
	if err != nil {
		t.Fatalf("helpers: failed to sign token: %v", err)
	}
	return token
}

func claimsFor(user *model.User) jwt.Claims {
	return jwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{Subject: user.ID},
	}
}

// NewTestJWTService creates an HS256 service with the shared test secret
func NewTestJWTService(t *testing.T) *jwt.Service {
	t.Helper()
	return jwt.NewTestService(testSecret, TestIssuer, 15*time.Minute, time.Now)
}

// ============================================================================
// HTTP Request Helpers
// ============================================================================

// RequestBuilder helps construct HTTP requests for testing
type RequestBuilder struct {
	t       *testing.T
	method  string
	path    string
	body    interface{}
	headers map[string]string
	token   string
}

// NewRequest creates a new request builder
func NewRequest(t *testing.T, method, path string) *RequestBuilder {
	t.Helper()
	return &RequestBuilder{
		t:       t,
		method:  method,
		path:    path,
		headers: make(map[string]string),
	}
}

// WithBody sets the request body (will be JSON encoded)
func (rb *RequestBuilder) WithBody(body interface{}) *RequestBuilder {
	rb.body = body
	return rb
}

// WithHeader adds a header to the request
func (rb *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	rb.headers[key] = value
	return rb
}

// WithAuth adds a bearer token for the given user
func (rb *RequestBuilder) WithAuth(h *JWTHelper, user *model.User) *RequestBuilder {
	rb.token = h.GenerateToken(rb.t, user)
	return rb
}

// WithToken adds a raw bearer token
func (rb *RequestBuilder) WithToken(token string) *RequestBuilder {
	rb.token = token
	return rb
}

// Build creates the HTTP request
func (rb *RequestBuilder) Build() *http.Request {
	rb.t.Helper()

	var bodyReader io.Reader
	if rb.body != nil {
		bodyBytes, err := json.Marshal(rb.body)
		if err != nil {
			rb.t.Fatalf("helpers: failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(rb.method, rb.path, bodyReader)
	if rb.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range rb.headers {
		req.Header.Set(k, v)
	}
	if rb.token != "" {
		req.Header.Set("Authorization", "Bearer "+rb.token)
	}

	return req
}

// Do builds the request and serves it with h
func (rb *RequestBuilder) Do(h http.Handler) *httptest.ResponseRecorder {
	rb.t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, rb.Build())
	return rr
}

// ============================================================================
// Response Assertion Helpers
// ============================================================================

// Envelope is the generic shape of every API response
type Envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Errors  []string        `json:"errors"`
	Count   int             `json:"count"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data"`
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, resp *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if resp.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, resp.Code, resp.Body.String())
	}
}

// AssertErrorEnvelope checks a {success:false,error} response
func AssertErrorEnvelope(t *testing.T, resp *httptest.ResponseRecorder, expectedStatus int, expectedMessage string) {
	t.Helper()
	AssertStatus(t, resp, expectedStatus)

	var env Envelope
	DecodeResponse(t, resp, &env)
	if env.Success {
		t.Errorf("expected success=false")
	}
	if env.Error != expectedMessage {
		t.Errorf("expected error %q, got %q", expectedMessage, env.Error)
	}
}

// AssertValidationError checks a 400 response whose errors list contains message
func AssertValidationError(t *testing.T, resp *httptest.ResponseRecorder, message string) {
	t.Helper()
	AssertStatus(t, resp, http.StatusBadRequest)

	var env Envelope
	DecodeResponse(t, resp, &env)
	if !slices.Contains(env.Errors, message) {
		t.Errorf("expected validation message %q in %v", message, env.Errors)
	}
}

// DecodeResponse decodes the response body into v
func DecodeResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response: %v. Body: %s", err, resp.Body.String())
	}
}

// DecodeData decodes the data field of a success envelope into v
func DecodeData(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) Envelope {
	t.Helper()
	var env Envelope
	DecodeResponse(t, resp, &env)
	if !env.Success {
		t.Fatalf("expected success envelope, got error %q", env.Error)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	return env
}

// ============================================================================
// Database Assertion Helpers
// ============================================================================

// AssertRecordExists checks that a record exists in the database
func AssertRecordExists(t *testing.T, db database.Database, id string) {
	t.Helper()
	if !recordExists(t, db, id) {
		t.Errorf("expected record %s to exist, but it doesn't", id)
	}
}

// AssertRecordNotExists checks that a record does not exist
func AssertRecordNotExists(t *testing.T, db database.Database, id string) {
	t.Helper()
	if recordExists(t, db, id) {
		t.Errorf("expected record %s to not exist, but it does", id)
	}
}

func recordExists(t *testing.T, db database.Database, id string) bool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	results, err := db.Query(ctx, "SELECT * FROM type::record($id)", map[string]interface{}{"id": id})
	if err != nil {
		t.Fatalf("failed to query for record: %v", err)
	}
	return hasResults(results)
}

// hasResults checks if SurrealDB query returned any results
func hasResults(results []interface{}) bool {
	if len(results) == 0 {
		return false
	}

	resp, ok := results[0].(map[string]interface{})
	if !ok {
		return false
	}

	switch v := resp["result"].(type) {
	case []interface{}:
		return len(v) > 0
	case nil:
		return false
	default:
		return true
	}
}
