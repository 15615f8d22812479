package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cotizador/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope mirrors dto.Response with the payload left raw for typed decoding
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *dto.ErrorInfo  `json:"error,omitempty"`
	Meta    *dto.Meta       `json:"meta,omitempty"`
}

// APIClient issues requests against a gin engine, optionally authenticated
type APIClient struct {
	Engine *gin.Engine
	Token  string
}

// NewAPIClient creates a client for the engine
func NewAPIClient(engine *gin.Engine) *APIClient {
	return &APIClient{Engine: engine}
}

// WithToken returns a copy of the client sending the bearer token
func (c *APIClient) WithToken(token string) *APIClient {
	return &APIClient{Engine: c.Engine, Token: token}
}

// Do serves one request. A non-nil body is JSON encoded.
func (c *APIClient) Do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = ToJSONReader(t, body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	w := httptest.NewRecorder()
	c.Engine.ServeHTTP(w, req)
	return w
}

// HTTPTestCase is one table-driven request against an engine
type HTTPTestCase struct {
	Name           string
	Method         string
	Path           string
	Body           any
	ExpectedStatus int
	ExpectedCode   string
	Validate       func(t *testing.T, w *httptest.ResponseRecorder)
}

// RunHTTPTestCases runs each case as a subtest
func RunHTTPTestCases(t *testing.T, client *APIClient, cases []HTTPTestCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			method := tc.Method
			if method == "" {
				method = http.MethodGet
			}
			w := client.Do(t, method, tc.Path, tc.Body)

			if tc.ExpectedStatus != 0 {
				assert.Equal(t, tc.ExpectedStatus, w.Code, "body: %s", w.Body.String())
			}
			if tc.ExpectedCode != "" {
				AssertErrorResponse(t, w, tc.ExpectedCode)
			}
			if tc.Validate != nil {
				tc.Validate(t, w)
			}
		})
	}
}

// DecodeEnvelope parses the standard response envelope
func DecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return env
}

// DecodeData parses the envelope payload into T, requiring a success response
func DecodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	env := DecodeEnvelope(t, w)
	require.True(t, env.Success, "expected success, body: %s", w.Body.String())

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

// AssertErrorResponse checks the envelope reports the given error code
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedCode string) {
	t.Helper()
	env := DecodeEnvelope(t, w)
	assert.False(t, env.Success)
	if assert.NotNil(t, env.Error, "expected error, body: %s", w.Body.String()) {
		assert.Equal(t, expectedCode, env.Error.Code)
	}
}

// ToJSONReader encodes v as a request body
func ToJSONReader(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}
