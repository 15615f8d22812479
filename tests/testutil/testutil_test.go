package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cotizador/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine() *gin.Engine {
	engine := gin.New()
	engine.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"number": "COT-1"}))
	})
	engine.GET("/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("NOT_FOUND", "Cotización no encontrada"))
	})
	engine.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetHeader("Authorization"))
	})
	engine.POST("/echo", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.JSON(http.StatusCreated, dto.NewSuccessResponse(body))
	})
	return engine
}

func TestNewTestUUID(t *testing.T) {
	assert.Equal(t, NewTestUUID("a"), NewTestUUID("a"))
	assert.NotEqual(t, NewTestUUID("a"), NewTestUUID("b"))
}

func TestUniqueNumber(t *testing.T) {
	a := UniqueNumber("COT")
	b := UniqueNumber("COT")
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "COT-")
}

func TestContextWithTimeout(t *testing.T) {
	ctx := ContextWithTimeout(t, time.Second)
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 100*time.Millisecond)
}

func TestAssertDecimalEqual(t *testing.T) {
	assert.True(t, AssertDecimalEqual(t, "800000", decimal.NewFromInt(800000)))
	assert.True(t, AssertDecimalEqual(t, "1.50", decimal.RequireFromString("1.5")))
}

func TestAPIClient_Do(t *testing.T) {
	client := NewAPIClient(testEngine())

	w := client.Do(t, http.MethodGet, "/whoami", nil)
	assert.Empty(t, w.Body.String())

	w = client.WithToken("abc").Do(t, http.MethodGet, "/whoami", nil)
	assert.Equal(t, "Bearer abc", w.Body.String())
	assert.Empty(t, client.Token)
}

func TestDecodeData(t *testing.T) {
	client := NewAPIClient(testEngine())

	w := client.Do(t, http.MethodPost, "/echo", map[string]any{"name": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code)

	data := DecodeData[map[string]string](t, w)
	assert.Equal(t, "Acme", data["name"])
}

func TestAssertErrorResponse(t *testing.T) {
	w := NewAPIClient(testEngine()).Do(t, http.MethodGet, "/missing", nil)
	AssertErrorResponse(t, w, "NOT_FOUND")
}

func TestRunHTTPTestCases(t *testing.T) {
	RunHTTPTestCases(t, NewAPIClient(testEngine()), []HTTPTestCase{
		{
			Name:           "success",
			Path:           "/ok",
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				data := DecodeData[map[string]string](t, w)
				assert.Equal(t, "COT-1", data["number"])
			},
		},
		{
			Name:           "error code",
			Path:           "/missing",
			ExpectedStatus: http.StatusNotFound,
			ExpectedCode:   "NOT_FOUND",
		},
	})
}
