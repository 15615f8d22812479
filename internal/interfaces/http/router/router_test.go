package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cotizador/backend/internal/infrastructure/auth"
	"github.com/cotizador/backend/internal/interfaces/http/handler"
	"github.com/cotizador/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterUse(t *testing.T) {
	engine := gin.New()
	engine.GET("/outside", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("mark"))
	})

	r := NewRouter(engine).Use(func(c *gin.Context) {
		c.Set("mark", "api")
		c.Next()
	})
	group := NewDomainGroup("test", "/test")
	group.GET("/inside", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("mark"))
	})
	r.Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/inside", nil))
	assert.Equal(t, "api", w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/outside", nil))
	assert.Empty(t, w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("exposes name and prefix", func(t *testing.T) {
		g := NewDomainGroup("notes", "/notes")
		assert.Equal(t, "notes", g.Name())
		assert.Equal(t, "/notes", g.Prefix())
	})

	methods := []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}
	for _, method := range methods {
		t.Run("registers "+method+" route", func(t *testing.T) {
			engine := gin.New()
			g := NewDomainGroup("test", "/test")
			h := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
			switch method {
			case http.MethodGet:
				g.GET("/items", h)
			case http.MethodPost:
				g.POST("/items", h)
			case http.MethodPut:
				g.PUT("/items", h)
			case http.MethodDelete:
				g.DELETE("/items", h)
			}
			g.RegisterRoutes(engine.Group("/api/v1"))

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(method, "/api/v1/test/items", nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, method, w.Body.String())
		})
	}

	t.Run("applies group middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test").Use(func(c *gin.Context) {
			c.Header("X-Group", "test")
			c.Next()
		})
		g.GET("/items", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/items", nil))
		assert.Equal(t, "test", w.Header().Get("X-Group"))
	})
}

func TestRouterDescribe(t *testing.T) {
	r := NewRouter(gin.New())
	notes := NewDomainGroup("notes", "/notes")
	notes.GET("", func(c *gin.Context) {})
	notes.DELETE("/:id", func(c *gin.Context) {})
	system := NewDomainGroup("system", "")
	system.GET("/health", func(c *gin.Context) {})
	r.Register(notes, system)

	assert.Equal(t, "/api/v1", r.Prefix())
	assert.Equal(t, []Route{
		{Method: http.MethodGet, Path: "/api/v1/health", Group: "system"},
		{Method: http.MethodGet, Path: "/api/v1/notes", Group: "notes"},
		{Method: http.MethodDelete, Path: "/api/v1/notes/:id", Group: "notes"},
	}, r.Describe())
}

func testHandlers() Handlers {
	return Handlers{
		Health:    handler.NewHealthHandler(nil),
		Auth:      handler.NewAuthHandler(nil),
		User:      handler.NewUserHandler(nil),
		Company:   handler.NewCompanyHandler(nil),
		Client:    handler.NewClientHandler(nil),
		Quotation: handler.NewQuotationHandler(nil, nil),
		Note:      handler.NewNoteHandler(nil),
	}
}

func TestDomainGroups_MountsAPI(t *testing.T) {
	engine := gin.New()
	NewRouter(engine).Register(DomainGroups(testHandlers(), nil)...).Setup()

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"GET /api/v1/health",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/logout",
		"GET /api/v1/auth/me",
		"GET /api/v1/users",
		"POST /api/v1/users",
		"DELETE /api/v1/users/:id",
		"GET /api/v1/companies",
		"GET /api/v1/companies/:id/pdf-data",
		"PUT /api/v1/clients/:id",
		"GET /api/v1/quotations",
		"GET /api/v1/quotations/:id/pdf",
		"POST /api/v1/quotations/:id/pdf/archive",
		"DELETE /api/v1/notes/:id",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
}

func TestDomainGroups_LoginGuard(t *testing.T) {
	engine := gin.New()
	guard := func(c *gin.Context) {
		c.AbortWithStatus(http.StatusTooManyRequests)
	}
	NewRouter(engine).Register(DomainGroups(testHandlers(), guard)...).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestDomainGroups_UsersRequireAdmin(t *testing.T) {
	withRole := func(role string) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(middleware.JWTClaimsKey, &auth.Claims{Role: role})
			c.Next()
		}
	}

	engine := gin.New()
	NewRouter(engine).Use(withRole("user")).Register(DomainGroups(testHandlers(), nil)...).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}
