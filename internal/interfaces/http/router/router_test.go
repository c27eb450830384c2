package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

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

	group := NewDomainGroup("pettycash", "/pettycash")
	group.GET("/balances", func(c *gin.Context) {
		c.String(http.StatusOK, "balances")
	})

	r.Register(group)
	assert.Len(t, r.registrars, 1)
	r.Setup()

	w := serve(engine, "GET", "/api/v1/pettycash/balances")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "balances", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("carries name and prefix", func(t *testing.T) {
		g := NewDomainGroup("expenses", "/expenses")
		assert.Equal(t, "expenses", g.Name())
		assert.Equal(t, "/expenses", g.Prefix())
	})

	t.Run("registers each HTTP method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("expenses", "/expenses")
		g.GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") })
		g.POST("", func(c *gin.Context) { c.String(http.StatusCreated, "created") })
		g.PUT("/:id", func(c *gin.Context) { c.String(http.StatusOK, "updated") })
		g.PATCH("/:id/approve", func(c *gin.Context) { c.String(http.StatusOK, "approved") })
		g.DELETE("/:id", func(c *gin.Context) { c.String(http.StatusNoContent, "") })

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		tests := []struct {
			method string
			path   string
			status int
		}{
			{"GET", "/api/v1/expenses", http.StatusOK},
			{"POST", "/api/v1/expenses", http.StatusCreated},
			{"PUT", "/api/v1/expenses/42", http.StatusOK},
			{"PATCH", "/api/v1/expenses/42/approve", http.StatusOK},
			{"DELETE", "/api/v1/expenses/42", http.StatusNoContent},
		}
		for _, tt := range tests {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, tt.status, w.Code, "%s %s", tt.method, tt.path)
		}
	})

	t.Run("applies group middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("expenses", "/expenses")
		g.Use(func(c *gin.Context) {
			c.Header("X-Site-Office", "main")
			c.Next()
		})
		g.GET("", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		w := serve(engine, "GET", "/api/v1/expenses")
		assert.Equal(t, "main", w.Header().Get("X-Site-Office"))
	})

	t.Run("nests subgroups under the parent prefix", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("pettycash", "/pettycash")

		ledgers := g.Group("ledgers", "/ledgers")
		ledgers.GET("", func(c *gin.Context) { c.String(http.StatusOK, "ledgers list") })

		reports := g.Group("reports", "/reports")
		reports.GET("", func(c *gin.Context) { c.String(http.StatusOK, "reports list") })

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		w1 := serve(engine, "GET", "/api/v1/pettycash/ledgers")
		assert.Equal(t, http.StatusOK, w1.Code)
		assert.Equal(t, "ledgers list", w1.Body.String())

		w2 := serve(engine, "GET", "/api/v1/pettycash/reports")
		assert.Equal(t, http.StatusOK, w2.Code)
		assert.Equal(t, "reports list", w2.Body.String())
	})
}

func TestMultipleDomainGroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	expenses := NewDomainGroup("expenses", "/expenses")
	expenses.GET("", func(c *gin.Context) { c.String(http.StatusOK, "expenses") })

	suppliers := NewDomainGroup("suppliers", "/suppliers")
	suppliers.GET("", func(c *gin.Context) { c.String(http.StatusOK, "suppliers") })

	r.Register(expenses).Register(suppliers)
	r.Setup()

	w1 := serve(engine, "GET", "/api/v1/expenses")
	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, "expenses", w1.Body.String())

	w2 := serve(engine, "GET", "/api/v1/suppliers")
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, "suppliers", w2.Body.String())
}

func TestChainedMethodCalls(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	g := NewDomainGroup("pettycash", "/pettycash")
	g.GET("/balances", func(c *gin.Context) { c.String(http.StatusOK, "balances") }).
		POST("/transactions", func(c *gin.Context) { c.String(http.StatusOK, "appended") }).
		DELETE("/transactions/:id", func(c *gin.Context) { c.String(http.StatusOK, "removed") })

	r.Register(g).Setup()

	for _, tt := range []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/pettycash/balances"},
		{"POST", "/api/v1/pettycash/transactions"},
		{"DELETE", "/api/v1/pettycash/transactions/1"},
	} {
		w := serve(engine, tt.method, tt.path)
		assert.Equal(t, http.StatusOK, w.Code, "%s %s should be routed", tt.method, tt.path)
	}
}
