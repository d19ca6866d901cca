package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"markpedia-os/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	cfg := config.Config{
		JWTSecret:      "test-secret",
		RateLimitRPS:   100,
		RateLimitBurst: 100,
		Leave:          config.LeaveConfig{CEOThresholdDays: 10},
	}

	router := gin.New()
	require.NoError(t, registerModules(router, cfg, db, gormDB, nil, zap.NewNop()))
	return router
}

func TestRegisterModules_Routes(t *testing.T) {
	router := newTestRouter(t)

	registered := map[string]bool{}
	for _, r := range router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /healthz",
		"POST /api/v1/leave-requests",
		"GET /api/v1/leave-requests",
		"GET /api/v1/leave-requests/:id",
		"PUT /api/v1/leave-requests/:id",
		"DELETE /api/v1/leave-requests/:id",
		"POST /api/v1/leave-requests/:id/manager-approve",
		"POST /api/v1/leave-requests/:id/hr-approve",
		"POST /api/v1/leave-requests/:id/ceo-approve",
		"POST /api/v1/leave-requests/:id/reject",
		"POST /api/v1/leave-requests/:id/cancel",
		"POST /api/v1/leave-requests/:id/complete",
		"GET /api/v1/leave-requests/employee/:employee_id/balance",
		"PUT /api/v1/leave-requests/employee/:employee_id/balance",
		"GET /api/v1/leave-requests/employee/:employee_id/balance/history",
		"GET /api/v1/leave-requests/employee/:employee_id/overlapping",
		"GET /api/v1/leave-requests/stats/overview",
		"GET /api/v1/leave-requests/stats/department/summary",
		"GET /api/v1/leave-requests/stats/monthly/:month",
		"GET /api/v1/leave-requests/stats/monthly/:month/export",
		"GET /api/v1/leave-requests/stats/calendar/:month",
		"POST /api/v1/rbac/enforce",
		"GET /api/v1/rbac/permissions",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestRegisterModules_Requests(t *testing.T) {
	router := newTestRouter(t)

	t.Run("health check is public", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("api requires a token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/leave-requests/stats/overview", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("employees may not read reports", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id":     "u-1",
			"employee_id": "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d",
			"company_id":  "7f1d3c1e-4b7a-4f59-9d55-3a1c2b9e8f10",
			"role":        "employee",
			"exp":         time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/leave-requests/stats/overview", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
