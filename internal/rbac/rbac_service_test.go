package rbac_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"markpedia-os/internal/domain"
	"markpedia-os/internal/rbac"
	"markpedia-os/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultService(t *testing.T) rbac.Service {
	t.Helper()
	enforcer, err := infra.NewEnforcer("")
	require.NoError(t, err)
	return rbac.NewService(enforcer)
}

func TestRBACService_Enforce(t *testing.T) {
	service := newDefaultService(t)

	tests := []struct {
		role     string
		resource string
		action   string
		want     bool
	}{
		{rbac.RoleEmployee, "leave", "create", true},
		{rbac.RoleEmployee, "leave", "read", true},
		{rbac.RoleEmployee, "leave", "approve", false},
		{rbac.RoleEmployee, "report", "read", false},
		{rbac.RoleManager, "leave", "approve", true},
		{rbac.RoleManager, "leave", "create", true},
		{rbac.RoleManager, "balance", "write", false},
		{rbac.RoleHR, "balance", "write", true},
		{rbac.RoleHR, "leave", "delete", false},
		{rbac.RoleCEO, "report", "read", true},
		{rbac.RoleAdmin, "leave", "delete", true},
		{rbac.RoleAdmin, "leave", "approve", false},
		{"hr", "leave", "approve", true},
		{"", "leave", "read", true},
		{"INTERN", "leave", "read", false},
	}

	for _, tt := range tests {
		t.Run(tt.role+" "+tt.resource+":"+tt.action, func(t *testing.T) {
			allowed, err := service.Enforce(domain.EnforceRequest{
				EmployeeID: "emp-1",
				CompanyID:  "company-1",
				Role:       tt.role,
				Resource:   tt.resource,
				Action:     tt.action,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.want, allowed)
		})
	}
}

func TestRBACService_Permissions(t *testing.T) {
	service := newDefaultService(t)

	perms, err := service.Permissions("manager")

	require.NoError(t, err)
	keys := make([]string, len(perms))
	for i, p := range perms {
		keys[i] = p.Resource + ":" + p.Action
		assert.NotEmpty(t, p.Label)
	}
	assert.Equal(t, []string{"leave:approve", "leave:create", "leave:read", "report:read"}, keys)
}

func TestNewEnforcer_PolicyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.csv")
	policy := "p, EMPLOYEE, leave, read\n" +
		"p, AUDITOR, report, read\n" +
		"g, AUDITOR, EMPLOYEE\n"
	require.NoError(t, os.WriteFile(path, []byte(policy), 0o600))

	enforcer, err := infra.NewEnforcer(path)
	require.NoError(t, err)
	service := rbac.NewService(enforcer)

	allowed, err := service.Enforce(domain.EnforceRequest{Role: "AUDITOR", Resource: "leave", Action: "read"})
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = service.Enforce(domain.EnforceRequest{Role: "EMPLOYEE", Resource: "leave", Action: "create"})
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestHandler_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := rbac.NewHandler(newDefaultService(t))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("employee_id", "emp-1")
		c.Set("company_id", "company-1")
		c.Set("role", "HR")
		c.Next()
	})
	rbac.RegisterRoutes(router.Group("/api/v1"), handler)

	body, _ := json.Marshal(map[string]string{"resource": "balance", "action": "write", "role": "EMPLOYEE"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rbac/enforce", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Ok   bool                   `json:"ok"`
		Data domain.EnforceResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Ok)
	assert.True(t, env.Data.Allowed, "role in the body must be ignored")
}

func TestHandler_Permissions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := rbac.NewHandler(newDefaultService(t))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("role", "employee")
		c.Next()
	})
	rbac.RegisterRoutes(router.Group("/api/v1"), handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rbac/permissions", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Data domain.RolePermissionsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, rbac.RoleEmployee, env.Data.Role)
	assert.Len(t, env.Data.Permissions, 2)
}
