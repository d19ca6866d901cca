package middleware

import (
	"markpedia-os/internal/domain"
	"markpedia-os/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

type ContextKey string

const (
	ContextEmployeeID ContextKey = "employee_id"
	ContextCompanyID  ContextKey = "company_id"
	ContextRole       ContextKey = "role"
)

// RBACService is satisfied by anything that can answer a domain.EnforceRequest.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

// RBACAuthorize lets the request through only when the caller's role holds
// resource:action.
func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		employeeID := c.GetString(string(ContextEmployeeID))
		companyID := c.GetString(string(ContextCompanyID))
		if employeeID == "" || companyID == "" {
			abortWithError(c, apperror.ErrUnauthorized, "missing auth context")
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			EmployeeID: employeeID,
			CompanyID:  companyID,
			Role:       c.GetString(string(ContextRole)),
			Resource:   resource,
			Action:     action,
		})
		if err != nil {
			abortWithError(c, apperror.ErrInternal, nil)
			return
		}
		if !allowed {
			abortWithError(c, apperror.ErrForbidden, gin.H{"required": resource + ":" + action})
			return
		}
		c.Next()
	}
}
