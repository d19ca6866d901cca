package leavebalance

import (
	"markpedia-os/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	balance := r.Group("/leave-requests/employee/:employee_id/balance")
	{
		balance.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.Get)
		balance.PUT("", middleware.RBACAuthorize(rbacService, "balance", "write"), handler.Upsert)
		balance.GET("/history", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.History)
	}
}
