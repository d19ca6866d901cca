package leave

import (
	"markpedia-os/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	leaves := r.Group("/leave-requests")
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.List)
		leaves.POST("", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Create)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetByID)
		leaves.PUT("/:id", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Update)
		leaves.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave", "delete"), handler.Delete)

		leaves.POST("/:id/manager-approve", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.ManagerApprove)
		leaves.POST("/:id/hr-approve", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.HRApprove)
		leaves.POST("/:id/ceo-approve", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.CEOApprove)
		leaves.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Reject)
		leaves.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Cancel)
		leaves.POST("/:id/complete", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Complete)

		leaves.GET("/employee/:employee_id/overlapping", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.Overlapping)
	}
}
