package leavereport

import (
	"markpedia-os/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	stats := r.Group("/leave-requests/stats")
	stats.Use(middleware.RBACAuthorize(rbacService, "report", "read"))
	{
		stats.GET("/overview", handler.Overview)
		stats.GET("/department/summary", handler.DepartmentSummary)
		stats.GET("/monthly/:month", handler.Monthly)
		stats.GET("/monthly/:month/export", handler.ExportMonthly)
		stats.GET("/calendar/:month", handler.Calendar)
	}
}
