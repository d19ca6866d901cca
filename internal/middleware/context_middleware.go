package middleware

import (
	"time"

	"markpedia-os/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger runs after authentication. It attaches a logger scoped to
// the request and the caller to the request context, and writes one access
// log line when the handler returns.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	base := logger.Named("http")

	return func(c *gin.Context) {
		start := time.Now()

		ctx := c.Request.Context()
		rid := contextutil.GetRequestID(ctx)
		if rid == "" {
			rid = c.GetString(contextutil.GetKey())
			ctx = contextutil.WithRequestID(ctx, rid)
		}
		uid := c.GetString("user_id_validated")
		if uid == "" {
			uid = c.GetString("user_id")
		}
		role := c.GetString(string(ContextRole))

		reqLogger := base.With(
			zap.String("request_id", rid),
			zap.String("user_id", uid),
			zap.String("employee_id", c.GetString(string(ContextEmployeeID))),
			zap.String("company_id", c.GetString(string(ContextCompanyID))),
			zap.String("role", role),
		)

		ctx = contextutil.WithUserID(ctx, uid)
		ctx = contextutil.WithRole(ctx, role)
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		reqLogger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
