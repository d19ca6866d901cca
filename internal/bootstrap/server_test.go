package bootstrap_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"markpedia-os/internal/bootstrap"
	"markpedia-os/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHandler_CORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	h := bootstrap.Handler(r, bootstrap.ServerConfig{
		ServiceName:    "leave-test",
		AllowedOrigins: []string{"https://hr.markpedia.test"},
	})

	t.Run("preflight from an allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/healthz", nil)
		req.Header.Set("Origin", "https://hr.markpedia.test")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, "https://hr.markpedia.test", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("other origins get no grant", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("Origin", "https://evil.test")
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestStdoutAuditLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	audit := bootstrap.NewStdoutAuditLogger(zap.New(core))
	ctx := contextutil.WithRequestID(context.Background(), "rid-ctx")

	audit.Log(ctx, bootstrap.AuditLog{Action: "LEAVE_CANCEL", ActorID: "emp-1"})
	audit.Log(ctx, bootstrap.AuditLog{Action: "LEAVE_SUBMIT", RequestID: "rid-event"})

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "audit", entries[0].LoggerName)
		assert.Equal(t, "rid-ctx", entries[0].ContextMap()["request_id"])
		assert.Equal(t, "LEAVE_CANCEL", entries[0].ContextMap()["action"])
		assert.Equal(t, "rid-event", entries[1].ContextMap()["request_id"])
	}
}

func TestSetupTelemetry_DisabledWithoutEndpoint(t *testing.T) {
	shutdown := bootstrap.SetupTelemetry(context.Background(), bootstrap.TelemetryConfig{ServiceName: "leave-test"}, zap.NewNop())
	assert.NoError(t, shutdown(context.Background()))
}
