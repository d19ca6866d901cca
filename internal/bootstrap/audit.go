package bootstrap

import "context"

// AuditLog is one entry of the audit trail: server lifecycle and every leave
// workflow action relayed from kafka.
type AuditLog struct {
	Action    string
	Message   string
	RequestID string
	ActorID   string
	Meta      map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
