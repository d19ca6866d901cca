package app

import (
	"markpedia-os/internal/leave"
	"markpedia-os/internal/leavebalance"

	"gorm.io/gorm"
)

const outboxDDL = `
CREATE TABLE IF NOT EXISTS outbox_events (
	id UUID PRIMARY KEY,
	request_id TEXT,
	aggregate_type VARCHAR(50) NOT NULL,
	aggregate_id UUID NOT NULL,
	event_type VARCHAR(100) NOT NULL,
	topic VARCHAR(200) NOT NULL,
	payload JSONB NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	retry_count INT NOT NULL DEFAULT 0,
	error_message TEXT,
	next_retry_at TIMESTAMPTZ,
	processed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_outbox_events_due ON outbox_events (status, next_retry_at, created_at);
`

// migrate creates the tables this service owns. Employees and departments
// belong to the HR directory and are only referenced by id.
func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&leave.LeaveRequest{},
		&leavebalance.LeaveBalance{},
		&leavebalance.LeaveBalanceEntry{},
	); err != nil {
		return err
	}
	return db.Exec(outboxDDL).Error
}
