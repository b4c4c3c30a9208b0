package app

import (
	"adaptix-hrms/internal/allocation"
	"adaptix-hrms/internal/employee"
	"adaptix-hrms/internal/leave"
	"adaptix-hrms/internal/leavepolicy"
	"adaptix-hrms/internal/leavetype"

	"gorm.io/gorm"
)

// Tables that are written with raw SQL keep their DDL here.
var rawSchema = []string{
	`CREATE TABLE IF NOT EXISTS outbox_events (
		id UUID PRIMARY KEY,
		request_id VARCHAR(64),
		aggregate_type VARCHAR(64) NOT NULL,
		aggregate_id UUID NOT NULL,
		event_type VARCHAR(64) NOT NULL,
		topic VARCHAR(128) NOT NULL,
		payload JSONB NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'pending',
		retry_count INT NOT NULL DEFAULT 0,
		next_retry_at TIMESTAMPTZ,
		error_message VARCHAR(500),
		processed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_events_status_created ON outbox_events (status, created_at)`,
	`CREATE TABLE IF NOT EXISTS company_counters (
		company_id UUID NOT NULL,
		counter_type VARCHAR(50) NOT NULL,
		last_value BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (company_id, counter_type)
	)`,
	`CREATE TABLE IF NOT EXISTS roles (
		id UUID PRIMARY KEY,
		company_id UUID NOT NULL,
		name VARCHAR(100) NOT NULL,
		UNIQUE (company_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS permissions (
		id UUID PRIMARY KEY,
		resource VARCHAR(64) NOT NULL,
		action VARCHAR(32) NOT NULL,
		UNIQUE (resource, action)
	)`,
	`CREATE TABLE IF NOT EXISTS role_permissions (
		role_id UUID NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
		permission_id UUID NOT NULL REFERENCES permissions(id) ON DELETE CASCADE,
		PRIMARY KEY (role_id, permission_id)
	)`,
	`CREATE TABLE IF NOT EXISTS employee_roles (
		employee_id UUID NOT NULL,
		role_id UUID NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
		PRIMARY KEY (employee_id, role_id)
	)`,
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&employee.Employee{},
		&leavetype.LeaveType{},
		&leavepolicy.LeavePolicy{},
		&allocation.LeaveAllocation{},
		&leave.Leave{},
	); err != nil {
		return err
	}

	for _, stmt := range rawSchema {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
