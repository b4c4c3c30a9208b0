package leavetype

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaveType struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_type_code,priority:1"`
	Name          string    `gorm:"type:varchar(100);not null"`
	Code          string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_leave_type_code,priority:2"`
	TracksBalance bool      `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}
