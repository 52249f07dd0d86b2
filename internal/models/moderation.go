package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Moderation request lifecycle states.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
	RequestApplied  = "applied"
)

// Moderation change operations.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// ModerationRequest is one batch of proposed changes with a single
// reviewer decision. Created pending when a community edit is staged,
// or created directly in applied state as the audit record of a
// privileged write.
type ModerationRequest struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	Status       string             `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CreatedBy    uuid.UUID          `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt    time.Time          `gorm:"not null" json:"created_at"`
	ReviewedAt   *time.Time         `json:"reviewed_at,omitempty"`
	ReviewedBy   *uuid.UUID         `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	DecisionNote *string            `gorm:"type:text" json:"decision_note,omitempty"`
	AppliedAt    *time.Time         `json:"applied_at,omitempty"`
	Changes      []ModerationChange `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"changes"`
}

// ModerationChange is one staged or audited mutation against one row of
// an allow-listed domain table. Write-once: never updated after creation.
type ModerationChange struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"request_id"`
	TargetTable string            `gorm:"size:64;not null;index" json:"target_table"`
	Operation   string            `gorm:"size:16;not null" json:"operation"`
	Sequence    int               `gorm:"not null;default:0" json:"sequence"`
	TargetKey   datatypes.JSONMap `json:"target_key,omitempty"`
	DataNew     datatypes.JSONMap `json:"data_new,omitempty"`
	DataOld     datatypes.JSONMap `json:"data_old,omitempty"`
	CreatedAt   time.Time         `gorm:"not null" json:"created_at"`
}
