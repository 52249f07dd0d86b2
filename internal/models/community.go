package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Notification struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Type      string         `gorm:"type:text;not null" json:"type"`
	Payload   datatypes.JSON `gorm:"not null" json:"payload"`
	IsRead    bool           `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

type Report struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TargetType string     `gorm:"type:text;not null;index:idx_reports_target" json:"target_type"`
	TargetID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_reports_target" json:"target_id"`
	Reason     string     `gorm:"type:text;not null" json:"reason"`
	CreatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	Resolution *string    `gorm:"type:text" json:"resolution,omitempty"`
	ResolvedBy *uuid.UUID `gorm:"type:uuid" json:"resolved_by,omitempty"`
	ReporterID *uuid.UUID `gorm:"type:uuid" json:"reporter_id,omitempty"`
}

type FavoriteSong struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	SongID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"song_id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Song      Song      `gorm:"foreignKey:SongID;constraint:OnDelete:CASCADE" json:"-"`
}
