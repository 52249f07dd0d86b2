package models

import (
	"time"

	"github.com/google/uuid"
)

type Annotation struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StartLine int        `gorm:"not null" json:"start_line"`
	EndLine   int        `gorm:"not null" json:"end_line"`
	StartChar *int       `json:"start_char,omitempty"`
	EndChar   *int       `json:"end_char,omitempty"`
	BodyMd    string     `gorm:"type:text;not null" json:"body_md"`
	Status    string     `gorm:"size:20;not null;default:'pending'" json:"status"`
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index" json:"created_by,omitempty"`
	SongID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"song_id"`
	Song      Song       `gorm:"foreignKey:SongID;constraint:OnDelete:CASCADE" json:"-"`
}

type AnnotationComment struct {
	ID              uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	AnnotationID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"annotation_id"`
	UserID          uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	ParentCommentID *uuid.UUID         `gorm:"type:uuid;index" json:"parent_comment_id,omitempty"`
	Body            string             `gorm:"type:text;not null" json:"body"`
	CreatedAt       time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       *time.Time         `json:"updated_at,omitempty"`
	Annotation      Annotation         `gorm:"foreignKey:AnnotationID;constraint:OnDelete:CASCADE" json:"-"`
	User            User               `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ParentComment   *AnnotationComment `gorm:"foreignKey:ParentCommentID;constraint:OnDelete:CASCADE" json:"-"`
}

// AnnotationVote is one user's up/down vote on an annotation.
type AnnotationVote struct {
	AnnotationID uuid.UUID  `gorm:"type:uuid;primaryKey" json:"annotation_id"`
	UserID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	Value        int        `gorm:"not null" json:"value"`
	CreatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	Annotation   Annotation `gorm:"foreignKey:AnnotationID;constraint:OnDelete:CASCADE" json:"-"`
	User         User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
