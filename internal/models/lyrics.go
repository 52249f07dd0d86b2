package models

import (
	"time"

	"github.com/google/uuid"
)

type LyricLine struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LineIndex int       `gorm:"not null;uniqueIndex:ux_lyric_lines_song_index" json:"line_index"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	TStartMs  *int      `json:"t_start_ms,omitempty"`
	TEndMs    *int      `json:"t_end_ms,omitempty"`
	SongID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_lyric_lines_song_index;index" json:"song_id"`
	Song      Song      `gorm:"foreignKey:SongID;constraint:OnDelete:CASCADE" json:"-"`
}

// LyricSection groups a contiguous range of lyric lines (verse, chorus...).
type LyricSection struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SongID       uuid.UUID `gorm:"type:uuid;not null;index" json:"song_id"`
	Type         string    `gorm:"type:text;not null" json:"type"`
	SectionIndex int       `gorm:"not null;default:1" json:"section_index"`
	StartLine    int       `gorm:"not null" json:"start_line"`
	EndLine      int       `gorm:"not null" json:"end_line"`
	Title        *string   `gorm:"type:text" json:"title,omitempty"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	Song         Song      `gorm:"foreignKey:SongID;constraint:OnDelete:CASCADE" json:"-"`
}

type Translation struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TitleTrans   *string    `gorm:"type:text" json:"title_trans,omitempty"`
	Notes        *string    `gorm:"type:text" json:"notes,omitempty"`
	IsMachine    bool       `gorm:"not null;default:false" json:"is_machine"`
	CreatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	LanguageCode string     `gorm:"size:10;not null;index" json:"language_code"`
	Language     Language   `gorm:"foreignKey:LanguageCode;references:Code" json:"-"`
	CreatedBy    *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	SongID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"song_id"`
	Song         Song       `gorm:"foreignKey:SongID;constraint:OnDelete:CASCADE" json:"-"`
}

type TranslationLine struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	LineIndex     int         `gorm:"not null" json:"line_index"`
	Text          string      `gorm:"type:text;not null" json:"text"`
	TranslationID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:ux_translation_lines_pair" json:"translation_id"`
	LyricLineID   *uuid.UUID  `gorm:"type:uuid;uniqueIndex:ux_translation_lines_pair;index" json:"lyric_line_id,omitempty"`
	Translation   Translation `gorm:"foreignKey:TranslationID;constraint:OnDelete:CASCADE" json:"-"`
	LyricLine     *LyricLine  `gorm:"foreignKey:LyricLineID;constraint:OnDelete:CASCADE" json:"-"`
}
