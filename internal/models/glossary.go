package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type GlossaryTerm struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Lemma        string     `gorm:"type:text;not null;uniqueIndex:ux_glossary_terms_lemma_lang;index" json:"lemma"`
	LanguageCode string     `gorm:"size:10;not null;uniqueIndex:ux_glossary_terms_lemma_lang" json:"language_code"`
	CreatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	Language     Language   `gorm:"foreignKey:LanguageCode;references:Code" json:"-"`
}

type GlossaryTermMeaning struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SenseOrder   int            `gorm:"not null;default:1;uniqueIndex:ux_term_meanings_order" json:"sense_order"`
	Title        *string        `gorm:"type:text" json:"title,omitempty"`
	Definition   string         `gorm:"type:text;not null" json:"definition"`
	Examples     *string        `gorm:"type:text" json:"examples,omitempty"`
	Notes        *string        `gorm:"type:text" json:"notes,omitempty"`
	PartOfSpeech *string        `gorm:"type:text" json:"part_of_speech,omitempty"`
	Synonyms     datatypes.JSON `json:"synonyms,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    *time.Time     `json:"updated_at,omitempty"`
	TermID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:ux_term_meanings_order;index" json:"term_id"`
	Term         GlossaryTerm   `gorm:"foreignKey:TermID;constraint:OnDelete:CASCADE" json:"-"`
}

// GlossaryTermLyricLine anchors a glossary term to a character span of a
// lyric line.
type GlossaryTermLyricLine struct {
	ID          uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	StartChar   *int                 `gorm:"uniqueIndex:ux_term_line_span" json:"start_char,omitempty"`
	EndChar     *int                 `gorm:"uniqueIndex:ux_term_line_span" json:"end_char,omitempty"`
	CreatedAt   time.Time            `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	LyricLineID uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:ux_term_line_span;index" json:"lyric_line_id"`
	MeaningID   *uuid.UUID           `gorm:"type:uuid;index" json:"meaning_id,omitempty"`
	TermID      uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:ux_term_line_span;index" json:"term_id"`
	LyricLine   LyricLine            `gorm:"foreignKey:LyricLineID;constraint:OnDelete:CASCADE" json:"-"`
	Meaning     *GlossaryTermMeaning `gorm:"foreignKey:MeaningID;constraint:OnDelete:SET NULL" json:"-"`
	Term        GlossaryTerm         `gorm:"foreignKey:TermID;constraint:OnDelete:CASCADE" json:"-"`
}
