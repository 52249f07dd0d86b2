package models

import (
	"time"

	"github.com/google/uuid"
)

type Language struct {
	Code       string    `gorm:"size:10;primaryKey" json:"code"`
	Name       string    `gorm:"type:text;not null" json:"name"`
	NativeName *string   `gorm:"type:text" json:"native_name,omitempty"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

type Artist struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:text;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Origin      *string   `gorm:"type:text" json:"origin,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

type Album struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string     `gorm:"type:text;not null" json:"title"`
	ReleaseYear     *int       `json:"release_year,omitempty"`
	Label           *string    `gorm:"type:text" json:"label,omitempty"`
	CoverURL        *string    `gorm:"type:text" json:"cover_url,omitempty"`
	CreatedAt       time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	PrimaryArtistID *uuid.UUID `gorm:"type:uuid" json:"primary_artist_id,omitempty"`
	PrimaryArtist   *Artist    `gorm:"foreignKey:PrimaryArtistID" json:"-"`
}

type Song struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string     `gorm:"type:text;not null" json:"title"`
	ReleaseYear  *int       `json:"release_year,omitempty"`
	IsPublished  bool       `gorm:"not null;default:false" json:"is_published"`
	CreatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	Description  *string    `gorm:"type:text" json:"description,omitempty"`
	LanguageCode string     `gorm:"size:10;not null" json:"language_code"`
	Language     Language   `gorm:"foreignKey:LanguageCode;references:Code" json:"-"`
	CreatedBy    *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
}

type AlbumTrack struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DiscNumber  int       `gorm:"not null;default:1;uniqueIndex:ux_album_tracks_position" json:"disc_number"`
	TrackNumber int       `gorm:"not null;uniqueIndex:ux_album_tracks_position" json:"track_number"`
	IsBonus     bool      `gorm:"not null;default:false" json:"is_bonus"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	SongID      uuid.UUID `gorm:"type:uuid;not null;index" json:"song_id"`
	AlbumID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_album_tracks_position" json:"album_id"`
	Song        Song      `gorm:"foreignKey:SongID;constraint:OnDelete:CASCADE" json:"-"`
	Album       Album     `gorm:"foreignKey:AlbumID;constraint:OnDelete:CASCADE" json:"-"`
}

// SongArtist links songs and artists with a composite primary key.
type SongArtist struct {
	ArtistID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"artist_id"`
	SongID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"song_id"`
	Role      string    `gorm:"size:50;not null" json:"role"`
	IsPrimary bool      `gorm:"not null;default:false" json:"is_primary"`
	Artist    Artist    `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE" json:"-"`
	Song      Song      `gorm:"foreignKey:SongID;constraint:OnDelete:CASCADE" json:"-"`
}

type SongSource struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Kind   string    `gorm:"type:text;not null" json:"kind"`
	URL    string    `gorm:"type:text;not null" json:"url"`
	Note   *string   `gorm:"type:text" json:"note,omitempty"`
	SongID uuid.UUID `gorm:"type:uuid;not null;index" json:"song_id"`
	Song   Song      `gorm:"foreignKey:SongID;constraint:OnDelete:CASCADE" json:"-"`
}
