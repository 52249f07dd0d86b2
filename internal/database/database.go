package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/izlanproject/izlan-backend/internal/config"
	"github.com/izlanproject/izlan-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return nil
}

// Migrate runs AutoMigrate for all models, parents before children so
// foreign key constraints resolve.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.RefreshToken{},
		&models.Language{},
		&models.Artist{},
		&models.Album{},
		&models.Song{},
		&models.AlbumTrack{},
		&models.SongArtist{},
		&models.SongSource{},
		&models.LyricLine{},
		&models.LyricSection{},
		&models.Translation{},
		&models.TranslationLine{},
		&models.Annotation{},
		&models.AnnotationComment{},
		&models.AnnotationVote{},
		&models.GlossaryTerm{},
		&models.GlossaryTermMeaning{},
		&models.GlossaryTermLyricLine{},
		&models.Notification{},
		&models.Report{},
		&models.FavoriteSong{},
		&models.ModerationRequest{},
		&models.ModerationChange{},
		&models.SystemLog{},
	)
}

// SeedRoles inserts the default roles when missing. Role names are what
// the role resolver classifies, so they must exist before any signup.
func SeedRoles(db *gorm.DB) error {
	for _, name := range []string{"member", "moderator", "admin"} {
		var existing models.Role
		err := db.Where("name = ?", name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&models.Role{ID: uuid.New(), Name: name}).Error; err != nil {
			return fmt.Errorf("failed to seed role %q: %w", name, err)
		}
	}
	return nil
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
