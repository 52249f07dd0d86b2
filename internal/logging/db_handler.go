package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/izlanproject/izlan-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	flushInterval = 10 * time.Second
	flushBatch    = 32
	retention     = 30 * 24 * time.Hour
)

// DBHandler is an slog.Handler that persists ERROR+ records into the
// system_logs table in periodic batches. Records below ERROR are ignored.
type DBHandler struct {
	db   *gorm.DB
	mu   sync.Mutex
	pend []models.SystemLog
	stop chan struct{}
	wg   sync.WaitGroup
}

func NewDBHandler(db *gorm.DB) *DBHandler {
	h := &DBHandler{
		db:   db,
		pend: make([]models.SystemLog, 0, flushBatch),
		stop: make(chan struct{}),
	}
	h.wg.Add(1)
	go h.run()
	return h
}

func (h *DBHandler) run() {
	defer h.wg.Done()
	flush := time.NewTicker(flushInterval)
	defer flush.Stop()
	sweep := time.NewTicker(24 * time.Hour)
	defer sweep.Stop()
	for {
		select {
		case <-flush.C:
			h.flush()
		case <-sweep.C:
			cutoff := time.Now().Add(-retention)
			res := h.db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
			if res.Error != nil {
				slog.Warn("system log sweep failed", "error", res.Error)
			}
		case <-h.stop:
			h.flush()
			return
		}
	}
}

func (h *DBHandler) flush() {
	h.mu.Lock()
	batch := h.pend
	h.pend = make([]models.SystemLog, 0, flushBatch)
	h.mu.Unlock()
	if len(batch) == 0 {
		return
	}
	if err := h.db.CreateInBatches(batch, flushBatch).Error; err != nil {
		slog.Warn("failed to persist system logs", "error", err, "count", len(batch))
	}
}

// Close flushes pending records and stops the background loop.
func (h *DBHandler) Close() {
	close(h.stop)
	h.wg.Wait()
}

func (h *DBHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *DBHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	record.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "request_id":
			entry.RequestID = a.Value.String()
		case "user_id":
			s := a.Value.String()
			entry.UserID = &s
		case "error":
			entry.Error = a.Value.String()
		default:
			extra[a.Key] = a.Value.Any()
		}
		return true
	})
	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	h.mu.Lock()
	h.pend = append(h.pend, entry)
	full := len(h.pend) >= flushBatch
	h.mu.Unlock()
	if full {
		go h.flush()
	}
	return nil
}

func (h *DBHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *DBHandler) WithGroup(string) slog.Handler { return h }
