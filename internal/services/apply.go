package services

import (
	"errors"
	"fmt"

	"github.com/izlanproject/izlan-backend/internal/models"
	"gorm.io/gorm"
)

// allowedTables is the closed set of community-editable tables. The
// moderation tables themselves are excluded so moderation data can never
// be moderated, and system_logs stays operator-only.
var allowedTables = map[string]struct{}{
	"roles":                     {},
	"users":                     {},
	"refresh_tokens":            {},
	"languages":                 {},
	"artists":                   {},
	"albums":                    {},
	"album_tracks":              {},
	"songs":                     {},
	"song_artists":              {},
	"song_sources":              {},
	"lyric_lines":               {},
	"lyric_sections":            {},
	"translations":              {},
	"translation_lines":         {},
	"annotations":               {},
	"annotation_comments":       {},
	"annotation_votes":          {},
	"glossary_terms":            {},
	"glossary_term_meanings":    {},
	"glossary_term_lyric_lines": {},
	"notifications":             {},
	"reports":                   {},
	"favorite_songs":            {},
}

func AllowedTable(name string) bool {
	_, ok := allowedTables[name]
	return ok
}

var (
	errInsertMissingData = errors.New("missing data for insert operation")
	errMissingTargetKey  = errors.New("missing target key for update/delete operation")
)

// payloadNormalizer canonicalizes a staged payload for one table before
// it is written. applyDefaults is true only for inserts.
type payloadNormalizer func(data map[string]interface{}, applyDefaults bool) map[string]interface{}

var payloadNormalizers = map[string]payloadNormalizer{
	"annotations": normalizeAnnotationPayload,
}

// normalizeAnnotationPayload maps client field aliases onto the
// annotations schema and drops anything it does not recognize.
func normalizeAnnotationPayload(data map[string]interface{}, applyDefaults bool) map[string]interface{} {
	if data == nil {
		return nil
	}

	out := map[string]interface{}{}
	copyKey := func(dst string, aliases ...string) {
		for _, src := range aliases {
			if v, ok := data[src]; ok {
				out[dst] = v
			}
		}
	}

	copyKey("id", "id")
	copyKey("song_id", "song_id")
	copyKey("created_by", "created_by")
	copyKey("body_md", "body_md", "text")
	copyKey("start_char", "start_char", "start_char_index")
	copyKey("end_char", "end_char", "end_char_index")
	copyKey("start_line", "start_line")
	copyKey("end_line", "end_line")

	if applyDefaults {
		if out["start_line"] == nil {
			out["start_line"] = 0
		}
		if out["end_line"] == nil {
			out["end_line"] = out["start_line"]
		}
	}

	return out
}

// applyChange replays one staged change inside the caller's transaction.
// The allow-list is re-checked here: a record staged before the list was
// narrowed must not slip through at replay time.
func applyChange(tx *gorm.DB, change *models.ModerationChange) error {
	if !AllowedTable(change.TargetTable) {
		return fmt.Errorf("%w: %s", ErrTableNotAllowed, change.TargetTable)
	}

	targetKey := map[string]interface{}(change.TargetKey)

	switch change.Operation {
	case models.OpInsert:
		if len(change.DataNew) == 0 {
			return errInsertMissingData
		}
		data := map[string]interface{}(change.DataNew)
		if normalize, ok := payloadNormalizers[change.TargetTable]; ok {
			data = normalize(data, true)
		}
		return tx.Table(change.TargetTable).Create(data).Error

	case models.OpUpdate:
		if len(targetKey) == 0 {
			return errMissingTargetKey
		}
		patch := map[string]interface{}{}
		if normalize, ok := payloadNormalizers[change.TargetTable]; ok {
			patch = normalize(change.DataNew, false)
		} else {
			for k, v := range change.DataNew {
				patch[k] = v
			}
		}
		// Key columns never change identity through an update.
		for k := range targetKey {
			delete(patch, k)
		}
		if len(patch) == 0 {
			// Audit-only record; nothing to write.
			return nil
		}
		return tx.Table(change.TargetTable).Where(targetKey).Updates(patch).Error

	case models.OpDelete:
		if len(targetKey) == 0 {
			return errMissingTargetKey
		}
		return tx.Table(change.TargetTable).Where(targetKey).Delete(nil).Error

	default:
		return fmt.Errorf("unsupported moderation operation: %q", change.Operation)
	}
}
