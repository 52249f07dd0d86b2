package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/izlanproject/izlan-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func songInsert(id uuid.UUID, title string) ChangeInput {
	return ChangeInput{
		TableName: "songs",
		Operation: models.OpInsert,
		TargetKey: map[string]interface{}{"id": id.String()},
		DataNew: map[string]interface{}{
			"id":            id.String(),
			"title":         title,
			"language_code": "kab",
		},
	}
}

func songUpdate(id uuid.UUID, title string) ChangeInput {
	return ChangeInput{
		TableName: "songs",
		Operation: models.OpUpdate,
		TargetKey: map[string]interface{}{"id": id.String()},
		DataNew:   map[string]interface{}{"title": title},
	}
}

func songTitle(t *testing.T, db *gorm.DB, id uuid.UUID) (string, bool) {
	t.Helper()
	row := map[string]interface{}{}
	err := db.Table("songs").Where("id = ?", id.String()).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false
	}
	require.NoError(t, err)
	title, _ := row["title"].(string)
	return title, true
}

func strPtr(s string) *string { return &s }

func TestSubmitChangesStagesPendingRequest(t *testing.T) {
	db := newTestDB(t)
	seedLanguage(t, db)
	svc := NewModerationService(db)
	author := createUser(t, db, "author", "member")

	songID := uuid.New()
	req, err := svc.SubmitChanges(author, []ChangeInput{songInsert(songID, "Ayafu")})
	require.NoError(t, err)

	assert.Equal(t, models.RequestPending, req.Status)
	assert.Equal(t, author, req.CreatedBy)
	assert.Nil(t, req.ReviewedAt)
	assert.Nil(t, req.AppliedAt)
	require.Len(t, req.Changes, 1)
	assert.Equal(t, "songs", req.Changes[0].TargetTable)
	assert.Equal(t, models.OpInsert, req.Changes[0].Operation)
	assert.Equal(t, 0, req.Changes[0].Sequence)
	assert.Equal(t, songID.String(), req.Changes[0].TargetKey["id"])

	// Staging must not touch the live table.
	_, exists := songTitle(t, db, songID)
	assert.False(t, exists)
}

func TestSubmitChangesValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewModerationService(db)
	author := createUser(t, db, "author", "member")

	_, err := svc.SubmitChanges(uuid.Nil, []ChangeInput{songInsert(uuid.New(), "x")})
	assert.ErrorIs(t, err, ErrMissingUser)

	_, err = svc.SubmitChanges(author, nil)
	assert.ErrorIs(t, err, ErrMissingChanges)
}

func TestSubmitChangesRejectsDisallowedTable(t *testing.T) {
	db := newTestDB(t)
	seedLanguage(t, db)
	svc := NewModerationService(db)
	author := createUser(t, db, "author", "member")

	_, err := svc.SubmitChanges(author, []ChangeInput{
		songInsert(uuid.New(), "legit"),
		{TableName: "moderation_requests", Operation: models.OpDelete,
			TargetKey: map[string]interface{}{"id": uuid.NewString()}},
	})
	require.ErrorIs(t, err, ErrTableNotAllowed)

	// One bad change poisons the whole batch: nothing is staged.
	assert.Zero(t, countRows(t, db, "moderation_requests"))
	assert.Zero(t, countRows(t, db, "moderation_changes"))
}

func TestApproveAppliesChanges(t *testing.T) {
	db := newTestDB(t)
	seedLanguage(t, db)
	svc := NewModerationService(db)
	author := createUser(t, db, "author", "member")
	reviewer := createUser(t, db, "reviewer", "moderator")

	songID := uuid.New()
	req, err := svc.SubmitChanges(author, []ChangeInput{songInsert(songID, "Tilelli")})
	require.NoError(t, err)

	out, err := svc.ApproveRequest(req.ID, reviewer, strPtr("looks good"))
	require.NoError(t, err)

	assert.Equal(t, models.RequestApplied, out.Status)
	require.NotNil(t, out.ReviewedBy)
	assert.Equal(t, reviewer, *out.ReviewedBy)
	require.NotNil(t, out.DecisionNote)
	assert.Equal(t, "looks good", *out.DecisionNote)
	assert.NotNil(t, out.ReviewedAt)
	assert.NotNil(t, out.AppliedAt)
	require.Len(t, out.Changes, 1)

	title, exists := songTitle(t, db, songID)
	require.True(t, exists)
	assert.Equal(t, "Tilelli", title)
}

func TestApproveTwiceConflicts(t *testing.T) {
	db := newTestDB(t)
	seedLanguage(t, db)
	svc := NewModerationService(db)
	author := createUser(t, db, "author", "member")
	reviewer := createUser(t, db, "reviewer", "moderator")

	req, err := svc.SubmitChanges(author, []ChangeInput{songInsert(uuid.New(), "once")})
	require.NoError(t, err)

	_, err = svc.ApproveRequest(req.ID, reviewer, nil)
	require.NoError(t, err)

	_, err = svc.ApproveRequest(req.ID, reviewer, nil)
	assert.ErrorIs(t, err, ErrRequestNotPending)

	assert.EqualValues(t, 1, countRows(t, db, "songs"))
}

func TestConcurrentApprovalAppliesOnce(t *testing.T) {
	db := newTestDB(t)
	seedLanguage(t, db)
	svc := NewModerationService(db)
	author := createUser(t, db, "author", "member")
	reviewer := createUser(t, db, "reviewer", "moderator")

	req, err := svc.SubmitChanges(author, []ChangeInput{songInsert(uuid.New(), "race")})
	require.NoError(t, err)

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.ApproveRequest(req.ID, reviewer, nil)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrRequestNotPending)
		}
	}
	assert.Equal(t, 1, successes)
	assert.EqualValues(t, 1, countRows(t, db, "songs"))
}

func TestRejectLeavesDataUntouched(t *testing.T) {
	db := newTestDB(t)
	seedLanguage(t, db)
	svc := NewModerationService(db)
	author := createUser(t, db, "author", "member")
	reviewer := createUser(t, db, "reviewer", "moderator")

	songID := uuid.New()
	require.NoError(t, db.Table("songs").Create(map[string]interface{}{
		"id": songID.String(), "title": "original", "language_code": "kab",
	}).Error)

	req, err := svc.SubmitChanges(author, []ChangeInput{songUpdate(songID, "vandalism")})
	require.NoError(t, err)

	out, err := svc.RejectRequest(req.ID, reviewer, strPtr("no thanks"))
	require.NoError(t, err)

	assert.Equal(t, models.RequestRejected, out.Status)
	require.NotNil(t, out.ReviewedBy)
	assert.Equal(t, reviewer, *out.ReviewedBy)
	assert.Nil(t, out.AppliedAt)

	title, _ := songTitle(t, db, songID)
	assert.Equal(t, "original", title)

	// A closed request cannot be reopened through the other decision.
	_, err = svc.ApproveRequest(req.ID, reviewer, nil)
	assert.ErrorIs(t, err, ErrRequestNotPending)
}

func TestApproveReplaysInSequenceOrder(t *testing.T) {
	db := newTestDB(t)
	seedLanguage(t, db)
	svc := NewModerationService(db)
	author := createUser(t, db, "author", "member")
	reviewer := createUser(t, db, "reviewer", "moderator")

	// Insert then update in one request: the update must win.
	songID := uuid.New()
	req, err := svc.SubmitChanges(author, []ChangeInput{
		songInsert(songID, "draft"),
		songUpdate(songID, "final"),
	})
	require.NoError(t, err)

	_, err = svc.ApproveRequest(req.ID, reviewer, nil)
	require.NoError(t, err)
	title, _ := songTitle(t, db, songID)
	assert.Equal(t, "final", title)

	// Reversed submission order: the update runs first against a row
	// that does not exist yet, so the insert's title survives.
	otherID := uuid.New()
	req, err = svc.SubmitChanges(author, []ChangeInput{
		songUpdate(otherID, "final"),
		songInsert(otherID, "draft"),
	})
	require.NoError(t, err)

	_, err = svc.ApproveRequest(req.ID, reviewer, nil)
	require.NoError(t, err)
	title, _ = songTitle(t, db, otherID)
	assert.Equal(t, "draft", title)
}

func TestApproveRollsBackOnReplayFailure(t *testing.T) {
	db := newTestDB(t)
	seedLanguage(t, db)
	svc := NewModerationService(db)
	author := createUser(t, db, "author", "member")
	reviewer := createUser(t, db, "reviewer", "moderator")

	takenID := uuid.New()
	require.NoError(t, db.Table("songs").Create(map[string]interface{}{
		"id": takenID.String(), "title": "already here", "language_code": "kab",
	}).Error)

	// Second change collides with an existing primary key.
	freshID := uuid.New()
	req, err := svc.SubmitChanges(author, []ChangeInput{
		songInsert(freshID, "fine"),
		songInsert(takenID, "collision"),
	})
	require.NoError(t, err)

	_, err = svc.ApproveRequest(req.ID, reviewer, nil)
	require.Error(t, err)

	// Everything rolled back, including the change that would have
	// succeeded, and the request is pending again for manual review.
	_, exists := songTitle(t, db, freshID)
	assert.False(t, exists)

	reloaded, err := svc.GetRequest(req.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, models.RequestPending, reloaded.Status)
	assert.Nil(t, reloaded.ReviewedAt)
	assert.Nil(t, reloaded.AppliedAt)
}

func TestApproveUnknownRequest(t *testing.T) {
	db := newTestDB(t)
	svc := NewModerationService(db)
	reviewer := createUser(t, db, "reviewer", "moderator")

	_, err := svc.ApproveRequest(uuid.New(), reviewer, nil)
	assert.ErrorIs(t, err, ErrRequestNotFound)

	_, err = svc.RejectRequest(uuid.New(), reviewer, nil)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestLogAppliedChangesSharesCallerTransaction(t *testing.T) {
	db := newTestDB(t)
	seedLanguage(t, db)
	svc := NewModerationService(db)
	moderator := createUser(t, db, "mod", "moderator")

	songID := uuid.New()
	var logged *models.ModerationRequest
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("songs").Create(map[string]interface{}{
			"id": songID.String(), "title": "direct", "language_code": "kab",
		}).Error; err != nil {
			return err
		}
		var err error
		logged, err = svc.LogAppliedChanges(tx, moderator, []ChangeInput{songInsert(songID, "direct")})
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, models.RequestApplied, logged.Status)
	assert.Equal(t, moderator, logged.CreatedBy)
	require.NotNil(t, logged.ReviewedBy)
	assert.Equal(t, moderator, *logged.ReviewedBy)
	require.NotNil(t, logged.AppliedAt)
	assert.Equal(t, logged.CreatedAt, *logged.AppliedAt)
	require.Len(t, logged.Changes, 1)

	// Rolling back the caller's transaction must erase the audit record
	// together with the write it describes.
	boom := errors.New("boom")
	otherID := uuid.New()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("songs").Create(map[string]interface{}{
			"id": otherID.String(), "title": "gone", "language_code": "kab",
		}).Error; err != nil {
			return err
		}
		if _, err := svc.LogAppliedChanges(tx, moderator, []ChangeInput{songInsert(otherID, "gone")}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, exists := songTitle(t, db, otherID)
	assert.False(t, exists)
	assert.EqualValues(t, 1, countRows(t, db, "moderation_requests"))
}

func TestHistoryForTarget(t *testing.T) {
	db := newTestDB(t)
	seedLanguage(t, db)
	svc := NewModerationService(db)
	author := createUser(t, db, "author", "member")
	reviewer := createUser(t, db, "reviewer", "moderator")

	songA, songB := uuid.New(), uuid.New()

	first, err := svc.SubmitChanges(author, []ChangeInput{songInsert(songA, "A v1")})
	require.NoError(t, err)
	_, err = svc.ApproveRequest(first.ID, reviewer, nil)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	second, err := svc.SubmitChanges(author, []ChangeInput{songUpdate(songA, "A v2")})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = svc.SubmitChanges(author, []ChangeInput{songInsert(songB, "B v1")})
	require.NoError(t, err)

	history, err := svc.HistoryForTarget("songs", map[string]interface{}{"id": songA.String()})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)
	for _, req := range history {
		require.Len(t, req.Changes, 1)
		assert.Equal(t, songA.String(), req.Changes[0].TargetKey["id"])
	}

	// Unknown row and empty key both mean "no history", not an error.
	history, err = svc.HistoryForTarget("songs", map[string]interface{}{"id": uuid.NewString()})
	require.NoError(t, err)
	assert.Empty(t, history)

	history, err = svc.HistoryForTarget("songs", nil)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHistoryForCompositeKey(t *testing.T) {
	db := newTestDB(t)
	svc := NewModerationService(db)
	author := createUser(t, db, "author", "member")

	artistID, songID := uuid.NewString(), uuid.NewString()
	link := ChangeInput{
		TableName: "song_artists",
		Operation: models.OpInsert,
		TargetKey: map[string]interface{}{"artist_id": artistID, "song_id": songID},
		DataNew: map[string]interface{}{
			"artist_id": artistID, "song_id": songID, "role": "performer",
		},
	}
	req, err := svc.SubmitChanges(author, []ChangeInput{link})
	require.NoError(t, err)

	history, err := svc.HistoryForTarget("song_artists", map[string]interface{}{
		"artist_id": artistID, "song_id": songID,
	})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, req.ID, history[0].ID)

	// Same artist linked to a different song does not match.
	history, err = svc.HistoryForTarget("song_artists", map[string]interface{}{
		"artist_id": artistID, "song_id": uuid.NewString(),
	})
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestChangePayloadSurvivesRoundTrip(t *testing.T) {
	db := newTestDB(t)
	seedLanguage(t, db)
	svc := NewModerationService(db)
	author := createUser(t, db, "author", "member")

	songID := uuid.NewString()
	payload := map[string]interface{}{
		"id":            songID,
		"title":         "Aẓar n tmusni",
		"language_code": "kab",
		"release_year":  1984,
		"is_published":  false,
	}
	req, err := svc.SubmitChanges(author, []ChangeInput{{
		TableName: "songs",
		Operation: models.OpInsert,
		TargetKey: map[string]interface{}{"id": songID},
		DataNew:   payload,
	}})
	require.NoError(t, err)

	// Mutating the caller's map after staging must not leak into the
	// stored change.
	payload["title"] = "tampered"

	reloaded, err := svc.GetRequest(req.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	require.Len(t, reloaded.Changes, 1)

	stored := reloaded.Changes[0].DataNew
	assert.Equal(t, "Aẓar n tmusni", stored["title"])
	assert.Equal(t, songID, stored["id"])
	assert.Equal(t, float64(1984), stored["release_year"])
	assert.Equal(t, false, stored["is_published"])
}

func TestListAndGetRequests(t *testing.T) {
	db := newTestDB(t)
	seedLanguage(t, db)
	svc := NewModerationService(db)
	author := createUser(t, db, "author", "member")
	reviewer := createUser(t, db, "reviewer", "moderator")

	first, err := svc.SubmitChanges(author, []ChangeInput{songInsert(uuid.New(), "one")})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := svc.SubmitChanges(author, []ChangeInput{songInsert(uuid.New(), "two")})
	require.NoError(t, err)

	_, err = svc.RejectRequest(first.ID, reviewer, nil)
	require.NoError(t, err)

	pending, err := svc.ListRequests(models.RequestPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	all, err := svc.ListRequests("")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	got, err := svc.GetRequest(first.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.RequestRejected, got.Status)

	missing, err := svc.GetRequest(uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}
