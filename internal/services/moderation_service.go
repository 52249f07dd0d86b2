package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/izlanproject/izlan-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrMissingUser       = errors.New("missing user for moderation request")
	ErrMissingChanges    = errors.New("missing changes for moderation request")
	ErrTableNotAllowed   = errors.New("target table not allowed for moderation")
	ErrRequestNotFound   = errors.New("moderation request not found")
	ErrRequestNotPending = errors.New("moderation request is not pending")
)

// ChangeInput is one proposed mutation as handed over by the write
// gateway. Payloads are deep-copied through a JSON round-trip before
// storage, so callers keep no live reference into staged data.
type ChangeInput struct {
	TableName string                 `json:"table_name"`
	Operation string                 `json:"operation"`
	TargetKey map[string]interface{} `json:"target_key,omitempty"`
	DataNew   map[string]interface{} `json:"data_new,omitempty"`
	DataOld   map[string]interface{} `json:"data_old,omitempty"`
}

// ModerationService stages community edits as pending change requests,
// records privileged writes for audit parity, and replays approved
// requests against the live tables.
//
// A replay that violates a database constraint (for example a staged
// insert whose parent row was deleted after staging) rolls the whole
// approval back and leaves the request pending for manual review.
type ModerationService struct {
	db *gorm.DB
}

func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{db: db}
}

func (s *ModerationService) validate(userID uuid.UUID, changes []ChangeInput) error {
	if userID == uuid.Nil {
		return ErrMissingUser
	}
	if len(changes) == 0 {
		return ErrMissingChanges
	}
	for _, c := range changes {
		if !AllowedTable(c.TableName) {
			return fmt.Errorf("%w: %s", ErrTableNotAllowed, c.TableName)
		}
	}
	return nil
}

// SubmitChanges stages a batch of changes as one pending request.
// All-or-nothing: any insert failure aborts the whole staging.
func (s *ModerationService) SubmitChanges(userID uuid.UUID, changes []ChangeInput) (*models.ModerationRequest, error) {
	if err := s.validate(userID, changes); err != nil {
		return nil, err
	}

	var request *models.ModerationRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		req := &models.ModerationRequest{
			ID:        uuid.New(),
			Status:    models.RequestPending,
			CreatedBy: userID,
			CreatedAt: now,
		}
		if err := tx.Create(req).Error; err != nil {
			return fmt.Errorf("failed to create moderation request: %w", err)
		}
		records, err := insertChangeRecords(tx, req.ID, changes, now)
		if err != nil {
			return err
		}
		req.Changes = records
		request = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// SubmitChange stages a single change.
func (s *ModerationService) SubmitChange(userID uuid.UUID, change ChangeInput) (*models.ModerationRequest, error) {
	return s.SubmitChanges(userID, []ChangeInput{change})
}

// LogAppliedChanges records changes a privileged user already applied,
// as a request born in applied state with the actor as its own reviewer.
// It runs on the caller's transaction: the domain write and its audit
// record commit or roll back as one unit.
func (s *ModerationService) LogAppliedChanges(tx *gorm.DB, userID uuid.UUID, changes []ChangeInput) (*models.ModerationRequest, error) {
	if err := s.validate(userID, changes); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	req := &models.ModerationRequest{
		ID:         uuid.New(),
		Status:     models.RequestApplied,
		CreatedBy:  userID,
		CreatedAt:  now,
		ReviewedAt: &now,
		ReviewedBy: &userID,
		AppliedAt:  &now,
	}
	if err := tx.Create(req).Error; err != nil {
		return nil, fmt.Errorf("failed to create moderation log: %w", err)
	}
	records, err := insertChangeRecords(tx, req.ID, changes, now)
	if err != nil {
		return nil, err
	}
	req.Changes = records
	return req, nil
}

func insertChangeRecords(tx *gorm.DB, requestID uuid.UUID, changes []ChangeInput, now time.Time) ([]models.ModerationChange, error) {
	records := make([]models.ModerationChange, 0, len(changes))
	for i, c := range changes {
		targetKey, err := cleanJSON(c.TargetKey)
		if err != nil {
			return nil, fmt.Errorf("invalid target key for change %d: %w", i, err)
		}
		dataNew, err := cleanJSON(c.DataNew)
		if err != nil {
			return nil, fmt.Errorf("invalid payload for change %d: %w", i, err)
		}
		dataOld, err := cleanJSON(c.DataOld)
		if err != nil {
			return nil, fmt.Errorf("invalid snapshot for change %d: %w", i, err)
		}
		record := models.ModerationChange{
			ID:          uuid.New(),
			RequestID:   requestID,
			TargetTable: c.TableName,
			Operation:   c.Operation,
			Sequence:    i,
			TargetKey:   targetKey,
			DataNew:     dataNew,
			DataOld:     dataOld,
			CreatedAt:   now,
		}
		if err := tx.Create(&record).Error; err != nil {
			return nil, fmt.Errorf("failed to create moderation change: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

// cleanJSON deep-copies a payload through its serialized form, detaching
// it from caller references and rejecting non-serializable values.
func cleanJSON(in map[string]interface{}) (datatypes.JSONMap, error) {
	if in == nil {
		return nil, nil
	}
	b, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return datatypes.JSONMap(out), nil
}

// ApproveRequest transitions a pending request to approved, replays its
// changes in sequence order inside the same transaction, and marks it
// applied. Concurrent approvals of the same request serialize on the row
// lock; the loser fails with ErrRequestNotPending. Any replay failure
// rolls everything back, leaving the request pending.
func (s *ModerationService) ApproveRequest(requestID, reviewerID uuid.UUID, decisionNote *string) (*models.ModerationRequest, error) {
	var out *models.ModerationRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.claimPending(tx, requestID, models.RequestApproved, reviewerID, decisionNote); err != nil {
			return err
		}

		changes, err := changesForRequest(tx, requestID)
		if err != nil {
			return err
		}
		for i := range changes {
			if err := applyChange(tx, &changes[i]); err != nil {
				return fmt.Errorf("failed to apply change %d of request %s: %w", changes[i].Sequence, requestID, err)
			}
		}

		appliedAt := time.Now().UTC()
		err = tx.Model(&models.ModerationRequest{}).
			Where("id = ?", requestID).
			Updates(map[string]interface{}{
				"status":     models.RequestApplied,
				"applied_at": appliedAt,
			}).Error
		if err != nil {
			return err
		}

		out, err = loadRequest(tx, requestID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RejectRequest closes a pending request without touching domain data.
func (s *ModerationService) RejectRequest(requestID, reviewerID uuid.UUID, decisionNote *string) (*models.ModerationRequest, error) {
	var out *models.ModerationRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.claimPending(tx, requestID, models.RequestRejected, reviewerID, decisionNote); err != nil {
			return err
		}
		var err error
		out, err = loadRequest(tx, requestID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// claimPending locks the request row, verifies it is still pending and
// moves it to the given status. The status-guarded update is what makes
// the transition exactly-once even without the row lock.
func (s *ModerationService) claimPending(tx *gorm.DB, requestID uuid.UUID, status string, reviewerID uuid.UUID, decisionNote *string) error {
	var req models.ModerationRequest
	if err := lockForUpdate(tx).First(&req, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	if req.Status != models.RequestPending {
		return ErrRequestNotPending
	}

	res := tx.Model(&models.ModerationRequest{}).
		Where("id = ? AND status = ?", requestID, models.RequestPending).
		Updates(map[string]interface{}{
			"status":        status,
			"reviewed_at":   time.Now().UTC(),
			"reviewed_by":   reviewerID,
			"decision_note": decisionNote,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRequestNotPending
	}
	return nil
}

// lockForUpdate takes a pessimistic row lock where the dialect supports
// it. sqlite serializes writers on its own and rejects FOR UPDATE.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func orderChanges(db *gorm.DB) *gorm.DB {
	return db.Order("sequence ASC, created_at ASC")
}

func changesForRequest(tx *gorm.DB, requestID uuid.UUID) ([]models.ModerationChange, error) {
	var changes []models.ModerationChange
	err := orderChanges(tx.Where("request_id = ?", requestID)).Find(&changes).Error
	return changes, err
}

func loadRequest(tx *gorm.DB, requestID uuid.UUID) (*models.ModerationRequest, error) {
	var req models.ModerationRequest
	err := tx.Preload("Changes", orderChanges).First(&req, "id = ?", requestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ListRequests returns requests newest first, optionally filtered by
// status, each with its changes in replay order.
func (s *ModerationService) ListRequests(status string) ([]models.ModerationRequest, error) {
	query := s.db.Preload("Changes", orderChanges).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	requests := []models.ModerationRequest{}
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// GetRequest returns one request with ordered changes, or nil when it
// does not exist.
func (s *ModerationService) GetRequest(requestID uuid.UUID) (*models.ModerationRequest, error) {
	req, err := loadRequest(s.db, requestID)
	if errors.Is(err, ErrRequestNotFound) {
		return nil, nil
	}
	return req, err
}

// HistoryForTarget returns every request that ever touched the given
// row, newest first, carrying only the changes that matched. The match
// is one JSON field equality per key column, so composite keys work the
// same as single ids. Empty table or key means no history, not an error.
func (s *ModerationService) HistoryForTarget(tableName string, targetKey map[string]interface{}) ([]models.ModerationRequest, error) {
	if tableName == "" || len(targetKey) == 0 {
		return []models.ModerationRequest{}, nil
	}

	query := s.db.Model(&models.ModerationChange{}).Where("target_table = ?", tableName)
	for column, value := range targetKey {
		query = query.Where(datatypes.JSONQuery("target_key").Equals(value, column))
	}

	var changes []models.ModerationChange
	if err := orderChanges(query).Find(&changes).Error; err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return []models.ModerationRequest{}, nil
	}

	byRequest := make(map[uuid.UUID][]models.ModerationChange)
	ids := make([]uuid.UUID, 0, len(changes))
	for _, change := range changes {
		if _, seen := byRequest[change.RequestID]; !seen {
			ids = append(ids, change.RequestID)
		}
		byRequest[change.RequestID] = append(byRequest[change.RequestID], change)
	}

	requests := []models.ModerationRequest{}
	if err := s.db.Where("id IN ?", ids).Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	for i := range requests {
		requests[i].Changes = byRequest[requests[i].ID]
	}
	return requests, nil
}
