package dto

import "github.com/izlanproject/izlan-backend/internal/models"

type ReviewRequest struct {
	DecisionNote *string `json:"decision_note,omitempty"`
}

// PendingResponse is returned with 202 when a community write was staged
// instead of applied.
type PendingResponse struct {
	Status  string                    `json:"status"`
	Request *models.ModerationRequest `json:"request"`
}
