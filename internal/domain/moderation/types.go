package moderation

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrSelfReport      = errors.New("users cannot report their own review")
	ErrAlreadyReported = errors.New("user has already reported this review")
	ErrIncompleteLog   = errors.New("moderation log entry is missing required fields")

	QueryTimeoutDuration = time.Second * 5
)

// Report reasons a user can pick.
const (
	ReasonSpam      = "spam"
	ReasonOffensive = "offensive"
	ReasonFake      = "fake"
	ReasonOffTopic  = "off_topic"
	ReasonOther     = "other"
)

// Admin action types recorded in the moderation log. The owner_* values are
// part of the platform-wide enum even though only campsite and review actions
// have endpoints in this service.
const (
	ActionCampsiteApprove = "campsite_approve"
	ActionCampsiteReject  = "campsite_reject"
	ActionOwnerApprove    = "owner_approve"
	ActionOwnerReject     = "owner_reject"
	ActionReviewHide      = "review_hide"
	ActionReviewUnhide    = "review_unhide"
	ActionReviewDelete    = "review_delete"
	ActionReviewDismiss   = "review_dismiss"
)

const (
	EntityCampsite = "campsite"
	EntityOwner    = "owner"
	EntityReview   = "review"
)

// Report rows accumulate per review and are never deleted; once a review is
// hidden they remain behind as audit trail.
type Report struct {
	ID        int64     `json:"id"`
	ReviewID  int64     `json:"review_id"`
	UserID    int64     `json:"user_id"`
	Reason    string    `json:"reason"`
	Details   *string   `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Log is an append-only audit record of an admin action. A moderation
// action without a log entry is a defect, not an optimization.
type Log struct {
	ID         int64           `json:"id"`
	AdminID    int64           `json:"admin_id"`
	ActionType string          `json:"action_type"`
	EntityType string          `json:"entity_type"`
	EntityID   int64           `json:"entity_id"`
	Reason     *string         `json:"reason,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type LogFilter struct {
	AdminID    *int64
	ActionType *string
	EntityType *string
	EntityID   *int64
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

type Store interface {
	InsertReport(ctx context.Context, report *Report) error
	HasReport(ctx context.Context, reviewID, userID int64) (bool, error)
	InsertLog(ctx context.Context, entry *Log) error
	ListLogs(ctx context.Context, filter LogFilter) ([]Log, error)
}
