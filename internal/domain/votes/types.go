package votes

import (
	"context"
	"time"
)

var QueryTimeoutDuration = time.Second * 5

// A helpful vote has no payload; the (review, user) row existing is the
// whole signal. Un-voting deletes the row, no history.
type Vote struct {
	ReviewID  int64     `json:"review_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ToggleResult reports the state after a toggle. On store failure Voted
// carries the state the call was trying to reach, not the actual one.
type ToggleResult struct {
	Voted        bool `json:"voted"`
	HelpfulCount int  `json:"helpful_count"`
}

type Store interface {
	Exists(ctx context.Context, reviewID, userID int64) (bool, error)
	Insert(ctx context.Context, reviewID, userID int64) error
	Delete(ctx context.Context, reviewID, userID int64) error
	// ReviewHelpfulCount re-reads the trigger-maintained counter on the
	// review row.
	ReviewHelpfulCount(ctx context.Context, reviewID int64) (*int, error)
	VotedReviewIDs(ctx context.Context, userID int64, reviewIDs []int64) (map[int64]bool, error)
}
