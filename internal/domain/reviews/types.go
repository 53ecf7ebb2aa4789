package reviews

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound            = errors.New("review not found")
	ErrDuplicateReview     = errors.New("user has already reviewed this campsite")
	ErrCampsiteNotEligible = errors.New("campsite does not accept reviews")
	ErrNotAuthorized       = errors.New("not the campsite owner")
	QueryTimeoutDuration   = time.Second * 5
)

// Sort orders accepted by List.
const (
	SortNewest     = "newest"
	SortRatingHigh = "rating_high"
	SortRatingLow  = "rating_low"
	SortHelpful    = "helpful"
)

// Reviewer types a guest can self-select.
const (
	ReviewerTent   = "tent"
	ReviewerRV     = "rv"
	ReviewerVan    = "van"
	ReviewerCabin  = "cabin"
	ReviewerFamily = "family"
	ReviewerGroup  = "group"
)

// Review is visible immediately after creation unless an admin hides it;
// there is no pending state. Rating and content fields never change after
// insert, only the moderation, response and helpful_count columns do.
type Review struct {
	ID         int64 `json:"id"`
	CampsiteID int64 `json:"campsite_id"`
	UserID     int64 `json:"user_id"`

	Overall     int  `json:"overall"` // 1-5
	Cleanliness *int `json:"cleanliness,omitempty"`
	Staff       *int `json:"staff,omitempty"`
	Facilities  *int `json:"facilities,omitempty"`
	Value       *int `json:"value,omitempty"`
	Location    *int `json:"location,omitempty"`

	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Pros         *string    `json:"pros,omitempty"`
	Cons         *string    `json:"cons,omitempty"`
	ReviewerType string     `json:"reviewer_type"`
	VisitedAt    *time.Time `json:"visited_at,omitempty"`

	HelpfulCount int `json:"helpful_count"` // maintained by the store

	IsHidden     bool       `json:"is_hidden"`
	HiddenReason *string    `json:"hidden_reason,omitempty"`
	HiddenAt     *time.Time `json:"hidden_at,omitempty"`
	HiddenBy     *int64     `json:"hidden_by,omitempty"`

	IsReported  bool `json:"is_reported"`
	ReportCount int  `json:"report_count"`

	OwnerResponse   *string    `json:"owner_response,omitempty"`
	OwnerResponseAt *time.Time `json:"owner_response_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined fields
	UserName  string  `json:"user_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Photos    []Photo `json:"photos,omitempty"`

	// Whether the requesting user has voted this review helpful. Only set
	// on authenticated list reads.
	VotedHelpful bool `json:"voted_helpful"`
}

// Photo belongs to a review, ordered by SortIndex. Photos are attached in
// batch at creation time and never edited afterwards.
type Photo struct {
	ID        int64     `json:"id"`
	ReviewID  int64     `json:"review_id"`
	URL       string    `json:"url"`
	SortIndex int       `json:"sort_index"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateInput struct {
	CampsiteID   int64
	Overall      int
	Cleanliness  *int
	Staff        *int
	Facilities   *int
	Value        *int
	Location     *int
	Title        string
	Content      string
	Pros         *string
	Cons         *string
	ReviewerType string
	VisitedAt    *time.Time
	PhotoURLs    []string
}

type ListFilter struct {
	Page         int
	Limit        int
	Sort         string
	ReviewerType *string
	ViewerID     *int64
}

// RatingSample is the slice of a review the aggregation engine looks at.
type RatingSample struct {
	Overall     int
	Cleanliness *int
	Staff       *int
	Facilities  *int
	Value       *int
	Location    *int
}

// Summary is recomputed from the current visible reviews on every request;
// nothing here is stored.
type Summary struct {
	AverageRating      float64             `json:"average_rating"`
	TotalCount         int                 `json:"total_count"`
	RatingDistribution map[int]int         `json:"rating_distribution"`
	RatingPercentages  map[int]int         `json:"rating_percentages"`
	CategoryAverages   map[string]*float64 `json:"category_averages"`
}

type Store interface {
	Insert(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, reviewID int64) (*Review, error)
	HasReview(ctx context.Context, campsiteID, userID int64) (bool, error)
	List(ctx context.Context, campsiteID int64, filter ListFilter) ([]Review, int, error)
	Recent(ctx context.Context, campsiteID int64, limit int) ([]Review, error)
	RatingSamples(ctx context.Context, campsiteID int64) ([]RatingSample, error)
	InsertPhotos(ctx context.Context, reviewID int64, urls []string) ([]Photo, error)
	PhotosByReviewIDs(ctx context.Context, reviewIDs []int64) (map[int64][]Photo, error)
	SetHidden(ctx context.Context, reviewID, adminID int64, reason string) error
	ClearHidden(ctx context.Context, reviewID int64) error
	ClearReported(ctx context.Context, reviewID int64) error
	SetOwnerResponse(ctx context.Context, reviewID int64, response string) error
	ListReported(ctx context.Context, page, limit int) ([]Review, int, error)
}
