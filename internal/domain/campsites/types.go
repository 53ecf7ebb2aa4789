package campsites

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("campsite not found")
	QueryTimeoutDuration = time.Second * 5
)

// Campsite listing lifecycle. Only approved campsites accept reviews.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Campsite struct {
	ID          int64      `json:"id"`
	OwnerID     int64      `json:"owner_id"`
	Name        string     `json:"name"`
	Address     string     `json:"address"`
	Description *string    `json:"description,omitempty"`
	Amenities   []string   `json:"amenities,omitempty"`
	ImageURLs   []string   `json:"image_urls,omitempty"`
	Status      Status     `json:"status"`
	AdminNote   *string    `json:"admin_note,omitempty"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	ApprovedBy  *int64     `json:"approved_by,omitempty"`
	RejectedAt  *time.Time `json:"rejected_at,omitempty"`
	RejectedBy  *int64     `json:"rejected_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ListFilter struct {
	Status *Status
	Page   int
	Limit  int
}

type Store interface {
	Create(ctx context.Context, c *Campsite) error
	GetByID(ctx context.Context, campsiteID int64) (*Campsite, error)
	List(ctx context.Context, filter ListFilter) ([]Campsite, error)
	MarkApproved(ctx context.Context, campsiteID, approvedBy int64, adminNote *string) error
	MarkRejected(ctx context.Context, campsiteID, rejectedBy int64, adminNote *string) error
}
