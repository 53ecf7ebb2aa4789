package moderation

import (
	"context"
	"fmt"

	"campsite/internal/domain/campsites"
	"campsite/internal/domain/reviews"
)

// Service drives the report → hide/unhide workflow. Reports never hide a
// review on their own; visibility only changes through an explicit admin
// action, and every admin action must land in the moderation log.
type Service struct {
	store     Store
	reviews   reviews.Store
	campsites campsites.Store
}

func NewService(store Store, reviewStore reviews.Store, campsiteStore campsites.Store) *Service {
	return &Service{
		store:     store,
		reviews:   reviewStore,
		campsites: campsiteStore,
	}
}

// ReportReview files a report. Distinct users may report the same review
// freely; the same user only once, and never their own.
func (s *Service) ReportReview(ctx context.Context, reviewID, userID int64, reason string, details *string) (*Report, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID == userID {
		return nil, ErrSelfReport
	}

	reported, err := s.store.HasReport(ctx, reviewID, userID)
	if err != nil {
		return nil, fmt.Errorf("check report: %w", err)
	}
	if reported {
		return nil, ErrAlreadyReported
	}

	report := &Report{
		ReviewID: reviewID,
		UserID:   userID,
		Reason:   reason,
		Details:  details,
	}
	if err := s.store.InsertReport(ctx, report); err != nil {
		return nil, err
	}

	return report, nil
}

// HideReview hides unconditionally: a review does not have to be reported
// first (spam caught by other means gets hidden too).
func (s *Service) HideReview(ctx context.Context, reviewID, adminID int64, reason string) error {
	if err := s.reviews.SetHidden(ctx, reviewID, adminID, reason); err != nil {
		return err
	}

	return s.store.InsertLog(ctx, &Log{
		AdminID:    adminID,
		ActionType: ActionReviewHide,
		EntityType: EntityReview,
		EntityID:   reviewID,
		Reason:     &reason,
	})
}

func (s *Service) UnhideReview(ctx context.Context, reviewID, adminID int64) error {
	if err := s.reviews.ClearHidden(ctx, reviewID); err != nil {
		return err
	}

	return s.store.InsertLog(ctx, &Log{
		AdminID:    adminID,
		ActionType: ActionReviewUnhide,
		EntityType: EntityReview,
		EntityID:   reviewID,
	})
}

// DismissReports takes a review out of the moderation queue without hiding
// it. The report rows stay behind as audit trail.
func (s *Service) DismissReports(ctx context.Context, reviewID, adminID int64) error {
	if err := s.reviews.ClearReported(ctx, reviewID); err != nil {
		return err
	}

	return s.store.InsertLog(ctx, &Log{
		AdminID:    adminID,
		ActionType: ActionReviewDismiss,
		EntityType: EntityReview,
		EntityID:   reviewID,
	})
}

// ReportedReviews lists the moderation queue, worst offenders first. Unlike
// the public read paths this one surfaces store errors: an admin staring at
// an empty queue must be able to trust it.
func (s *Service) ReportedReviews(ctx context.Context, page, limit int) ([]reviews.Review, int, error) {
	return s.reviews.ListReported(ctx, page, limit)
}

func (s *Service) ApproveCampsite(ctx context.Context, campsiteID, adminID int64, note *string) error {
	if err := s.campsites.MarkApproved(ctx, campsiteID, adminID, note); err != nil {
		return err
	}

	return s.store.InsertLog(ctx, &Log{
		AdminID:    adminID,
		ActionType: ActionCampsiteApprove,
		EntityType: EntityCampsite,
		EntityID:   campsiteID,
		Reason:     note,
	})
}

func (s *Service) RejectCampsite(ctx context.Context, campsiteID, adminID int64, note *string) error {
	if err := s.campsites.MarkRejected(ctx, campsiteID, adminID, note); err != nil {
		return err
	}

	return s.store.InsertLog(ctx, &Log{
		AdminID:    adminID,
		ActionType: ActionCampsiteReject,
		EntityType: EntityCampsite,
		EntityID:   campsiteID,
		Reason:     note,
	})
}

func (s *Service) Logs(ctx context.Context, filter LogFilter) ([]Log, error) {
	return s.store.ListLogs(ctx, filter)
}
