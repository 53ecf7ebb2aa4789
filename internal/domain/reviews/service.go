package reviews

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campsite/internal/domain/campsites"
	"campsite/internal/domain/votes"

	"go.uber.org/zap"
)

// Service is the review lifecycle manager. Writes surface typed errors;
// summary and list reads degrade to the canonical empty value when the store
// fails, so the display path never breaks on a transient outage. That makes
// an outage look like "no reviews" to the caller, which is why every
// swallowed failure is logged at error level here.
type Service struct {
	store     Store
	campsites campsites.Store
	votes     votes.Store
	logger    *zap.SugaredLogger
}

func NewService(store Store, campsiteStore campsites.Store, voteStore votes.Store, logger *zap.SugaredLogger) *Service {
	return &Service{
		store:     store,
		campsites: campsiteStore,
		votes:     voteStore,
		logger:    logger,
	}
}

// Create inserts a review that is visible immediately; moderation happens
// after the fact, never before. Photos are attached best-effort: a photo
// failure does not roll the review back.
func (s *Service) Create(ctx context.Context, input CreateInput, authorID int64) (*Review, error) {
	exists, err := s.store.HasReview(ctx, input.CampsiteID, authorID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	campsite, err := s.campsites.GetByID(ctx, input.CampsiteID)
	if err != nil {
		if errors.Is(err, campsites.ErrNotFound) {
			return nil, ErrCampsiteNotEligible
		}
		return nil, fmt.Errorf("check campsite: %w", err)
	}
	if campsite.Status != campsites.StatusApproved {
		return nil, ErrCampsiteNotEligible
	}

	review := &Review{
		CampsiteID:   input.CampsiteID,
		UserID:       authorID,
		Overall:      input.Overall,
		Cleanliness:  input.Cleanliness,
		Staff:        input.Staff,
		Facilities:   input.Facilities,
		Value:        input.Value,
		Location:     input.Location,
		Title:        input.Title,
		Content:      input.Content,
		Pros:         input.Pros,
		Cons:         input.Cons,
		ReviewerType: input.ReviewerType,
		VisitedAt:    input.VisitedAt,
	}

	if err := s.store.Insert(ctx, review); err != nil {
		// The unique index resolves the create/create race the existence
		// check above cannot.
		return nil, err
	}

	if len(input.PhotoURLs) > 0 {
		photos, err := s.store.InsertPhotos(ctx, review.ID, input.PhotoURLs)
		if err != nil {
			s.logger.Errorw("review photos not fully attached", "review_id", review.ID, "error", err)
		}
		review.Photos = photos
	}

	hydrated, err := s.store.GetByID(ctx, review.ID)
	if err != nil {
		s.logger.Errorw("review hydration failed, returning bare review", "review_id", review.ID, "error", err)
		return review, nil
	}
	hydrated.Photos = review.Photos

	return hydrated, nil
}

// List returns visible reviews plus the total matching count. Store failure
// yields an empty page by policy.
func (s *Service) List(ctx context.Context, campsiteID int64, filter ListFilter) ([]Review, int) {
	list, total, err := s.store.List(ctx, campsiteID, filter)
	if err != nil {
		s.logger.Errorw("review list degraded to empty", "campsite_id", campsiteID, "error", err)
		return []Review{}, 0
	}

	s.attachPhotos(ctx, list)

	if filter.ViewerID != nil {
		s.annotateVotes(ctx, *filter.ViewerID, list)
	}

	return list, total
}

// GetSummary recomputes the rating summary from the current visible reviews.
// Store failure yields the zero summary by policy.
func (s *Service) GetSummary(ctx context.Context, campsiteID int64) Summary {
	samples, err := s.store.RatingSamples(ctx, campsiteID)
	if err != nil {
		s.logger.Errorw("review summary degraded to empty", "campsite_id", campsiteID, "error", err)
		return Summarize(nil)
	}
	return Summarize(samples)
}

func (s *Service) RecentReviews(ctx context.Context, campsiteID int64, limit int) []Review {
	list, err := s.store.Recent(ctx, campsiteID, limit)
	if err != nil {
		s.logger.Errorw("recent reviews degraded to empty", "campsite_id", campsiteID, "error", err)
		return []Review{}
	}
	s.attachPhotos(ctx, list)
	return list
}

// AddOwnerResponse binds the response to campsite ownership. Re-invoking
// overwrites the previous response.
func (s *Service) AddOwnerResponse(ctx context.Context, reviewID, ownerID int64, response string) (*Review, error) {
	review, err := s.store.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	campsite, err := s.campsites.GetByID(ctx, review.CampsiteID)
	if err != nil {
		return nil, fmt.Errorf("load campsite for response: %w", err)
	}
	if campsite.OwnerID != ownerID {
		return nil, ErrNotAuthorized
	}

	if err := s.store.SetOwnerResponse(ctx, reviewID, response); err != nil {
		return nil, err
	}

	// Re-read so the caller sees the store-assigned response timestamp.
	updated, err := s.store.GetByID(ctx, reviewID)
	if err != nil {
		s.logger.Errorw("response hydration failed, returning bare review", "review_id", reviewID, "error", err)
		now := time.Now()
		review.OwnerResponse = &response
		review.OwnerResponseAt = &now
		return review, nil
	}

	return updated, nil
}

func (s *Service) attachPhotos(ctx context.Context, list []Review) {
	if len(list) == 0 {
		return
	}

	ids := make([]int64, 0, len(list))
	for i := range list {
		ids = append(ids, list[i].ID)
	}

	photos, err := s.store.PhotosByReviewIDs(ctx, ids)
	if err != nil {
		s.logger.Errorw("review photo lookup failed", "error", err)
		return
	}
	for i := range list {
		list[i].Photos = photos[list[i].ID]
	}
}

// annotateVotes marks which reviews the viewer voted helpful, looked up in
// one batch rather than per row.
func (s *Service) annotateVotes(ctx context.Context, viewerID int64, list []Review) {
	if len(list) == 0 {
		return
	}

	ids := make([]int64, 0, len(list))
	for i := range list {
		ids = append(ids, list[i].ID)
	}

	voted, err := s.votes.VotedReviewIDs(ctx, viewerID, ids)
	if err != nil {
		s.logger.Errorw("helpful vote annotation failed", "viewer_id", viewerID, "error", err)
		return
	}
	for i := range list {
		list[i].VotedHelpful = voted[list[i].ID]
	}
}
