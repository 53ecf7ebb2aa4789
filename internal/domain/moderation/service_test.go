package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"campsite/internal/domain/campsites"
	"campsite/internal/domain/reviews"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubModerationStore struct {
	hasReportFn func(ctx context.Context, reviewID, userID int64) (bool, error)
	reports     []*Report
	logs        []*Log
}

func (s *stubModerationStore) InsertReport(ctx context.Context, report *Report) error {
	s.reports = append(s.reports, report)
	return nil
}

func (s *stubModerationStore) HasReport(ctx context.Context, reviewID, userID int64) (bool, error) {
	if s.hasReportFn != nil {
		return s.hasReportFn(ctx, reviewID, userID)
	}
	return false, nil
}

func (s *stubModerationStore) InsertLog(ctx context.Context, entry *Log) error {
	s.logs = append(s.logs, entry)
	return nil
}

func (s *stubModerationStore) ListLogs(ctx context.Context, filter LogFilter) ([]Log, error) {
	out := make([]Log, 0, len(s.logs))
	for _, l := range s.logs {
		out = append(out, *l)
	}
	return out, nil
}

type stubReviewStore struct {
	getByIDFn func(ctx context.Context, reviewID int64) (*reviews.Review, error)
	hidden    map[int64]string
	unhidden  map[int64]bool
	cleared   map[int64]bool
}

func newStubReviewStore() *stubReviewStore {
	return &stubReviewStore{
		hidden:   map[int64]string{},
		unhidden: map[int64]bool{},
		cleared:  map[int64]bool{},
	}
}

func (s *stubReviewStore) Insert(ctx context.Context, review *reviews.Review) error { return nil }

func (s *stubReviewStore) GetByID(ctx context.Context, reviewID int64) (*reviews.Review, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, reviewID)
	}
	return &reviews.Review{ID: reviewID, UserID: 7}, nil
}

func (s *stubReviewStore) HasReview(ctx context.Context, campsiteID, userID int64) (bool, error) {
	return false, nil
}

func (s *stubReviewStore) List(ctx context.Context, campsiteID int64, filter reviews.ListFilter) ([]reviews.Review, int, error) {
	return nil, 0, nil
}

func (s *stubReviewStore) Recent(ctx context.Context, campsiteID int64, limit int) ([]reviews.Review, error) {
	return nil, nil
}

func (s *stubReviewStore) RatingSamples(ctx context.Context, campsiteID int64) ([]reviews.RatingSample, error) {
	return nil, nil
}

func (s *stubReviewStore) InsertPhotos(ctx context.Context, reviewID int64, urls []string) ([]reviews.Photo, error) {
	return nil, nil
}

func (s *stubReviewStore) PhotosByReviewIDs(ctx context.Context, reviewIDs []int64) (map[int64][]reviews.Photo, error) {
	return nil, nil
}

func (s *stubReviewStore) SetHidden(ctx context.Context, reviewID, adminID int64, reason string) error {
	s.hidden[reviewID] = reason
	return nil
}

func (s *stubReviewStore) ClearHidden(ctx context.Context, reviewID int64) error {
	s.unhidden[reviewID] = true
	return nil
}

func (s *stubReviewStore) ClearReported(ctx context.Context, reviewID int64) error {
	s.cleared[reviewID] = true
	return nil
}

func (s *stubReviewStore) SetOwnerResponse(ctx context.Context, reviewID int64, response string) error {
	return nil
}

func (s *stubReviewStore) ListReported(ctx context.Context, page, limit int) ([]reviews.Review, int, error) {
	return []reviews.Review{{ID: 3, ReportCount: 5}, {ID: 1, ReportCount: 2}}, 2, nil
}

type stubCampsiteStore struct {
	approved map[int64]bool
	rejected map[int64]bool
}

func newStubCampsiteStore() *stubCampsiteStore {
	return &stubCampsiteStore{approved: map[int64]bool{}, rejected: map[int64]bool{}}
}

func (s *stubCampsiteStore) Create(ctx context.Context, c *campsites.Campsite) error { return nil }

func (s *stubCampsiteStore) GetByID(ctx context.Context, campsiteID int64) (*campsites.Campsite, error) {
	return &campsites.Campsite{ID: campsiteID}, nil
}

func (s *stubCampsiteStore) List(ctx context.Context, filter campsites.ListFilter) ([]campsites.Campsite, error) {
	return nil, nil
}

func (s *stubCampsiteStore) MarkApproved(ctx context.Context, campsiteID, approvedBy int64, adminNote *string) error {
	s.approved[campsiteID] = true
	return nil
}

func (s *stubCampsiteStore) MarkRejected(ctx context.Context, campsiteID, rejectedBy int64, adminNote *string) error {
	s.rejected[campsiteID] = true
	return nil
}

func TestReportReviewRejectsSelfReport(t *testing.T) {
	reviewStore := newStubReviewStore()
	reviewStore.getByIDFn = func(ctx context.Context, reviewID int64) (*reviews.Review, error) {
		return &reviews.Review{ID: reviewID, UserID: 42}, nil
	}
	svc := NewService(&stubModerationStore{}, reviewStore, newStubCampsiteStore())

	_, err := svc.ReportReview(context.Background(), 1, 42, ReasonSpam, nil)
	assert.ErrorIs(t, err, ErrSelfReport)
}

func TestReportReviewRejectsSecondReportBySameUser(t *testing.T) {
	store := &stubModerationStore{
		hasReportFn: func(ctx context.Context, reviewID, userID int64) (bool, error) {
			return true, nil
		},
	}
	svc := NewService(store, newStubReviewStore(), newStubCampsiteStore())

	_, err := svc.ReportReview(context.Background(), 1, 42, ReasonSpam, nil)
	assert.ErrorIs(t, err, ErrAlreadyReported)
}

func TestReportReviewAcceptsDistinctUsers(t *testing.T) {
	store := &stubModerationStore{}
	svc := NewService(store, newStubReviewStore(), newStubCampsiteStore())

	_, err := svc.ReportReview(context.Background(), 1, 42, ReasonSpam, nil)
	require.NoError(t, err)
	_, err = svc.ReportReview(context.Background(), 1, 43, ReasonOffensive, nil)
	require.NoError(t, err)

	assert.Len(t, store.reports, 2)
}

func TestReportReviewMissingReview(t *testing.T) {
	reviewStore := newStubReviewStore()
	reviewStore.getByIDFn = func(ctx context.Context, reviewID int64) (*reviews.Review, error) {
		return nil, reviews.ErrNotFound
	}
	svc := NewService(&stubModerationStore{}, reviewStore, newStubCampsiteStore())

	_, err := svc.ReportReview(context.Background(), 1, 42, ReasonFake, nil)
	assert.ErrorIs(t, err, reviews.ErrNotFound)
}

func TestHideReviewWritesAuditLog(t *testing.T) {
	store := &stubModerationStore{}
	reviewStore := newStubReviewStore()
	svc := NewService(store, reviewStore, newStubCampsiteStore())

	err := svc.HideReview(context.Background(), 5, 99, "spam content")
	require.NoError(t, err)

	assert.Equal(t, "spam content", reviewStore.hidden[5])
	require.Len(t, store.logs, 1)
	entry := store.logs[0]
	assert.Equal(t, ActionReviewHide, entry.ActionType)
	assert.Equal(t, EntityReview, entry.EntityType)
	assert.Equal(t, int64(5), entry.EntityID)
	assert.Equal(t, int64(99), entry.AdminID)
	require.NotNil(t, entry.Reason)
	assert.Equal(t, "spam content", *entry.Reason)
}

func TestUnhideReviewWritesAuditLog(t *testing.T) {
	store := &stubModerationStore{}
	reviewStore := newStubReviewStore()
	svc := NewService(store, reviewStore, newStubCampsiteStore())

	err := svc.UnhideReview(context.Background(), 5, 99)
	require.NoError(t, err)

	assert.True(t, reviewStore.unhidden[5])
	require.Len(t, store.logs, 1)
	assert.Equal(t, ActionReviewUnhide, store.logs[0].ActionType)
	assert.Nil(t, store.logs[0].Reason)
}

func TestHideSurfacesMissingReviewWithoutLogging(t *testing.T) {
	store := &stubModerationStore{}
	svc := NewService(store, failingHideStore{newStubReviewStore(), reviews.ErrNotFound}, newStubCampsiteStore())

	err := svc.HideReview(context.Background(), 5, 99, "spam")
	assert.ErrorIs(t, err, reviews.ErrNotFound)
	assert.Empty(t, store.logs)
}

type failingHideStore struct {
	*stubReviewStore
	err error
}

func (s failingHideStore) SetHidden(ctx context.Context, reviewID, adminID int64, reason string) error {
	return s.err
}

func TestDismissReportsClearsFlagAndLogs(t *testing.T) {
	store := &stubModerationStore{}
	reviewStore := newStubReviewStore()
	svc := NewService(store, reviewStore, newStubCampsiteStore())

	err := svc.DismissReports(context.Background(), 8, 99)
	require.NoError(t, err)

	assert.True(t, reviewStore.cleared[8])
	require.Len(t, store.logs, 1)
	assert.Equal(t, ActionReviewDismiss, store.logs[0].ActionType)
}

func TestApproveCampsiteWritesAuditLog(t *testing.T) {
	store := &stubModerationStore{}
	campsiteStore := newStubCampsiteStore()
	svc := NewService(store, newStubReviewStore(), campsiteStore)

	note := "looks legit"
	err := svc.ApproveCampsite(context.Background(), 12, 99, &note)
	require.NoError(t, err)

	assert.True(t, campsiteStore.approved[12])
	require.Len(t, store.logs, 1)
	assert.Equal(t, ActionCampsiteApprove, store.logs[0].ActionType)
	assert.Equal(t, EntityCampsite, store.logs[0].EntityType)
}

func TestRejectCampsiteWritesAuditLog(t *testing.T) {
	store := &stubModerationStore{}
	campsiteStore := newStubCampsiteStore()
	svc := NewService(store, newStubReviewStore(), campsiteStore)

	err := svc.RejectCampsite(context.Background(), 12, 99, nil)
	require.NoError(t, err)

	assert.True(t, campsiteStore.rejected[12])
	require.Len(t, store.logs, 1)
	assert.Equal(t, ActionCampsiteReject, store.logs[0].ActionType)
}

func TestReportedReviewsSurfacesErrors(t *testing.T) {
	listErr := errors.New("store down")
	svc := NewService(&stubModerationStore{}, failingListStore{newStubReviewStore(), listErr}, newStubCampsiteStore())

	_, _, err := svc.ReportedReviews(context.Background(), 1, 20)
	assert.ErrorIs(t, err, listErr)
}

type failingListStore struct {
	*stubReviewStore
	err error
}

func (s failingListStore) ListReported(ctx context.Context, page, limit int) ([]reviews.Review, int, error) {
	return nil, 0, s.err
}

// memoryReviewStore keeps reviews in a slice and honors the hidden flag on
// every read, like the real store's WHERE clauses do.
type memoryReviewStore struct {
	rows   []*reviews.Review
	nextID int64
}

func (s *memoryReviewStore) add(rv *reviews.Review) int64 {
	s.nextID++
	rv.ID = s.nextID
	s.rows = append(s.rows, rv)
	return rv.ID
}

func (s *memoryReviewStore) find(reviewID int64) *reviews.Review {
	for _, rv := range s.rows {
		if rv.ID == reviewID {
			return rv
		}
	}
	return nil
}

func (s *memoryReviewStore) visible(campsiteID int64) []reviews.Review {
	var out []reviews.Review
	for _, rv := range s.rows {
		if rv.CampsiteID == campsiteID && !rv.IsHidden {
			out = append(out, *rv)
		}
	}
	return out
}

func (s *memoryReviewStore) Insert(ctx context.Context, review *reviews.Review) error {
	s.add(review)
	return nil
}

func (s *memoryReviewStore) GetByID(ctx context.Context, reviewID int64) (*reviews.Review, error) {
	rv := s.find(reviewID)
	if rv == nil {
		return nil, reviews.ErrNotFound
	}
	copied := *rv
	return &copied, nil
}

func (s *memoryReviewStore) HasReview(ctx context.Context, campsiteID, userID int64) (bool, error) {
	return false, nil
}

func (s *memoryReviewStore) List(ctx context.Context, campsiteID int64, filter reviews.ListFilter) ([]reviews.Review, int, error) {
	list := s.visible(campsiteID)
	return list, len(list), nil
}

func (s *memoryReviewStore) Recent(ctx context.Context, campsiteID int64, limit int) ([]reviews.Review, error) {
	list := s.visible(campsiteID)
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (s *memoryReviewStore) RatingSamples(ctx context.Context, campsiteID int64) ([]reviews.RatingSample, error) {
	var out []reviews.RatingSample
	for _, rv := range s.visible(campsiteID) {
		out = append(out, reviews.RatingSample{
			Overall:     rv.Overall,
			Cleanliness: rv.Cleanliness,
			Staff:       rv.Staff,
			Facilities:  rv.Facilities,
			Value:       rv.Value,
			Location:    rv.Location,
		})
	}
	return out, nil
}

func (s *memoryReviewStore) InsertPhotos(ctx context.Context, reviewID int64, urls []string) ([]reviews.Photo, error) {
	return nil, nil
}

func (s *memoryReviewStore) PhotosByReviewIDs(ctx context.Context, reviewIDs []int64) (map[int64][]reviews.Photo, error) {
	return map[int64][]reviews.Photo{}, nil
}

func (s *memoryReviewStore) SetHidden(ctx context.Context, reviewID, adminID int64, reason string) error {
	rv := s.find(reviewID)
	if rv == nil {
		return reviews.ErrNotFound
	}
	now := time.Now()
	rv.IsHidden = true
	rv.HiddenReason = &reason
	rv.HiddenAt = &now
	rv.HiddenBy = &adminID
	return nil
}

func (s *memoryReviewStore) ClearHidden(ctx context.Context, reviewID int64) error {
	rv := s.find(reviewID)
	if rv == nil {
		return reviews.ErrNotFound
	}
	rv.IsHidden = false
	rv.HiddenReason = nil
	rv.HiddenAt = nil
	rv.HiddenBy = nil
	return nil
}

func (s *memoryReviewStore) ClearReported(ctx context.Context, reviewID int64) error {
	rv := s.find(reviewID)
	if rv == nil {
		return reviews.ErrNotFound
	}
	rv.IsReported = false
	return nil
}

func (s *memoryReviewStore) SetOwnerResponse(ctx context.Context, reviewID int64, response string) error {
	rv := s.find(reviewID)
	if rv == nil {
		return reviews.ErrNotFound
	}
	now := time.Now()
	rv.OwnerResponse = &response
	rv.OwnerResponseAt = &now
	return nil
}

func (s *memoryReviewStore) ListReported(ctx context.Context, page, limit int) ([]reviews.Review, int, error) {
	var out []reviews.Review
	for _, rv := range s.rows {
		if rv.IsReported && !rv.IsHidden {
			out = append(out, *rv)
		}
	}
	return out, len(out), nil
}

type noopVoteStore struct{}

func (noopVoteStore) Exists(ctx context.Context, reviewID, userID int64) (bool, error) {
	return false, nil
}

func (noopVoteStore) Insert(ctx context.Context, reviewID, userID int64) error { return nil }

func (noopVoteStore) Delete(ctx context.Context, reviewID, userID int64) error { return nil }

func (noopVoteStore) ReviewHelpfulCount(ctx context.Context, reviewID int64) (*int, error) {
	return nil, nil
}

func (noopVoteStore) VotedReviewIDs(ctx context.Context, userID int64, reviewIDs []int64) (map[int64]bool, error) {
	return map[int64]bool{}, nil
}

// Hiding a review must remove it from the summary and the list as if it never
// existed; unhiding must bring it back unchanged.
func TestHiddenReviewExcludedFromAggregates(t *testing.T) {
	ctx := context.Background()
	store := &memoryReviewStore{}
	hiddenID := store.add(&reviews.Review{CampsiteID: 1, UserID: 7, Overall: 5})
	store.add(&reviews.Review{CampsiteID: 1, UserID: 8, Overall: 3})

	modSvc := NewService(&stubModerationStore{}, store, newStubCampsiteStore())
	reviewSvc := reviews.NewService(store, newStubCampsiteStore(), noopVoteStore{}, zap.NewNop().Sugar())

	summary := reviewSvc.GetSummary(ctx, 1)
	require.Equal(t, 2, summary.TotalCount)
	require.Equal(t, 4.0, summary.AverageRating)

	require.NoError(t, modSvc.HideReview(ctx, hiddenID, 99, "spam"))

	summary = reviewSvc.GetSummary(ctx, 1)
	assert.Equal(t, 1, summary.TotalCount)
	assert.Equal(t, 3.0, summary.AverageRating)
	assert.Equal(t, 0, summary.RatingDistribution[5])
	assert.Equal(t, 100, summary.RatingPercentages[3])

	list, total := reviewSvc.List(ctx, 1, reviews.ListFilter{Page: 1, Limit: 10})
	require.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, 3, list[0].Overall)

	recent := reviewSvc.RecentReviews(ctx, 1, 5)
	assert.Len(t, recent, 1)

	require.NoError(t, modSvc.UnhideReview(ctx, hiddenID, 99))

	summary = reviewSvc.GetSummary(ctx, 1)
	assert.Equal(t, 2, summary.TotalCount)
	assert.Equal(t, 4.0, summary.AverageRating)
	assert.Equal(t, 1, summary.RatingDistribution[5])

	list, total = reviewSvc.List(ctx, 1, reviews.ListFilter{Page: 1, Limit: 10})
	assert.Len(t, list, 2)
	assert.Equal(t, 2, total)
}
