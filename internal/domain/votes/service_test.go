package votes

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubVoteStore struct {
	existsFn func(ctx context.Context, reviewID, userID int64) (bool, error)
	insertFn func(ctx context.Context, reviewID, userID int64) error
	deleteFn func(ctx context.Context, reviewID, userID int64) error
	countFn  func(ctx context.Context, reviewID int64) (*int, error)
}

func (s *stubVoteStore) Exists(ctx context.Context, reviewID, userID int64) (bool, error) {
	if s.existsFn != nil {
		return s.existsFn(ctx, reviewID, userID)
	}
	return false, nil
}

func (s *stubVoteStore) Insert(ctx context.Context, reviewID, userID int64) error {
	if s.insertFn != nil {
		return s.insertFn(ctx, reviewID, userID)
	}
	return nil
}

func (s *stubVoteStore) Delete(ctx context.Context, reviewID, userID int64) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, reviewID, userID)
	}
	return nil
}

func (s *stubVoteStore) ReviewHelpfulCount(ctx context.Context, reviewID int64) (*int, error) {
	if s.countFn != nil {
		return s.countFn(ctx, reviewID)
	}
	return nil, nil
}

func (s *stubVoteStore) VotedReviewIDs(ctx context.Context, userID int64, reviewIDs []int64) (map[int64]bool, error) {
	return map[int64]bool{}, nil
}

func countPtr(v int) *int { return &v }

func TestToggleCastsVote(t *testing.T) {
	var inserted bool
	store := &stubVoteStore{
		insertFn: func(ctx context.Context, reviewID, userID int64) error {
			inserted = true
			return nil
		},
		countFn: func(ctx context.Context, reviewID int64) (*int, error) {
			return countPtr(4), nil
		},
	}
	svc := NewService(store, zap.NewNop().Sugar())

	result, err := svc.Toggle(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.True(t, result.Voted)
	assert.Equal(t, 4, result.HelpfulCount)
}

func TestToggleRetractsVote(t *testing.T) {
	var deleted bool
	store := &stubVoteStore{
		existsFn: func(ctx context.Context, reviewID, userID int64) (bool, error) {
			return true, nil
		},
		deleteFn: func(ctx context.Context, reviewID, userID int64) error {
			deleted = true
			return nil
		},
		countFn: func(ctx context.Context, reviewID int64) (*int, error) {
			return countPtr(3), nil
		},
	}
	svc := NewService(store, zap.NewNop().Sugar())

	result, err := svc.Toggle(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, result.Voted)
	assert.Equal(t, 3, result.HelpfulCount)
}

func TestToggleReportsAttemptedStateOnFailure(t *testing.T) {
	store := &stubVoteStore{
		insertFn: func(ctx context.Context, reviewID, userID int64) error {
			return errors.New("insert broke")
		},
	}
	svc := NewService(store, zap.NewNop().Sugar())

	result, err := svc.Toggle(context.Background(), 1, 42)
	require.Error(t, err)
	assert.True(t, result.Voted)
	assert.Equal(t, 0, result.HelpfulCount)
}

func TestToggleCountReadBackFailureDefaultsToZero(t *testing.T) {
	store := &stubVoteStore{
		countFn: func(ctx context.Context, reviewID int64) (*int, error) {
			return nil, errors.New("count read broke")
		},
	}
	svc := NewService(store, zap.NewNop().Sugar())

	result, err := svc.Toggle(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.True(t, result.Voted)
	assert.Equal(t, 0, result.HelpfulCount)
}

func TestToggleMissingCountDefaultsToZero(t *testing.T) {
	svc := NewService(&stubVoteStore{}, zap.NewNop().Sugar())

	result, err := svc.Toggle(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.Equal(t, 0, result.HelpfulCount)
}

func TestToggleDuplicateInsertRace(t *testing.T) {
	store := &stubVoteStore{
		insertFn: func(ctx context.Context, reviewID, userID int64) error {
			return ErrAlreadyVoted
		},
	}
	svc := NewService(store, zap.NewNop().Sugar())

	_, err := svc.Toggle(context.Background(), 1, 42)
	assert.ErrorIs(t, err, ErrAlreadyVoted)
}
