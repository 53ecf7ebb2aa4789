package votes

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Service implements the helpful-vote toggle. There is no "already voted"
// error on this path: a second call simply flips the vote back off.
type Service struct {
	store  Store
	logger *zap.SugaredLogger
}

func NewService(store Store, logger *zap.SugaredLogger) *Service {
	return &Service{store: store, logger: logger}
}

func (s *Service) Toggle(ctx context.Context, reviewID, userID int64) (ToggleResult, error) {
	exists, err := s.store.Exists(ctx, reviewID, userID)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("toggle helpful: %w", err)
	}

	target := !exists

	if exists {
		err = s.store.Delete(ctx, reviewID, userID)
	} else {
		err = s.store.Insert(ctx, reviewID, userID)
	}
	if err != nil {
		// Includes the duplicate-insert race rejected by the store's
		// unique constraint; report the attempted state, never success.
		return ToggleResult{Voted: target, HelpfulCount: 0}, fmt.Errorf("toggle helpful: %w", err)
	}

	// helpful_count is store-maintained; re-read it after the mutation. A
	// missing count degrades to 0 rather than failing the toggle.
	result := ToggleResult{Voted: target}
	count, err := s.store.ReviewHelpfulCount(ctx, reviewID)
	if err != nil {
		s.logger.Errorw("helpful count read-back failed, defaulting to 0", "review_id", reviewID, "error", err)
		return result, nil
	}
	if count != nil {
		result.HelpfulCount = *count
	}

	return result, nil
}
