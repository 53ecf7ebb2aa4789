package votes

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrAlreadyVoted   = errors.New("vote already exists")
	ErrReviewNotFound = errors.New("review not found")
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) Exists(ctx context.Context, reviewID, userID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		SELECT EXISTS (
		  SELECT 1 FROM review_helpful_votes
		  WHERE review_id = $1 AND user_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, q, reviewID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("vote exists: %w", err)
	}
	return exists, nil
}

func (r *Repository) Insert(ctx context.Context, reviewID, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	// The primary key on (review_id, user_id) is what actually prevents a
	// double vote when two toggles race past the existence check. A trigger
	// bumps reviews.helpful_count on insert.
	const q = `
		INSERT INTO review_helpful_votes (review_id, user_id)
		VALUES ($1, $2)
	`
	if _, err := r.db.Exec(ctx, q, reviewID, userID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrAlreadyVoted
			case "23503":
				return ErrReviewNotFound
			}
		}
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, reviewID, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		DELETE FROM review_helpful_votes
		WHERE review_id = $1 AND user_id = $2
	`
	if _, err := r.db.Exec(ctx, q, reviewID, userID); err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	return nil
}

func (r *Repository) ReviewHelpfulCount(ctx context.Context, reviewID int64) (*int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `SELECT helpful_count FROM reviews WHERE id = $1`

	var count *int
	if err := r.db.QueryRow(ctx, q, reviewID).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("read helpful count: %w", err)
	}
	return count, nil
}

func (r *Repository) VotedReviewIDs(ctx context.Context, userID int64, reviewIDs []int64) (map[int64]bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	out := make(map[int64]bool, len(reviewIDs))
	if len(reviewIDs) == 0 {
		return out, nil
	}

	const q = `
		SELECT review_id FROM review_helpful_votes
		WHERE user_id = $1 AND review_id = ANY($2)
	`

	rows, err := r.db.Query(ctx, q, userID, reviewIDs)
	if err != nil {
		return nil, fmt.Errorf("voted review ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan voted review ids: %w", err)
		}
		out[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows voted review ids: %w", err)
	}

	return out, nil
}
