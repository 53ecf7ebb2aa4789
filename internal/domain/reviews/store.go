package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

const reviewColumns = `
	r.id, r.campsite_id, r.user_id,
	r.overall, r.cleanliness, r.staff, r.facilities, r.value, r.location,
	r.title, r.content, r.pros, r.cons, r.reviewer_type, r.visited_at,
	r.helpful_count,
	r.is_hidden, r.hidden_reason, r.hidden_at, r.hidden_by,
	r.is_reported, r.report_count,
	r.owner_response, r.owner_response_at,
	r.created_at, r.updated_at,
	u.name, u.avatar_url`

func scanReview(row pgx.Row, rv *Review) error {
	return row.Scan(
		&rv.ID, &rv.CampsiteID, &rv.UserID,
		&rv.Overall, &rv.Cleanliness, &rv.Staff, &rv.Facilities, &rv.Value, &rv.Location,
		&rv.Title, &rv.Content, &rv.Pros, &rv.Cons, &rv.ReviewerType, &rv.VisitedAt,
		&rv.HelpfulCount,
		&rv.IsHidden, &rv.HiddenReason, &rv.HiddenAt, &rv.HiddenBy,
		&rv.IsReported, &rv.ReportCount,
		&rv.OwnerResponse, &rv.OwnerResponseAt,
		&rv.CreatedAt, &rv.UpdatedAt,
		&rv.UserName, &rv.AvatarURL,
	)
}

func (r *Repository) Insert(ctx context.Context, review *Review) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		INSERT INTO reviews (
			campsite_id, user_id,
			overall, cleanliness, staff, facilities, value, location,
			title, content, pros, cons, reviewer_type, visited_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, q,
		review.CampsiteID,
		review.UserID,
		review.Overall,
		review.Cleanliness,
		review.Staff,
		review.Facilities,
		review.Value,
		review.Location,
		review.Title,
		review.Content,
		review.Pros,
		review.Cons,
		review.ReviewerType,
		review.VisitedAt,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)

	if err != nil {
		// The unique index on (campsite_id, user_id) is the real duplicate
		// guard; the service-level existence check can lose a race.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateReview
		}
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

func (r *Repository) GetByID(ctx context.Context, reviewID int64) (*Review, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := fmt.Sprintf(`
		SELECT %s
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.id = $1
	`, reviewColumns)

	var rv Review
	if err := scanReview(r.db.QueryRow(ctx, q, reviewID), &rv); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}

	return &rv, nil
}

// HasReview returns true if a review by this user on this campsite already exists.
func (r *Repository) HasReview(ctx context.Context, campsiteID, userID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		SELECT EXISTS (
		  SELECT 1 FROM reviews
		  WHERE campsite_id = $1 AND user_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, q, campsiteID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("has review: %w", err)
	}
	return exists, nil
}

func (r *Repository) List(ctx context.Context, campsiteID int64, filter ListFilter) ([]Review, int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 50 {
		filter.Limit = 15
	}

	where := []string{"r.campsite_id = $1", "r.is_hidden = false"}
	args := []interface{}{campsiteID}
	arg := 2

	if filter.ReviewerType != nil {
		where = append(where, fmt.Sprintf("r.reviewer_type = $%d", arg))
		args = append(args, *filter.ReviewerType)
		arg++
	}

	var order string
	switch filter.Sort {
	case SortRatingHigh:
		order = "r.overall DESC, r.created_at DESC"
	case SortRatingLow:
		order = "r.overall ASC, r.created_at DESC"
	case SortHelpful:
		order = "r.helpful_count DESC, r.created_at DESC"
	default: // SortNewest
		order = "r.created_at DESC"
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQ := fmt.Sprintf(`SELECT COUNT(*) FROM reviews r WHERE %s`, whereClause)
	if err := r.db.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	limitPos := arg
	offsetPos := arg + 1
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	q := fmt.Sprintf(`
		SELECT %s
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, reviewColumns, whereClause, order, limitPos, offsetPos)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var rv Review
		if err := scanReview(rows, &rv); err != nil {
			return nil, 0, fmt.Errorf("scan reviews: %w", err)
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows reviews: %w", err)
	}

	return out, total, nil
}

func (r *Repository) Recent(ctx context.Context, campsiteID int64, limit int) ([]Review, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if limit <= 0 || limit > 20 {
		limit = 5
	}

	q := fmt.Sprintf(`
		SELECT %s
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.campsite_id = $1 AND r.is_hidden = false
		ORDER BY r.created_at DESC
		LIMIT $2
	`, reviewColumns)

	rows, err := r.db.Query(ctx, q, campsiteID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent reviews: %w", err)
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var rv Review
		if err := scanReview(rows, &rv); err != nil {
			return nil, fmt.Errorf("scan recent reviews: %w", err)
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows recent reviews: %w", err)
	}

	return out, nil
}

// RatingSamples loads only the rating columns of the visible reviews for a
// campsite; this is what feeds Summarize.
func (r *Repository) RatingSamples(ctx context.Context, campsiteID int64) ([]RatingSample, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		SELECT overall, cleanliness, staff, facilities, value, location
		FROM reviews
		WHERE campsite_id = $1 AND is_hidden = false
	`

	rows, err := r.db.Query(ctx, q, campsiteID)
	if err != nil {
		return nil, fmt.Errorf("rating samples: %w", err)
	}
	defer rows.Close()

	var out []RatingSample
	for rows.Next() {
		var s RatingSample
		if err := rows.Scan(&s.Overall, &s.Cleanliness, &s.Staff, &s.Facilities, &s.Value, &s.Location); err != nil {
			return nil, fmt.Errorf("scan rating samples: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows rating samples: %w", err)
	}

	return out, nil
}

// InsertPhotos attaches photos to a review preserving input order.
func (r *Repository) InsertPhotos(ctx context.Context, reviewID int64, urls []string) ([]Photo, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		INSERT INTO review_photos (review_id, url, sort_index)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	out := make([]Photo, 0, len(urls))
	for i, url := range urls {
		p := Photo{ReviewID: reviewID, URL: url, SortIndex: i}
		if err := r.db.QueryRow(ctx, q, reviewID, url, i).Scan(&p.ID, &p.CreatedAt); err != nil {
			return out, fmt.Errorf("insert review photo %d: %w", i, err)
		}
		out = append(out, p)
	}

	return out, nil
}

func (r *Repository) PhotosByReviewIDs(ctx context.Context, reviewIDs []int64) (map[int64][]Photo, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	out := make(map[int64][]Photo, len(reviewIDs))
	if len(reviewIDs) == 0 {
		return out, nil
	}

	const q = `
		SELECT id, review_id, url, sort_index, created_at
		FROM review_photos
		WHERE review_id = ANY($1)
		ORDER BY review_id, sort_index
	`

	rows, err := r.db.Query(ctx, q, reviewIDs)
	if err != nil {
		return nil, fmt.Errorf("photos by review ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p Photo
		if err := rows.Scan(&p.ID, &p.ReviewID, &p.URL, &p.SortIndex, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review photos: %w", err)
		}
		out[p.ReviewID] = append(out[p.ReviewID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows review photos: %w", err)
	}

	return out, nil
}

// SetHidden hides a review unconditionally; hiding is this system's
// deletion-equivalent, the row itself stays.
func (r *Repository) SetHidden(ctx context.Context, reviewID, adminID int64, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		UPDATE reviews
		SET is_hidden = true,
		    hidden_reason = $1,
		    hidden_at = NOW(),
		    hidden_by = $2,
		    updated_at = NOW()
		WHERE id = $3
	`
	ct, err := r.db.Exec(ctx, q, reason, adminID, reviewID)
	if err != nil {
		return fmt.Errorf("hide review: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ClearHidden(ctx context.Context, reviewID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		UPDATE reviews
		SET is_hidden = false,
		    hidden_reason = NULL,
		    hidden_at = NULL,
		    hidden_by = NULL,
		    updated_at = NOW()
		WHERE id = $1
	`
	ct, err := r.db.Exec(ctx, q, reviewID)
	if err != nil {
		return fmt.Errorf("unhide review: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearReported takes a review out of the moderation queue. Report rows and
// report_count stay behind as audit trail.
func (r *Repository) ClearReported(ctx context.Context, reviewID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		UPDATE reviews
		SET is_reported = false,
		    updated_at = NOW()
		WHERE id = $1
	`
	ct, err := r.db.Exec(ctx, q, reviewID)
	if err != nil {
		return fmt.Errorf("dismiss review reports: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetOwnerResponse overwrites any previous response; no history is kept.
func (r *Repository) SetOwnerResponse(ctx context.Context, reviewID int64, response string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		UPDATE reviews
		SET owner_response = $1,
		    owner_response_at = NOW(),
		    updated_at = NOW()
		WHERE id = $2
	`
	ct, err := r.db.Exec(ctx, q, response, reviewID)
	if err != nil {
		return fmt.Errorf("set owner response: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListReported surfaces the worst offenders first for the moderation queue.
func (r *Repository) ListReported(ctx context.Context, page, limit int) ([]Review, int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	var total int
	const countQ = `SELECT COUNT(*) FROM reviews WHERE is_reported = true AND is_hidden = false`
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reported reviews: %w", err)
	}

	q := fmt.Sprintf(`
		SELECT %s
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.is_reported = true AND r.is_hidden = false
		ORDER BY r.report_count DESC, r.created_at DESC
		LIMIT $1 OFFSET $2
	`, reviewColumns)

	rows, err := r.db.Query(ctx, q, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list reported reviews: %w", err)
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var rv Review
		if err := scanReview(rows, &rv); err != nil {
			return nil, 0, fmt.Errorf("scan reported reviews: %w", err)
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows reported reviews: %w", err)
	}

	return out, total, nil
}
