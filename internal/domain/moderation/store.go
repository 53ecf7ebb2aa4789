package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) InsertReport(ctx context.Context, report *Report) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	// A trigger on review_reports bumps reviews.report_count and flips
	// is_reported; this code never recomputes those counters itself. The
	// unique index on (review_id, user_id) backstops the duplicate check.
	const q = `
		INSERT INTO review_reports (review_id, user_id, reason, details)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, q,
		report.ReviewID,
		report.UserID,
		report.Reason,
		report.Details,
	).Scan(&report.ID, &report.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyReported
		}
		return fmt.Errorf("insert report: %w", err)
	}

	return nil
}

func (r *Repository) HasReport(ctx context.Context, reviewID, userID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		SELECT EXISTS (
		  SELECT 1 FROM review_reports
		  WHERE review_id = $1 AND user_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, q, reviewID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("has report: %w", err)
	}
	return exists, nil
}

func (r *Repository) InsertLog(ctx context.Context, entry *Log) error {
	if entry.AdminID == 0 || entry.ActionType == "" || entry.EntityType == "" || entry.EntityID == 0 {
		return ErrIncompleteLog
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		INSERT INTO moderation_logs (admin_id, action_type, entity_type, entity_id, reason, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, q,
		entry.AdminID,
		entry.ActionType,
		entry.EntityType,
		entry.EntityID,
		entry.Reason,
		entry.Metadata,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("insert moderation log: %w", err)
	}

	return nil
}

func (r *Repository) ListLogs(ctx context.Context, filter LogFilter) ([]Log, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}

	where := []string{"1=1"}
	args := []interface{}{}
	arg := 1

	if filter.AdminID != nil {
		where = append(where, fmt.Sprintf("admin_id = $%d", arg))
		args = append(args, *filter.AdminID)
		arg++
	}
	if filter.ActionType != nil {
		where = append(where, fmt.Sprintf("action_type = $%d", arg))
		args = append(args, *filter.ActionType)
		arg++
	}
	if filter.EntityType != nil {
		where = append(where, fmt.Sprintf("entity_type = $%d", arg))
		args = append(args, *filter.EntityType)
		arg++
	}
	if filter.EntityID != nil {
		where = append(where, fmt.Sprintf("entity_id = $%d", arg))
		args = append(args, *filter.EntityID)
		arg++
	}
	if filter.From != nil {
		where = append(where, fmt.Sprintf("created_at >= $%d", arg))
		args = append(args, *filter.From)
		arg++
	}
	if filter.To != nil {
		where = append(where, fmt.Sprintf("created_at <= $%d", arg))
		args = append(args, *filter.To)
		arg++
	}

	limitPos := arg
	offsetPos := arg + 1
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	q := fmt.Sprintf(`
		SELECT id, admin_id, action_type, entity_type, entity_id, reason, metadata, created_at
		FROM moderation_logs
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, strings.Join(where, " AND "), limitPos, offsetPos)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list moderation logs: %w", err)
	}
	defer rows.Close()

	var out []Log
	for rows.Next() {
		var l Log
		if err := rows.Scan(
			&l.ID,
			&l.AdminID,
			&l.ActionType,
			&l.EntityType,
			&l.EntityID,
			&l.Reason,
			&l.Metadata,
			&l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan moderation logs: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows moderation logs: %w", err)
	}

	return out, nil
}
