package campsites

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, c *Campsite) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		INSERT INTO campsites (owner_id, name, address, description, amenities, image_urls)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, status, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, q,
		c.OwnerID,
		c.Name,
		c.Address,
		c.Description,
		c.Amenities,
		c.ImageURLs,
	).Scan(&c.ID, &c.Status, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create campsite: %w", err)
	}

	return nil
}

func (r *Repository) GetByID(ctx context.Context, campsiteID int64) (*Campsite, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		SELECT
			id, owner_id, name, address, description, amenities, image_urls,
			status, admin_note,
			approved_at, approved_by, rejected_at, rejected_by,
			created_at, updated_at
		FROM campsites
		WHERE id = $1
	`

	var c Campsite
	err := r.db.QueryRow(ctx, q, campsiteID).Scan(
		&c.ID,
		&c.OwnerID,
		&c.Name,
		&c.Address,
		&c.Description,
		&c.Amenities,
		&c.ImageURLs,
		&c.Status,
		&c.AdminNote,
		&c.ApprovedAt,
		&c.ApprovedBy,
		&c.RejectedAt,
		&c.RejectedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get campsite: %w", err)
	}

	return &c, nil
}

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Campsite, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 60 {
		filter.Limit = 20
	}

	where := []string{"1=1"}
	args := []interface{}{}
	arg := 1

	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", arg))
		args = append(args, string(*filter.Status))
		arg++
	}

	limitPos := arg
	offsetPos := arg + 1
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	q := fmt.Sprintf(`
		SELECT
			id, owner_id, name, address, description, amenities, image_urls,
			status, admin_note, created_at, updated_at
		FROM campsites
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, strings.Join(where, " AND "), limitPos, offsetPos)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list campsites: %w", err)
	}
	defer rows.Close()

	var out []Campsite
	for rows.Next() {
		var c Campsite
		if err := rows.Scan(
			&c.ID,
			&c.OwnerID,
			&c.Name,
			&c.Address,
			&c.Description,
			&c.Amenities,
			&c.ImageURLs,
			&c.Status,
			&c.AdminNote,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan campsites: %w", err)
		}
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows campsites: %w", err)
	}

	return out, nil
}

func (r *Repository) MarkApproved(ctx context.Context, campsiteID, approvedBy int64, adminNote *string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		UPDATE campsites
		SET status = 'approved',
		    admin_note = $1,
		    approved_at = NOW(),
		    approved_by = $2,
		    rejected_at = NULL,
		    rejected_by = NULL,
		    updated_at = NOW()
		WHERE id = $3
	`
	ct, err := r.db.Exec(ctx, q, adminNote, approvedBy, campsiteID)
	if err != nil {
		return fmt.Errorf("approve campsite: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) MarkRejected(ctx context.Context, campsiteID, rejectedBy int64, adminNote *string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
		UPDATE campsites
		SET status = 'rejected',
		    admin_note = $1,
		    rejected_at = NOW(),
		    rejected_by = $2,
		    approved_at = NULL,
		    approved_by = NULL,
		    updated_at = NOW()
		WHERE id = $3
	`
	ct, err := r.db.Exec(ctx, q, adminNote, rejectedBy, campsiteID)
	if err != nil {
		return fmt.Errorf("reject campsite: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
