package pushtokens

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var QueryTimeoutDuration = time.Second * 5

type Store interface {
	AddOrUpdatePushToken(ctx context.Context, userID int64, token string, deviceInfo json.RawMessage) error
	RemovePushToken(ctx context.Context, userID int64, token string) error
	GetTokensByUserIDs(ctx context.Context, userIDs []int64) (map[int64][]string, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

// AddOrUpdatePushToken upserts token + device info, updates last_updated
func (r *Repository) AddOrUpdatePushToken(ctx context.Context, userID int64, token string, deviceInfo json.RawMessage) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `
	INSERT INTO user_push_tokens (user_id, expo_push_token, device_info, last_updated)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (user_id, expo_push_token)
	DO UPDATE SET device_info = EXCLUDED.device_info, last_updated = NOW();
	`

	_, err := r.db.Exec(ctx, q, userID, token, deviceInfo)
	return err
}

// RemovePushToken deletes a token for a user
func (r *Repository) RemovePushToken(ctx context.Context, userID int64, token string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `DELETE FROM user_push_tokens WHERE user_id = $1 AND expo_push_token = $2`
	_, err := r.db.Exec(ctx, q, userID, token)
	return err
}

func (r *Repository) GetTokensByUserIDs(ctx context.Context, userIDs []int64) (map[int64][]string, error) {
	out := make(map[int64][]string, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	const q = `SELECT user_id, expo_push_token FROM user_push_tokens WHERE user_id = ANY($1)`

	rows, err := r.db.Query(ctx, q, userIDs)
	if err != nil {
		return nil, fmt.Errorf("get push tokens: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		var token string
		if err := rows.Scan(&userID, &token); err != nil {
			return nil, fmt.Errorf("scan push tokens: %w", err)
		}
		out[userID] = append(out[userID], token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows push tokens: %w", err)
	}

	return out, nil
}
