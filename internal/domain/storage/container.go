package storage

import (
	"campsite/internal/domain/campsites"
	"campsite/internal/domain/moderation"
	"campsite/internal/domain/pushtokens"
	"campsite/internal/domain/reviews"
	"campsite/internal/domain/users"
	"campsite/internal/domain/votes"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Container struct {
	Users      users.Store
	Campsites  campsites.Store
	Reviews    reviews.Store
	Votes      votes.Store
	Moderation moderation.Store
	PushTokens pushtokens.Store
}

func NewContainer(db *pgxpool.Pool) *Container {
	return &Container{
		Users:      users.NewRepository(db),
		Campsites:  campsites.NewRepository(db),
		Reviews:    reviews.NewRepository(db),
		Votes:      votes.NewRepository(db),
		Moderation: moderation.NewRepository(db),
		PushTokens: pushtokens.NewRepository(db),
	}
}
