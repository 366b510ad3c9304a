package cache

import (
	"context"
	"errors"

	"MuzBot/model"
)

// ErrCacheMiss is returned when a token has no cached descriptor.
var ErrCacheMiss = errors.New("cache: token not found")

// TrackCache maps opaque result tokens to catalog track descriptors.
// Entries are replaceable snapshots: Put overwrites any prior entry for the
// same token, and concurrent writers race last-write-wins.
type TrackCache interface {
	// Put stores or overwrites the descriptor for token.
	Put(ctx context.Context, token string, track *model.CatalogTrack) error
	// Get resolves a token. Returns ErrCacheMiss if the token is unknown
	// or its entry expired.
	Get(ctx context.Context, token string) (*model.CatalogTrack, error)
}

// QueryRegistry stores search query text server-side under a short opaque
// key, so callback payloads never carry free text that could collide with
// the payload field separator.
type QueryRegistry interface {
	// Register stores the query and returns its key.
	Register(ctx context.Context, query string) (string, error)
	// Lookup resolves a key back to the query text. Returns ErrCacheMiss
	// for unknown or expired keys.
	Lookup(ctx context.Context, key string) (string, error)
}
