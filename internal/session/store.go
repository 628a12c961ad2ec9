// internal/session/store.go

// Package session persists conversation state between turns. The engine owns
// all mutation; stores only serialize whole sessions.
package session

import (
	"context"
	"errors"

	"lease-concierge/internal/models"
)

// ErrNotFound is returned when no session exists for an ID.
var ErrNotFound = errors.New("session not found")

// Store loads and saves complete sessions.
type Store interface {
	Load(ctx context.Context, sessionID string) (*models.Session, error)
	Save(ctx context.Context, sess *models.Session) error
	Delete(ctx context.Context, sessionID string) error
}
