package database

import (
	"context"

	"flood-watch/internal/models"

	"github.com/google/uuid"
)

// Store is the persistence boundary of the board. Posts use whole-collection
// snapshot semantics: every mutation replaces the entire collection, there
// are no row-level updates. The known-tag registry is a single advisory
// document, and user records back the identity provider.
type Store interface {
	Close(ctx context.Context) error

	// Snapshot store for the post collection.
	LoadPosts(ctx context.Context) ([]*models.Post, error)
	ReplacePosts(ctx context.Context, posts []*models.Post) error

	// Known-tag registry, used to populate filter menus.
	LoadKnownTags(ctx context.Context) ([]string, error)
	SaveKnownTags(ctx context.Context, tags []string) error

	// Identity provider records.
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
}
