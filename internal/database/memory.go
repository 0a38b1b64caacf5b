// internal/database/memory.go
package database

import (
	"context"
	"encoding/json"
	"sync"

	"flood-watch/internal/forum"
	"flood-watch/internal/models"
	"flood-watch/internal/utils"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used in tests and when the server runs
// without an external database. Snapshots are deep-copied through JSON so
// callers never share state with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	posts []byte
	tags  []string
	users map[uuid.UUID]*models.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[uuid.UUID]*models.User)}
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) LoadPosts(ctx context.Context) ([]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.posts == nil {
		return nil, nil
	}
	var posts []*models.Post
	if err := json.Unmarshal(s.posts, &posts); err != nil {
		return nil, err
	}
	for _, post := range posts {
		if post.VoteLedger == nil {
			post.VoteLedger = models.VoteLedger{}
		}
		for _, answer := range post.Answers {
			if answer.VoteLedger == nil {
				answer.VoteLedger = models.VoteLedger{}
			}
		}
		forum.RecomputeDerived(post)
	}
	return posts, nil
}

func (s *MemoryStore) ReplacePosts(ctx context.Context, posts []*models.Post) error {
	raw, err := json.Marshal(posts)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = raw
	return nil
}

func (s *MemoryStore) LoadKnownTags(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out, nil
}

func (s *MemoryStore) SaveKnownTags(ctx context.Context, tags []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tags = make([]string, len(tags))
	copy(s.tags, tags)
	return nil
}

func (s *MemoryStore) SaveUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, utils.NewUserNotFoundError(id.String())
	}
	copied := *user
	return &copied, nil
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, utils.NewUserNotFoundError(username)
}

func (s *MemoryStore) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.User, 0, len(s.users))
	for _, user := range s.users {
		copied := *user
		users = append(users, &copied)
	}
	return users, nil
}
