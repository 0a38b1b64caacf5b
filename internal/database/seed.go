// internal/database/seed.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"flood-watch/internal/forum"
	"flood-watch/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Default accounts installed on first start. The first three are emergency
// coordinators; "user" is a regular citizen account.
var seedUsers = []struct {
	Username string
	Password string
	IsAdmin  bool
}{
	{"admin", "admin123", true},
	{"sarah", "sarah123", true},
	{"alex", "alex123", true},
	{"user", "user123", false},
}

// EnsureSeedUsers installs the default accounts when the user store is
// empty. Safe to call on every start.
func EnsureSeedUsers(ctx context.Context, store Store) error {
	existing, err := store.GetAllUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing users: %v", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, seed := range seedUsers {
		hashed, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %v", err)
		}
		user := &models.User{
			ID:             uuid.New(),
			Username:       seed.Username,
			HashedPassword: string(hashed),
			IsAdmin:        seed.IsAdmin,
			Avatar:         "/placeholder.svg",
			CreatedAt:      time.Now(),
		}
		if err := store.SaveUser(ctx, user); err != nil {
			return fmt.Errorf("failed to save seed user %s: %v", seed.Username, err)
		}
	}
	log.Printf("Seeded %d default users", len(seedUsers))
	return nil
}

// EnsureSeedPosts installs two sample questions when the post collection is
// empty, so a fresh deployment is not blank. Also seeds the known-tag
// registry with the default topical vocabulary.
func EnsureSeedPosts(ctx context.Context, store Store) error {
	existing, err := store.LoadPosts(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing posts: %v", err)
	}
	if len(existing) > 0 {
		return nil
	}

	tags, err := store.LoadKnownTags(ctx)
	if err != nil {
		return fmt.Errorf("failed to load known tags: %v", err)
	}
	if len(tags) == 0 {
		if err := store.SaveKnownTags(ctx, forum.DefaultCommunityTags); err != nil {
			return fmt.Errorf("failed to seed known tags: %v", err)
		}
	}

	sarah, err := store.GetUserByUsername(ctx, "sarah")
	if err != nil {
		return fmt.Errorf("seed posts require seed users: %v", err)
	}
	citizen, err := store.GetUserByUsername(ctx, "user")
	if err != nil {
		return fmt.Errorf("seed posts require seed users: %v", err)
	}
	admin, err := store.GetUserByUsername(ctx, "admin")
	if err != nil {
		return fmt.Errorf("seed posts require seed users: %v", err)
	}

	now := time.Now()

	routesPost := &models.Post{
		ID:             uuid.New(),
		Title:          "Best evacuation routes from downtown area?",
		Content:        "Looking for the safest and fastest routes to get out of downtown during flood warnings. Any local insights?",
		AuthorID:       sarah.ID.String(),
		AuthorUsername: sarah.Username,
		AuthorAvatar:   sarah.Avatar,
		CommunityTags:  []string{"evacuation", "downtown", "routes"},
		ModerationTags: []string{},
		Score:          15,
		VoteLedger:     models.VoteLedger{},
		CreatedAt:      now.Add(-2 * time.Hour),
	}
	routesPost.Answers = []*models.Answer{{
		ID:             uuid.New(),
		PostID:         routesPost.ID,
		Content:        "I recommend taking Highway 5 north - it's on higher ground and usually stays clear during floods.",
		AuthorID:       citizen.ID.String(),
		AuthorUsername: citizen.Username,
		AuthorAvatar:   citizen.Avatar,
		IsOfficial:     false,
		Score:          8,
		VoteLedger:     models.VoteLedger{},
		CreatedAt:      now.Add(-1 * time.Hour),
	}}

	suppliesPost := &models.Post{
		ID:             uuid.New(),
		Title:          "Emergency supply checklist for families",
		Content:        "What should every family have ready for flood emergencies? Creating a comprehensive list.",
		AuthorID:       citizen.ID.String(),
		AuthorUsername: citizen.Username,
		AuthorAvatar:   citizen.Avatar,
		CommunityTags:  []string{"supplies", "family", "preparation"},
		ModerationTags: []string{"answered", "verified"},
		Score:          23,
		VoteLedger:     models.VoteLedger{},
		CreatedAt:      now.Add(-5 * time.Hour),
	}
	suppliesPost.Answers = []*models.Answer{{
		ID:             uuid.New(),
		PostID:         suppliesPost.ID,
		Content:        "Essential items: 3 days of water (1 gallon per person per day), non-perishable food, flashlights, batteries, first aid kit, medications, important documents in waterproof container, cash, emergency contact list.",
		AuthorID:       admin.ID.String(),
		AuthorUsername: admin.Username,
		AuthorAvatar:   admin.Avatar,
		IsOfficial:     true,
		Score:          15,
		VoteLedger:     models.VoteLedger{},
		CreatedAt:      now.Add(-3 * time.Hour),
		Accepted:       true,
	}}

	posts := []*models.Post{routesPost, suppliesPost}
	for _, post := range posts {
		forum.RecomputeDerived(post)
	}

	if err := store.ReplacePosts(ctx, posts); err != nil {
		return fmt.Errorf("failed to seed posts: %v", err)
	}
	log.Printf("Seeded %d sample posts", len(posts))
	return nil
}
