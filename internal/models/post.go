package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a community question together with its answers and vote state.
// The JSON field names match the dashboard's wire shape.
type Post struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	AuthorID       string     `json:"authorId"`
	AuthorUsername string     `json:"author"`
	AuthorAvatar   string     `json:"authorAvatar,omitempty"`
	CommunityTags  []string   `json:"tags"`
	ModerationTags []string   `json:"adminTags"`
	Score          int        `json:"votes"`
	VoteLedger     VoteLedger `json:"userVotes"`
	Answers        []*Answer  `json:"answers"`
	CreatedAt      time.Time  `json:"createdAt"`

	// Derived from ModerationTags and Answers; recomputed at the end of
	// every mutating command, never set independently.
	IsAnswered        bool `json:"isAnswered"`
	HasOfficialAnswer bool `json:"hasAdminAnswer"`
}

// Answer is a reply to a post. Content and IsOfficial are immutable after
// creation; only the vote state and the accepted flag change afterwards.
type Answer struct {
	ID             uuid.UUID  `json:"id"`
	PostID         uuid.UUID  `json:"postId"`
	Content        string     `json:"content"`
	AuthorID       string     `json:"authorId"`
	AuthorUsername string     `json:"author"`
	AuthorAvatar   string     `json:"authorAvatar,omitempty"`
	IsOfficial     bool       `json:"isAdmin"`
	Score          int        `json:"votes"`
	VoteLedger     VoteLedger `json:"userVotes"`
	CreatedAt      time.Time  `json:"createdAt"`
	Accepted       bool       `json:"isAccepted,omitempty"`
}
