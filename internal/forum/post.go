package forum

import (
	"sort"
	"strings"
	"time"

	"flood-watch/internal/models"
	"flood-watch/internal/utils"

	"github.com/google/uuid"
)

// NewPost validates and creates a question. Community tags are normalized
// and deduplicated; moderation tags always start empty.
func NewPost(title, content string, tags []string, author models.ActingUser) (*models.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	if author.ID == "" {
		return nil, utils.NewUnauthorizedError("posting requires an authenticated user")
	}
	if title == "" {
		return nil, utils.NewValidationError("title is required")
	}
	if content == "" {
		return nil, utils.NewValidationError("content is required")
	}

	post := &models.Post{
		ID:             uuid.New(),
		Title:          title,
		Content:        content,
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
		AuthorAvatar:   author.Avatar,
		CommunityTags:  NormalizeCommunityTags(tags),
		ModerationTags: []string{},
		VoteLedger:     models.VoteLedger{},
		Answers:        []*models.Answer{},
		CreatedAt:      time.Now(),
	}
	RecomputeDerived(post)
	return post, nil
}

// SubmitAnswer appends a new answer, capturing the author's privilege at
// this instant. A privileged answer additionally attaches the "answered"
// moderation tag (idempotent). The stored answer order is then rebuilt:
// official answers first, newest first within each group.
func SubmitAnswer(post *models.Post, content string, author models.ActingUser) (*models.Answer, error) {
	content = strings.TrimSpace(content)

	if author.ID == "" {
		return nil, utils.NewUnauthorizedError("answering requires an authenticated user")
	}
	if content == "" {
		return nil, utils.NewValidationError("answer content is required")
	}

	answer := &models.Answer{
		ID:             uuid.New(),
		PostID:         post.ID,
		Content:        content,
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
		AuthorAvatar:   author.Avatar,
		IsOfficial:     author.IsAdmin,
		VoteLedger:     models.VoteLedger{},
		CreatedAt:      time.Now(),
	}

	post.Answers = append(post.Answers, answer)
	if author.IsAdmin && !hasTag(post.ModerationTags, TagAnswered) {
		post.ModerationTags = append(post.ModerationTags, TagAnswered)
	}
	sortAnswersForStorage(post.Answers)

	RecomputeDerived(post)
	return answer, nil
}

// sortAnswersForStorage enforces the stored-order invariant: official
// answers before community answers, most recent first within each group.
// Display uses a different tie-break, see DisplayOrder.
func sortAnswersForStorage(answers []*models.Answer) {
	sort.SliceStable(answers, func(i, j int) bool {
		if answers[i].IsOfficial != answers[j].IsOfficial {
			return answers[i].IsOfficial
		}
		return answers[i].CreatedAt.After(answers[j].CreatedAt)
	})
}

// ToggleModerationTag flips membership of tag in the post's moderation tag
// set. Only privileged users may call this, and only tags from the fixed
// moderation vocabulary are accepted.
func ToggleModerationTag(post *models.Post, tag string, actor models.ActingUser) error {
	if !actor.IsAdmin {
		return utils.NewForbiddenError("only emergency coordinators can set moderation tags")
	}
	tag = NormalizeTag(tag)
	if tag == "" {
		return utils.NewValidationError("tag is required")
	}
	if !IsModerationTag(tag) {
		return utils.NewValidationError("not a moderation tag: " + tag)
	}

	if hasTag(post.ModerationTags, tag) {
		out := make([]string, 0, len(post.ModerationTags)-1)
		for _, existing := range post.ModerationTags {
			if existing != tag {
				out = append(out, existing)
			}
		}
		post.ModerationTags = out
	} else {
		post.ModerationTags = append(post.ModerationTags, tag)
	}

	RecomputeDerived(post)
	return nil
}

// VotePost applies a vote to the post itself.
func VotePost(post *models.Post, userID string, direction models.VoteDirection) (VoteOutcome, error) {
	ledger, delta, outcome, err := ApplyVote(post.VoteLedger, userID, direction)
	if err != nil {
		return "", err
	}
	post.VoteLedger = ledger
	post.Score += delta

	RecomputeDerived(post)
	return outcome, nil
}

// VoteAnswer applies a vote to one of the post's answers.
func VoteAnswer(post *models.Post, answerID uuid.UUID, userID string, direction models.VoteDirection) (VoteOutcome, error) {
	answer := findAnswer(post, answerID)
	if answer == nil {
		return "", utils.NewNotFoundError("answer not found")
	}

	ledger, delta, outcome, err := ApplyVote(answer.VoteLedger, userID, direction)
	if err != nil {
		return "", err
	}
	answer.VoteLedger = ledger
	answer.Score += delta

	RecomputeDerived(post)
	return outcome, nil
}

// AcceptAnswer toggles the accepted flag on an answer. Allowed for
// privileged users and for the question's author. Returns the new flag
// value. Independent of moderation tags.
func AcceptAnswer(post *models.Post, answerID uuid.UUID, actor models.ActingUser) (bool, error) {
	if !actor.IsAdmin && actor.ID != post.AuthorID {
		return false, utils.NewForbiddenError("only the question author or a coordinator can accept an answer")
	}

	answer := findAnswer(post, answerID)
	if answer == nil {
		return false, utils.NewNotFoundError("answer not found")
	}

	answer.Accepted = !answer.Accepted

	RecomputeDerived(post)
	return answer.Accepted, nil
}

// RecomputeDerived overwrites the denormalized status fields from their
// sources. Every mutating command calls this as its final step; nothing
// else may set these fields.
func RecomputeDerived(post *models.Post) {
	post.IsAnswered = hasTag(post.ModerationTags, TagAnswered)

	post.HasOfficialAnswer = false
	for _, answer := range post.Answers {
		if answer.IsOfficial {
			post.HasOfficialAnswer = true
			break
		}
	}
}

func findAnswer(post *models.Post, answerID uuid.UUID) *models.Answer {
	for _, answer := range post.Answers {
		if answer.ID == answerID {
			return answer
		}
	}
	return nil
}

func hasTag(tags []string, tag string) bool {
	for _, existing := range tags {
		if existing == tag {
			return true
		}
	}
	return false
}
