package forum

import (
	"testing"
	"time"

	"flood-watch/internal/models"
	"flood-watch/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var (
	resident    = models.ActingUser{ID: "resident-1", Username: "sarah_local", IsAdmin: false}
	coordinator = models.ActingUser{ID: "coord-1", Username: "city_coordinator", IsAdmin: true}
)

func TestNewPostNormalizesTags(t *testing.T) {
	post, err := NewPost("Flooded underpass on 3rd", "Is it passable?", []string{"a", "B", "a"}, resident)
	if err != nil {
		t.Fatalf("NewPost failed: %v", err)
	}

	assert.Equal(t, []string{"a", "b"}, post.CommunityTags)
	assert.Empty(t, post.ModerationTags)
	assert.Equal(t, 0, post.Score)
	assert.False(t, post.IsAnswered)
	assert.False(t, post.HasOfficialAnswer)
	assert.NotNil(t, post.VoteLedger)
}

func TestNewPostValidation(t *testing.T) {
	_, err := NewPost("", "content", nil, resident)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	_, err = NewPost("title", "   ", nil, resident)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	_, err = NewPost("title", "content", nil, models.ActingUser{})
	assert.True(t, utils.IsErrorCode(err, utils.ErrUnauthorized))
}

func TestSubmitAnswerCommunity(t *testing.T) {
	post := mustPost(t)

	answer, err := SubmitAnswer(post, "Take Oak Street instead", resident)
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}

	assert.False(t, answer.IsOfficial)
	assert.False(t, post.IsAnswered)
	assert.False(t, post.HasOfficialAnswer)
	assert.NotContains(t, post.ModerationTags, TagAnswered)
}

func TestSubmitAnswerPrivileged(t *testing.T) {
	post := mustPost(t)

	if _, err := SubmitAnswer(post, "First community reply", resident); err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	official, err := SubmitAnswer(post, "Official guidance: avoid the underpass", coordinator)
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}

	assert.True(t, official.IsOfficial)
	assert.True(t, post.IsAnswered)
	assert.True(t, post.HasOfficialAnswer)
	assert.Contains(t, post.ModerationTags, TagAnswered)

	// Stored order: official answers lead regardless of arrival order.
	assert.Equal(t, official.ID, post.Answers[0].ID)

	// A second privileged answer must not duplicate the tag.
	if _, err := SubmitAnswer(post, "Update: underpass reopened", coordinator); err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	count := 0
	for _, tag := range post.ModerationTags {
		if tag == TagAnswered {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestSubmitAnswerStoredOrderNewestFirstWithinGroup(t *testing.T) {
	post := mustPost(t)

	first, _ := SubmitAnswer(post, "older reply", resident)
	first.CreatedAt = time.Now().Add(-time.Hour)
	second, err := SubmitAnswer(post, "newer reply", resident)
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}

	assert.Equal(t, second.ID, post.Answers[0].ID)
	assert.Equal(t, first.ID, post.Answers[1].ID)
}

func TestToggleModerationTag(t *testing.T) {
	post := mustPost(t)

	err := ToggleModerationTag(post, "urgent", resident)
	assert.True(t, utils.IsErrorCode(err, utils.ErrForbidden))

	err = ToggleModerationTag(post, "snorkeling", coordinator)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	if err := ToggleModerationTag(post, "Urgent", coordinator); err != nil {
		t.Fatalf("ToggleModerationTag failed: %v", err)
	}
	assert.Contains(t, post.ModerationTags, "urgent")

	// Toggling again removes it.
	if err := ToggleModerationTag(post, "urgent", coordinator); err != nil {
		t.Fatalf("ToggleModerationTag failed: %v", err)
	}
	assert.NotContains(t, post.ModerationTags, "urgent")
}

func TestToggleAnsweredDrivesIsAnswered(t *testing.T) {
	post := mustPost(t)

	if err := ToggleModerationTag(post, TagAnswered, coordinator); err != nil {
		t.Fatalf("ToggleModerationTag failed: %v", err)
	}
	assert.True(t, post.IsAnswered)

	if err := ToggleModerationTag(post, TagAnswered, coordinator); err != nil {
		t.Fatalf("ToggleModerationTag failed: %v", err)
	}
	assert.False(t, post.IsAnswered)
}

func TestVotePostLifecycle(t *testing.T) {
	post := mustPost(t)

	outcome, err := VotePost(post, "voter-1", models.VoteUp)
	if err != nil {
		t.Fatalf("VotePost failed: %v", err)
	}
	assert.Equal(t, VoteCast, outcome)
	assert.Equal(t, 1, post.Score)

	outcome, err = VotePost(post, "voter-1", models.VoteDown)
	if err != nil {
		t.Fatalf("VotePost failed: %v", err)
	}
	assert.Equal(t, VoteSwitched, outcome)
	assert.Equal(t, -1, post.Score)

	outcome, err = VotePost(post, "voter-1", models.VoteDown)
	if err != nil {
		t.Fatalf("VotePost failed: %v", err)
	}
	assert.Equal(t, VoteRemoved, outcome)
	assert.Equal(t, 0, post.Score)
	assert.Empty(t, post.VoteLedger)
}

func TestVotePostTwoUsersToggleOff(t *testing.T) {
	post := mustPost(t)

	for _, voter := range []string{"voter-1", "voter-2"} {
		if _, err := VotePost(post, voter, models.VoteUp); err != nil {
			t.Fatalf("VotePost failed: %v", err)
		}
	}
	assert.Equal(t, 2, post.Score)

	for _, voter := range []string{"voter-1", "voter-2"} {
		outcome, err := VotePost(post, voter, models.VoteUp)
		if err != nil {
			t.Fatalf("VotePost failed: %v", err)
		}
		assert.Equal(t, VoteRemoved, outcome)
	}
	assert.Equal(t, 0, post.Score)
	assert.Empty(t, post.VoteLedger)
}

func TestVoteAnswer(t *testing.T) {
	post := mustPost(t)
	answer, err := SubmitAnswer(post, "helpful reply", resident)
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}

	outcome, err := VoteAnswer(post, answer.ID, "voter-1", models.VoteUp)
	if err != nil {
		t.Fatalf("VoteAnswer failed: %v", err)
	}
	assert.Equal(t, VoteCast, outcome)
	assert.Equal(t, 1, answer.Score)
	assert.Equal(t, 0, post.Score)

	_, err = VoteAnswer(post, uuid.New(), "voter-1", models.VoteUp)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}

func TestAcceptAnswer(t *testing.T) {
	post := mustPost(t)
	answer, err := SubmitAnswer(post, "candidate answer", coordinator)
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}

	stranger := models.ActingUser{ID: "stranger-1", Username: "passerby"}
	_, err = AcceptAnswer(post, answer.ID, stranger)
	assert.True(t, utils.IsErrorCode(err, utils.ErrForbidden))

	// The question author may accept.
	accepted, err := AcceptAnswer(post, answer.ID, resident)
	if err != nil {
		t.Fatalf("AcceptAnswer failed: %v", err)
	}
	assert.True(t, accepted)

	// Accepting again toggles off; a coordinator may do it too.
	accepted, err = AcceptAnswer(post, answer.ID, coordinator)
	if err != nil {
		t.Fatalf("AcceptAnswer failed: %v", err)
	}
	assert.False(t, accepted)

	_, err = AcceptAnswer(post, uuid.New(), coordinator)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}

func mustPost(t *testing.T) *models.Post {
	t.Helper()
	post, err := NewPost("Is the 3rd street underpass flooded?", "Commuting at 7am, need to know", []string{"routes"}, resident)
	if err != nil {
		t.Fatalf("NewPost failed: %v", err)
	}
	return post
}
