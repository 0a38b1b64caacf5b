package forum

import (
	"testing"

	"flood-watch/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestApplyVoteTransitions(t *testing.T) {
	cases := []struct {
		name        string
		prior       models.VoteLedger
		direction   models.VoteDirection
		wantDelta   int
		wantOutcome VoteOutcome
		wantInNext  bool
	}{
		{"first upvote", models.VoteLedger{}, models.VoteUp, 1, VoteCast, true},
		{"first downvote", models.VoteLedger{}, models.VoteDown, -1, VoteCast, true},
		{"upvote again removes", models.VoteLedger{"u1": models.VoteUp}, models.VoteUp, -1, VoteRemoved, false},
		{"downvote again removes", models.VoteLedger{"u1": models.VoteDown}, models.VoteDown, 1, VoteRemoved, false},
		{"up to down swings by two", models.VoteLedger{"u1": models.VoteUp}, models.VoteDown, -2, VoteSwitched, true},
		{"down to up swings by two", models.VoteLedger{"u1": models.VoteDown}, models.VoteUp, 2, VoteSwitched, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, delta, outcome, err := ApplyVote(tc.prior, "u1", tc.direction)
			if err != nil {
				t.Fatalf("ApplyVote failed: %v", err)
			}

			assert.Equal(t, tc.wantDelta, delta)
			assert.Equal(t, tc.wantOutcome, outcome)

			recorded, present := next["u1"]
			assert.Equal(t, tc.wantInNext, present)
			if tc.wantInNext {
				assert.Equal(t, tc.direction, recorded)
			}
		})
	}
}

func TestApplyVoteDoesNotMutateInput(t *testing.T) {
	prior := models.VoteLedger{"u1": models.VoteUp, "u2": models.VoteDown}

	next, _, _, err := ApplyVote(prior, "u1", models.VoteDown)
	if err != nil {
		t.Fatalf("ApplyVote failed: %v", err)
	}

	assert.Equal(t, models.VoteUp, prior["u1"])
	assert.Equal(t, models.VoteDown, next["u1"])
	assert.Equal(t, models.VoteDown, prior["u2"])
}

func TestApplyVoteValidation(t *testing.T) {
	_, _, _, err := ApplyVote(models.VoteLedger{}, "", models.VoteUp)
	assert.Error(t, err)

	_, _, _, err = ApplyVote(models.VoteLedger{}, "u1", models.VoteDirection("sideways"))
	assert.Error(t, err)
}

// A full toggle cycle must return both the ledger and the accumulated
// delta to their starting state.
func TestApplyVoteToggleRoundTrip(t *testing.T) {
	ledger := models.VoteLedger{}
	total := 0

	for _, direction := range []models.VoteDirection{models.VoteUp, models.VoteUp, models.VoteDown, models.VoteDown} {
		next, delta, _, err := ApplyVote(ledger, "u1", direction)
		if err != nil {
			t.Fatalf("ApplyVote failed: %v", err)
		}
		ledger = next
		total += delta
	}

	assert.Equal(t, 0, total)
	assert.Empty(t, ledger)
}
