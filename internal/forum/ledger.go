package forum

import (
	"flood-watch/internal/models"
	"flood-watch/internal/utils"
)

// VoteOutcome describes what a vote command actually did to the ledger.
// A removal is a legitimate toggle-off, not a failure, so callers can
// tell it apart from an error.
type VoteOutcome string

const (
	VoteCast     VoteOutcome = "cast"     // no prior vote, new entry recorded
	VoteSwitched VoteOutcome = "switched" // prior vote in the other direction replaced
	VoteRemoved  VoteOutcome = "removed"  // same direction again, toggle-off
)

// ApplyVote applies a single vote command to a ledger and returns the
// updated ledger, the delta to add to the owning entity's score, and the
// outcome. The input ledger is never modified.
//
// This is the only place vote arithmetic lives. Post.Score and Answer.Score
// are maintained incrementally by adding the returned delta, never by
// summing the ledger.
func ApplyVote(ledger models.VoteLedger, userID string, direction models.VoteDirection) (models.VoteLedger, int, VoteOutcome, error) {
	if userID == "" {
		return nil, 0, "", utils.NewValidationError("voter ID is required")
	}
	if !direction.Valid() {
		return nil, 0, "", utils.NewValidationError("vote direction must be up or down")
	}

	next := ledger.Clone()
	previous, hasVoted := next[userID]

	switch {
	case !hasVoted:
		next[userID] = direction
		if direction == models.VoteUp {
			return next, 1, VoteCast, nil
		}
		return next, -1, VoteCast, nil

	case previous == direction:
		// Voting the same direction again removes the vote.
		delete(next, userID)
		if direction == models.VoteUp {
			return next, -1, VoteRemoved, nil
		}
		return next, 1, VoteRemoved, nil

	default:
		next[userID] = direction
		if direction == models.VoteUp {
			return next, 2, VoteSwitched, nil
		}
		return next, -2, VoteSwitched, nil
	}
}
