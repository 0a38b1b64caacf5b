package models

// VoteDirection represents the direction of a vote.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Valid reports whether the direction is one of the two accepted values.
func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}

// VoteTargetType represents the kind of content being voted on.
type VoteTargetType string

const (
	PostVote   VoteTargetType = "post"
	AnswerVote VoteTargetType = "answer"
)

// VoteLedger maps a user ID to the direction of that user's current vote.
// At most one entry per user; absence means no vote cast.
type VoteLedger map[string]VoteDirection

// Clone returns an independent copy of the ledger.
func (l VoteLedger) Clone() VoteLedger {
	out := make(VoteLedger, len(l))
	for userID, direction := range l {
		out[userID] = direction
	}
	return out
}
