package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a stored account managed by the identity provider.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	IsAdmin        bool      `json:"isAdmin"`
	Avatar         string    `json:"avatar,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ActingUser is the authenticated identity supplied with each board command.
// The board treats it as already authenticated: a stable opaque ID plus the
// privileged flag, with display fields carried along for attribution.
type ActingUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	IsAdmin  bool   `json:"isAdmin"`
}
