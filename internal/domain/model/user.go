package model

import (
	"time"
)

// User is an identity record. The username is the sole identifier; there
// is no separate numeric ID, and the record is immutable after sign-up.
type User struct {
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"` // Not exposed
	CreatedAt      time.Time `json:"created_at"`
}
