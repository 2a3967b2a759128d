// Package session holds the authenticated session record and its
// persistence adapters. The whole service tracks a single session, stored
// under one fixed slot key so a restart (or a page reload, on the client
// that mirrors this record) can rehydrate it.
package session

import "time"

// SlotKey is the fixed key the serialized session is stored under.
const SlotKey = "userData"

// Session represents an authenticated user's credentials and validity window.
// A session is either wholly present (all fields populated) or absent;
// partial records are treated as absent by the stores.
type Session struct {
	Email          string    `json:"email"`
	UserID         string    `json:"userId"`
	Token          string    `json:"token"`
	ExpirationDate time.Time `json:"tokenExpirationDate"`
}

// Valid reports whether the session is complete and not yet expired at now.
func (s Session) Valid(now time.Time) bool {
	if s.Email == "" || s.UserID == "" || s.Token == "" || s.ExpirationDate.IsZero() {
		return false
	}
	return s.ExpirationDate.After(now)
}

// Remaining returns the time left until the session expires. Negative when
// already expired.
func (s Session) Remaining(now time.Time) time.Duration {
	return s.ExpirationDate.Sub(now)
}
