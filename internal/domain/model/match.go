package model

import "time"

// Match is stored once per pair with the user ids lexicographically
// normalized so that {A,B} and {B,A} resolve to the same row.
type Match struct {
	ID            string     `json:"id"`
	UserAID       string     `json:"user_a_id"`
	UserBID       string     `json:"user_b_id"`
	CreatedAt     time.Time  `json:"created_at"`
	LastMessage   string     `json:"last_message,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}

// NormalizePair orders a user pair the way match rows are keyed.
func NormalizePair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}
