package domain

import "time"

type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	IsOnline     bool       `json:"is_online"`
	LastSeen     *time.Time `json:"last_seen,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// DisplayName is what other users see next to a message preview.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// UserSummary is a contact-list row: another user plus how many of their
// messages the current user has not read yet.
type UserSummary struct {
	User        *User `json:"user"`
	UnreadCount int64 `json:"unread_count"`
}
