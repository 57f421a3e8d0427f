package entity

import "time"

// Moderation states gating whether a registered account may authenticate.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
)

// User is the aggregate root for the account domain.
// PasswordHash holds a bcrypt digest; the plaintext is never persisted.
// ResetSecret/ResetExpiresAt hold at most one active recovery secret;
// issuing a new one overwrites the prior, consuming one clears both.
type User struct {
	ID             string
	Email          string
	Phone          string
	Name           string
	PasswordHash   string
	Status         string
	Role           string
	IdentityDocURL string
	SelfieURL      string
	AvatarURL      string
	ChatUID        string
	ResetSecret    string
	ResetExpiresAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Approved reports whether the account may obtain a session.
func (u *User) Approved() bool { return u.Status == StatusApproved }
