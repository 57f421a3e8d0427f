package repository

import (
	"context"
	"errors"
	"time"

	"github.com/guardline/backend/internal/domain/entity"
)

// Storage-level sentinel errors. The application layer maps these onto the
// public error taxonomy.
var (
	ErrNotFound = errors.New("user not found")
	ErrConflict = errors.New("email or phone already exists")
)

// UserRepository defines persistence for user records. The reset methods are
// conditional single-statement updates so that concurrent issuance and
// consumption cannot both succeed against a stale read.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Delete(ctx context.Context, id string) error

	SetStatus(ctx context.Context, id, status string) error
	UpdateAvatar(ctx context.Context, id, avatarURL string) error

	// IssueResetSecret writes secret+expiry only when no unexpired secret
	// exists. Returns false when an active secret is still pending.
	IssueResetSecret(ctx context.Context, id, secret string, expiresAt time.Time) (bool, error)

	// ClearResetSecret removes the secret only if it is still the given one,
	// so a rollback never clobbers a newer issuance.
	ClearResetSecret(ctx context.Context, id, secret string) error

	// ConsumeResetByToken matches an unexpired secret by the token itself,
	// rewrites the password digest, and clears secret+expiry in one update.
	// Returns false when nothing matched.
	ConsumeResetByToken(ctx context.Context, token, newHash string) (bool, error)

	// ConsumeResetByEmail is the code-scheme variant: the row is located by
	// email and the supplied code must exactly match the stored secret.
	ConsumeResetByEmail(ctx context.Context, email, code, newHash string) (bool, error)
}
