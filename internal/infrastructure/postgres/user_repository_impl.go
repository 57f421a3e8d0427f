package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guardline/backend/internal/domain/entity"
	"github.com/guardline/backend/internal/domain/repository"
)

const userColumns = `id, email, phone, name, password_hash, status, role,
	identity_doc_url, selfie_url, avatar_url, chat_uid,
	reset_secret, reset_expires_at, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var resetSecret *string
	if err := row.Scan(&u.ID, &u.Email, &u.Phone, &u.Name, &u.PasswordHash,
		&u.Status, &u.Role, &u.IdentityDocURL, &u.SelfieURL, &u.AvatarURL,
		&u.ChatUID, &resetSecret, &u.ResetExpiresAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if resetSecret != nil {
		u.ResetSecret = *resetSecret
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, phone, name, password_hash, status, role,
			identity_doc_url, selfie_url, chat_uid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`, u.ID, u.Email, u.Phone, u.Name, u.PasswordHash, u.Status, u.Role,
		u.IdentityDocURL, u.SelfieURL, u.ChatUID)

	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetStatus(ctx context.Context, id, status string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET status = $1, updated_at = now() WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET avatar_url = $1, updated_at = now() WHERE id = $2
	`, avatarURL, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// IssueResetSecret only writes when no unexpired secret exists, so repeated
// requests inside the window fail without extending it.
func (r *UserRepository) IssueResetSecret(ctx context.Context, id, secret string, expiresAt time.Time) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET reset_secret = $1, reset_expires_at = $2, updated_at = now()
		WHERE id = $3
		  AND (reset_secret IS NULL OR reset_expires_at <= now())
	`, secret, expiresAt, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (r *UserRepository) ClearResetSecret(ctx context.Context, id, secret string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET reset_secret = NULL, reset_expires_at = NULL, updated_at = now()
		WHERE id = $1 AND reset_secret = $2
	`, id, secret)
	return err
}

// ConsumeResetByToken is the single conditional update the reset completion
// relies on: match + expiry check + password rewrite + secret clear in one
// statement, so two concurrent completions cannot both succeed.
func (r *UserRepository) ConsumeResetByToken(ctx context.Context, token, newHash string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, reset_secret = NULL, reset_expires_at = NULL, updated_at = now()
		WHERE reset_secret = $2 AND reset_expires_at > now()
	`, newHash, token)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (r *UserRepository) ConsumeResetByEmail(ctx context.Context, email, code, newHash string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, reset_secret = NULL, reset_expires_at = NULL, updated_at = now()
		WHERE email = $2 AND reset_secret = $3 AND reset_expires_at > now()
	`, newHash, email, code)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
