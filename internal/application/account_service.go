package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/guardline/backend/internal/domain/entity"
	"github.com/guardline/backend/internal/domain/repository"
	"github.com/guardline/backend/pkg/apperr"
	"github.com/guardline/backend/pkg/helpers"
)

// AccountService owns user creation, the pending/approved gate, and
// credential verification.
type AccountService struct {
	Repo   repository.UserRepository
	JWT    *helpers.JWTManager
	Chat   ChatProvider
	Blobs  BlobUploader
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewAccountService(repo repository.UserRepository, jwt *helpers.JWTManager, chat ChatProvider, blobs BlobUploader, rdb *redis.Client, logger *logrus.Logger) *AccountService {
	return &AccountService{Repo: repo, JWT: jwt, Chat: chat, Blobs: blobs, Redis: rdb, Logger: logger}
}

type Blob struct {
	Bytes       []byte
	ContentType string
	Ext         string
}

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Phone       string
	IdentityDoc Blob
	Selfie      Blob
}

// Register stores a new account in pending state. The identity document and
// selfie are uploaded as opaque blobs; only their references are persisted.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Phone:        in.Phone,
		Name:         in.Name,
		PasswordHash: hash,
		Status:       entity.StatusPending,
		Role:         entity.RoleUser,
	}
	u.ChatUID = u.ID

	if u.IdentityDocURL, err = s.uploadBlob(ctx, u.ID, "identity", in.IdentityDoc); err != nil {
		return nil, fmt.Errorf("%w: identity document upload: %v", apperr.ErrUpstream, err)
	}
	if u.SelfieURL, err = s.uploadBlob(ctx, u.ID, "selfie", in.Selfie); err != nil {
		return nil, fmt.Errorf("%w: selfie upload: %v", apperr.ErrUpstream, err)
	}

	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperr.ErrConflict
		}
		return nil, err
	}

	// Mirror the identity at the chat provider so moderators can reach the
	// reporter once approved. Best effort; login retries the upsert.
	if s.Chat != nil {
		if cerr := s.Chat.Upsert(ctx, u.ChatUID, u.Name, u.Email); cerr != nil {
			s.Logger.WithError(cerr).WithField("user_id", u.ID).Warn("chat identity upsert failed at signup")
		}
	}
	return u, nil
}

type LoginResult struct {
	User         *entity.User
	SessionToken string
	ExpiresAt    time.Time
	ChatToken    string
}

// Authenticate verifies credentials and the approval gate, then issues a one
// hour session token plus a chat session credential. Unknown email and wrong
// password produce the same error. A failed chat upsert degrades gracefully:
// login succeeds with an empty chat token.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, apperr.ErrInvalidCredential
	}
	if !helpers.VerifyPassword(u.PasswordHash, password) {
		return nil, apperr.ErrInvalidCredential
	}
	if !u.Approved() {
		return nil, apperr.ErrPendingApproval
	}

	token, exp, err := s.JWT.GenerateSessionToken(u.ID, u.Role)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("session token generation failed")
		return nil, err
	}

	res := &LoginResult{User: u, SessionToken: token, ExpiresAt: exp}
	if s.Chat != nil {
		if cerr := s.Chat.Upsert(ctx, u.ChatUID, u.Name, u.Email); cerr != nil {
			s.Logger.WithError(cerr).WithField("user_id", u.ID).Warn("chat identity upsert failed at login")
		} else if tok, terr := s.Chat.SessionToken(ctx, u.ChatUID); terr != nil {
			s.Logger.WithError(terr).WithField("user_id", u.ID).Warn("chat session token failed")
		} else {
			res.ChatToken = tok
		}
	}

	if s.Redis != nil {
		key := "user:session:" + u.ID
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":   u.ID,
			"email":     u.Email,
			"name":      u.Name,
			"logged_in": true,
		})
		pipe.Expire(ctx, key, s.JWT.SessionTTL)
		if _, rerr := pipe.Exec(ctx); rerr != nil {
			s.Logger.WithError(rerr).WithField("key", key).Warn("redis session record failed")
		}
	}
	return res, nil
}

// Approve promotes a pending account. Idempotent: approving an approved
// account is a no-op.
func (s *AccountService) Approve(ctx context.Context, userID string) error {
	if err := s.Repo.SetStatus(ctx, userID, entity.StatusApproved); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrNotFound
		}
		return err
	}
	return nil
}

// DeleteAccount removes the local record and hard-deletes the chat identity.
// When the remote delete fails after the local one succeeded, the error is
// surfaced so the caller can report the partial outcome.
func (s *AccountService) DeleteAccount(ctx context.Context, userID string) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrNotFound
		}
		return err
	}
	if err := s.Repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrNotFound
		}
		return err
	}
	if s.Redis != nil {
		if derr := s.Redis.Del(ctx, "user:session:"+userID).Err(); derr != nil {
			s.Logger.WithError(derr).WithField("user_id", userID).Warn("session cleanup failed")
		}
	}
	if s.Chat != nil {
		if cerr := s.Chat.Delete(ctx, u.ChatUID); cerr != nil {
			s.Logger.WithError(cerr).WithField("user_id", userID).Error("chat identity delete failed after local delete")
			return fmt.Errorf("%w: account deleted locally, chat identity removal failed", apperr.ErrUpstream)
		}
	}
	return nil
}

// UpdateAvatar overwrites the avatar reference. Idempotent.
func (s *AccountService) UpdateAvatar(ctx context.Context, userID, avatarRef string) error {
	if err := s.Repo.UpdateAvatar(ctx, userID, avatarRef); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrNotFound
		}
		return err
	}
	return nil
}

// UploadAvatar stores the raw image and then overwrites the reference.
func (s *AccountService) UploadAvatar(ctx context.Context, userID string, b Blob) (string, error) {
	url, err := s.uploadBlob(ctx, userID, "avatar", b)
	if err != nil {
		return "", fmt.Errorf("%w: avatar upload: %v", apperr.ErrUpstream, err)
	}
	if err := s.UpdateAvatar(ctx, userID, url); err != nil {
		return "", err
	}
	return url, nil
}

func (s *AccountService) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *AccountService) uploadBlob(ctx context.Context, userID, kind string, b Blob) (string, error) {
	if s.Blobs == nil || len(b.Bytes) == 0 {
		return "", nil
	}
	ext := b.Ext
	if ext == "" {
		ext = ".bin"
	}
	objectPath := path.Join("users", userID, kind+"-"+uuid.NewString()+ext)
	return s.Blobs.Upload(ctx, objectPath, b.ContentType, bytes.NewReader(b.Bytes))
}
