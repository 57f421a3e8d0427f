package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/guardline/backend/internal/domain/repository"
	"github.com/guardline/backend/pkg/apperr"
	"github.com/guardline/backend/pkg/helpers"
	"github.com/guardline/backend/pkg/mailer"
	tpl "github.com/guardline/backend/pkg/mailer/templates"
)

// Scheme parameterizes the recovery secret: how it is generated, how long it
// lives, and which template delivers it. The token scheme travels as a deep
// link, the code scheme as a 6-digit number in the message body.
type Scheme struct {
	Name     string
	TTL      time.Duration
	Template string
	Generate func() (string, error)
}

func TokenScheme() Scheme {
	return Scheme{
		Name:     "token",
		TTL:      time.Hour,
		Template: mailer.TemplateResetLink,
		Generate: helpers.GenResetToken,
	}
}

func CodeScheme() Scheme {
	return Scheme{
		Name:     "code",
		TTL:      10 * time.Minute,
		Template: mailer.TemplateResetCode,
		Generate: helpers.GenResetCode,
	}
}

// RecoveryService issues, validates, and consumes password reset secrets.
type RecoveryService struct {
	Repo   repository.UserRepository
	Mail   MailDispatcher
	Logger *logrus.Logger

	AppName      string
	ResetURLBase string // deep-link base for the token scheme
	SupportURL   string
}

func NewRecoveryService(repo repository.UserRepository, mail MailDispatcher, logger *logrus.Logger, appName, resetURLBase, supportURL string) *RecoveryService {
	return &RecoveryService{
		Repo:         repo,
		Mail:         mail,
		Logger:       logger,
		AppName:      appName,
		ResetURLBase: resetURLBase,
		SupportURL:   supportURL,
	}
}

// Request issues a new recovery secret for the account behind email and
// dispatches it. While an unexpired secret exists the request is rejected
// without extending the current window. When dispatch fails the freshly
// persisted secret is rolled back so a retry is not rate-limited by a secret
// that never reached the user.
func (s *RecoveryService) Request(ctx context.Context, email string, scheme Scheme) error {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		if err == nil || errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrNotFound
		}
		return err
	}

	secret, err := scheme.Generate()
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(scheme.TTL)

	issued, err := s.Repo.IssueResetSecret(ctx, u.ID, secret, expiresAt)
	if err != nil {
		return err
	}
	if !issued {
		return apperr.ErrRateLimited
	}

	job := mailer.EmailJob{
		To:       u.Email,
		Template: scheme.Template,
		Data: tpl.ToMap(tpl.EmailData{
			Name:       u.Name,
			AppName:    s.AppName,
			ResetURL:   s.resetURL(scheme, secret),
			Code:       s.codeFor(scheme, secret),
			ExpiresAt:  expiresAt,
			SupportURL: s.SupportURL,
		}),
	}
	if err := s.Mail.Dispatch(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("reset email dispatch failed, rolling back secret")
		if cerr := s.Repo.ClearResetSecret(ctx, u.ID, secret); cerr != nil {
			s.Logger.WithError(cerr).WithField("user_id", u.ID).Error("reset secret rollback failed")
		}
		return fmt.Errorf("%w: reset email dispatch failed", apperr.ErrUpstream)
	}
	return nil
}

// CompleteByToken consumes a deep-link token. The repository performs the
// match, expiry check, password rewrite, and secret clear as one conditional
// update; any miss collapses into the same error so the response does not
// reveal which condition failed.
func (s *RecoveryService) CompleteByToken(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return apperr.ErrInvalidOrExpired
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	ok, err := s.Repo.ConsumeResetByToken(ctx, token, hash)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrInvalidOrExpired
	}
	return nil
}

// CompleteByCode consumes a 6-digit code addressed by email.
func (s *RecoveryService) CompleteByCode(ctx context.Context, email, code, newPassword string) error {
	if email == "" || code == "" {
		return apperr.ErrInvalidOrExpired
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	ok, err := s.Repo.ConsumeResetByEmail(ctx, email, code, hash)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrInvalidOrExpired
	}
	return nil
}

func (s *RecoveryService) resetURL(scheme Scheme, secret string) string {
	if scheme.Template != mailer.TemplateResetLink {
		return ""
	}
	return s.ResetURLBase + "/" + secret
}

func (s *RecoveryService) codeFor(scheme Scheme, secret string) string {
	if scheme.Template != mailer.TemplateResetCode {
		return ""
	}
	return secret
}
