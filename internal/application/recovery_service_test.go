package application

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardline/backend/pkg/apperr"
	"github.com/guardline/backend/pkg/helpers"
	"github.com/guardline/backend/pkg/mailer"
)

func newRecoveryService(repo *fakeUserRepo, mail *fakeDispatcher) *RecoveryService {
	return NewRecoveryService(repo, mail, quietLogger(), "Guardline", "https://app.guardline.id/reset", "https://guardline.id/support")
}

func seedApprovedUser(t *testing.T, repo *fakeUserRepo, email string) string {
	t.Helper()
	acc := newAccountService(repo, &fakeChat{})
	u, err := acc.Register(context.Background(), registerInput(email))
	require.NoError(t, err)
	require.NoError(t, acc.Approve(context.Background(), u.ID))
	return u.ID
}

func TestRequestTokenSchemeDispatchesDeepLink(t *testing.T) {
	repo := newFakeUserRepo()
	mail := &fakeDispatcher{}
	svc := newRecoveryService(repo, mail)
	id := seedApprovedUser(t, repo, "siti@example.com")

	require.NoError(t, svc.Request(context.Background(), "siti@example.com", TokenScheme()))

	job, ok := mail.last()
	require.True(t, ok)
	assert.Equal(t, "siti@example.com", job.To)
	assert.Equal(t, mailer.TemplateResetLink, job.Template)

	secret := repo.secretFor(id)
	require.NotEmpty(t, secret)
	assert.Equal(t, "https://app.guardline.id/reset/"+secret, job.Data["ResetURL"])
	assert.Empty(t, job.Data["Code"])
}

func TestRequestCodeSchemeDispatchesSixDigits(t *testing.T) {
	repo := newFakeUserRepo()
	mail := &fakeDispatcher{}
	svc := newRecoveryService(repo, mail)
	id := seedApprovedUser(t, repo, "siti@example.com")

	require.NoError(t, svc.Request(context.Background(), "siti@example.com", CodeScheme()))

	job, ok := mail.last()
	require.True(t, ok)
	assert.Equal(t, mailer.TemplateResetCode, job.Template)

	secret := repo.secretFor(id)
	assert.Regexp(t, regexp.MustCompile(`^[1-9]\d{5}$`), secret)
	assert.Equal(t, secret, job.Data["Code"])
	assert.Empty(t, job.Data["ResetURL"])
}

func TestRequestUnknownEmail(t *testing.T) {
	svc := newRecoveryService(newFakeUserRepo(), &fakeDispatcher{})
	err := svc.Request(context.Background(), "nobody@example.com", TokenScheme())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRequestRateLimitedWhileSecretLive(t *testing.T) {
	repo := newFakeUserRepo()
	mail := &fakeDispatcher{}
	svc := newRecoveryService(repo, mail)
	id := seedApprovedUser(t, repo, "siti@example.com")

	require.NoError(t, svc.Request(context.Background(), "siti@example.com", TokenScheme()))
	first := repo.secretFor(id)

	err := svc.Request(context.Background(), "siti@example.com", TokenScheme())
	assert.ErrorIs(t, err, apperr.ErrRateLimited)
	// The live secret survives the rejected request.
	assert.Equal(t, first, repo.secretFor(id))
	assert.Len(t, mail.jobs, 1)
}

func TestRequestSucceedsAfterExpiry(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newRecoveryService(repo, &fakeDispatcher{})
	id := seedApprovedUser(t, repo, "siti@example.com")

	require.NoError(t, svc.Request(context.Background(), "siti@example.com", CodeScheme()))
	first := repo.secretFor(id)
	repo.expireSecret(id)

	require.NoError(t, svc.Request(context.Background(), "siti@example.com", CodeScheme()))
	assert.NotEqual(t, first, repo.secretFor(id))
}

func TestRequestRollsBackSecretOnDispatchFailure(t *testing.T) {
	repo := newFakeUserRepo()
	mail := &fakeDispatcher{fail: true}
	svc := newRecoveryService(repo, mail)
	id := seedApprovedUser(t, repo, "siti@example.com")

	err := svc.Request(context.Background(), "siti@example.com", TokenScheme())
	assert.ErrorIs(t, err, apperr.ErrUpstream)
	assert.Empty(t, repo.secretFor(id))

	// The rollback means a retry is not rate-limited.
	mail.fail = false
	require.NoError(t, svc.Request(context.Background(), "siti@example.com", TokenScheme()))
}

func TestCompleteByTokenRoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newRecoveryService(repo, &fakeDispatcher{})
	id := seedApprovedUser(t, repo, "siti@example.com")

	require.NoError(t, svc.Request(context.Background(), "siti@example.com", TokenScheme()))
	token := repo.secretFor(id)

	require.NoError(t, svc.CompleteByToken(context.Background(), token, "new-password-1"))

	u, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, helpers.VerifyPassword(u.PasswordHash, "new-password-1"))
	assert.Empty(t, u.ResetSecret)
	assert.Nil(t, u.ResetExpiresAt)

	// Single use: the same token is rejected the second time.
	err = svc.CompleteByToken(context.Background(), token, "new-password-2")
	assert.ErrorIs(t, err, apperr.ErrInvalidOrExpired)
	u, _ = repo.GetByID(context.Background(), id)
	assert.True(t, helpers.VerifyPassword(u.PasswordHash, "new-password-1"))
}

func TestCompleteByTokenExpired(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newRecoveryService(repo, &fakeDispatcher{})
	id := seedApprovedUser(t, repo, "siti@example.com")

	require.NoError(t, svc.Request(context.Background(), "siti@example.com", TokenScheme()))
	token := repo.secretFor(id)
	repo.expireSecret(id)

	err := svc.CompleteByToken(context.Background(), token, "new-password-1")
	assert.ErrorIs(t, err, apperr.ErrInvalidOrExpired)

	u, gerr := repo.GetByID(context.Background(), id)
	require.NoError(t, gerr)
	assert.True(t, helpers.VerifyPassword(u.PasswordHash, "correct-horse"))
}

func TestCompleteByTokenUnknownOrEmpty(t *testing.T) {
	svc := newRecoveryService(newFakeUserRepo(), &fakeDispatcher{})

	assert.ErrorIs(t, svc.CompleteByToken(context.Background(), "bogus", "new-password-1"), apperr.ErrInvalidOrExpired)
	assert.ErrorIs(t, svc.CompleteByToken(context.Background(), "", "new-password-1"), apperr.ErrInvalidOrExpired)
}

func TestCompleteByCodeRoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newRecoveryService(repo, &fakeDispatcher{})
	id := seedApprovedUser(t, repo, "siti@example.com")

	require.NoError(t, svc.Request(context.Background(), "siti@example.com", CodeScheme()))
	code := repo.secretFor(id)

	require.NoError(t, svc.CompleteByCode(context.Background(), "siti@example.com", code, "new-password-1"))

	u, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, helpers.VerifyPassword(u.PasswordHash, "new-password-1"))

	err = svc.CompleteByCode(context.Background(), "siti@example.com", code, "new-password-2")
	assert.ErrorIs(t, err, apperr.ErrInvalidOrExpired)
}

func TestCompleteByCodeWrongEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newRecoveryService(repo, &fakeDispatcher{})
	id := seedApprovedUser(t, repo, "siti@example.com")

	require.NoError(t, svc.Request(context.Background(), "siti@example.com", CodeScheme()))
	code := repo.secretFor(id)

	err := svc.CompleteByCode(context.Background(), "other@example.com", code, "new-password-1")
	assert.ErrorIs(t, err, apperr.ErrInvalidOrExpired)
	// The secret stays live for the rightful owner.
	assert.Equal(t, code, repo.secretFor(id))
}

func TestTokenSchemeShape(t *testing.T) {
	s := TokenScheme()
	assert.Equal(t, time.Hour, s.TTL)
	assert.Equal(t, mailer.TemplateResetLink, s.Template)

	secret, err := s.Generate()
	require.NoError(t, err)
	// 32 random bytes, base64url without padding.
	assert.Len(t, secret, 43)
	assert.NotContains(t, secret, "=")
	assert.False(t, strings.ContainsAny(secret, "+/"))
}

func TestCodeSchemeShape(t *testing.T) {
	s := CodeScheme()
	assert.Equal(t, 10*time.Minute, s.TTL)
	assert.Equal(t, mailer.TemplateResetCode, s.Template)

	code, err := s.Generate()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[1-9]\d{5}$`), code)
}
