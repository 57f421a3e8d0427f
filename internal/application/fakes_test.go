package application

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/guardline/backend/internal/domain/entity"
	"github.com/guardline/backend/internal/domain/repository"
	"github.com/guardline/backend/pkg/mailer"
)

// fakeUserRepo is an in-memory UserRepository with the same conditional
// update semantics as the postgres implementation.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.users {
		if e.Email == u.Email || e.Phone == u.Phone {
			return repository.ErrConflict
		}
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) SetStatus(_ context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Status = status
	return nil
}

func (f *fakeUserRepo) UpdateAvatar(_ context.Context, id, avatarURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.AvatarURL = avatarURL
	return nil
}

func (f *fakeUserRepo) IssueResetSecret(_ context.Context, id, secret string, expiresAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return false, nil
	}
	if u.ResetSecret != "" && u.ResetExpiresAt != nil && u.ResetExpiresAt.After(time.Now()) {
		return false, nil
	}
	u.ResetSecret = secret
	u.ResetExpiresAt = &expiresAt
	return true, nil
}

func (f *fakeUserRepo) ClearResetSecret(_ context.Context, id, secret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok && u.ResetSecret == secret {
		u.ResetSecret = ""
		u.ResetExpiresAt = nil
	}
	return nil
}

func (f *fakeUserRepo) ConsumeResetByToken(_ context.Context, token, newHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ResetSecret == token && token != "" && u.ResetExpiresAt != nil && u.ResetExpiresAt.After(time.Now()) {
			u.PasswordHash = newHash
			u.ResetSecret = ""
			u.ResetExpiresAt = nil
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) ConsumeResetByEmail(_ context.Context, email, code, newHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email && u.ResetSecret == code && code != "" && u.ResetExpiresAt != nil && u.ResetExpiresAt.After(time.Now()) {
			u.PasswordHash = newHash
			u.ResetSecret = ""
			u.ResetExpiresAt = nil
			return true, nil
		}
	}
	return false, nil
}

// expireSecret forces the stored secret past its window.
func (f *fakeUserRepo) expireSecret(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok && u.ResetExpiresAt != nil {
		past := time.Now().Add(-time.Minute)
		u.ResetExpiresAt = &past
	}
}

func (f *fakeUserRepo) secretFor(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u.ResetSecret
	}
	return ""
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

// fakeChat records calls and can be made to fail per operation.
type fakeChat struct {
	mu          sync.Mutex
	upserts     []string
	deletes     []string
	failUpsert  bool
	failToken   bool
	failDelete  bool
	tokenResult string
}

func (f *fakeChat) Upsert(_ context.Context, uid, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpsert {
		return errors.New("chat unavailable")
	}
	f.upserts = append(f.upserts, uid)
	return nil
}

func (f *fakeChat) SessionToken(_ context.Context, uid string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failToken {
		return "", errors.New("chat unavailable")
	}
	if f.tokenResult != "" {
		return f.tokenResult, nil
	}
	return "chat-" + uid, nil
}

func (f *fakeChat) Delete(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return errors.New("chat unavailable")
	}
	f.deletes = append(f.deletes, uid)
	return nil
}

// fakeDispatcher records jobs and can simulate a broker outage.
type fakeDispatcher struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	fail bool
}

func (f *fakeDispatcher) Dispatch(_ context.Context, job mailer.EmailJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broker down")
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeDispatcher) last() (mailer.EmailJob, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.jobs) == 0 {
		return mailer.EmailJob{}, false
	}
	return f.jobs[len(f.jobs)-1], true
}

// fakeBlobs returns deterministic references.
type fakeBlobs struct{}

func (fakeBlobs) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	_, _ = io.ReadAll(r)
	return "blob://" + objectPath, nil
}
