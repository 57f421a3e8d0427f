package application

import (
	"context"
	"io"

	"github.com/guardline/backend/pkg/mailer"
)

// External capabilities consumed by the services. Constructed once at process
// start and injected, so tests substitute fakes.

// ChatProvider mirrors local identities into the external chat service.
type ChatProvider interface {
	Upsert(ctx context.Context, uid, name, email string) error
	SessionToken(ctx context.Context, uid string) (string, error)
	Delete(ctx context.Context, uid string) error
}

// MailDispatcher hands an email job to the delivery pipeline. Dispatch
// returning nil means the job was durably accepted, not that it was delivered.
type MailDispatcher interface {
	Dispatch(ctx context.Context, job mailer.EmailJob) error
}

// BlobUploader stores opaque binary payloads and returns a stable reference.
type BlobUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}
