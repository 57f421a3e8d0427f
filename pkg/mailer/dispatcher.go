package mailer

import (
	"context"
	"errors"

	"github.com/guardline/backend/pkg/helpers"
)

// QueueDispatcher hands jobs to the RabbitMQ queue consumed by the email
// worker. Dispatch returns the publish error, so callers observe a broker
// outage before reporting the request as accepted.
type QueueDispatcher struct {
	Pub *helpers.RabbitPublisher
}

func NewQueueDispatcher(pub *helpers.RabbitPublisher) *QueueDispatcher {
	return &QueueDispatcher{Pub: pub}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, job EmailJob) error {
	if d.Pub == nil {
		return errors.New("mail queue not configured")
	}
	return d.Pub.PublishJSON(ctx, job)
}
