package rabbitmq

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-social/pkg/mailer"
)

type recordingPublisher struct {
	bodies      []any
	hadDeadline bool
	err         error
}

func (p *recordingPublisher) PublishJSON(ctx context.Context, body any) error {
	_, p.hadDeadline = ctx.Deadline()
	p.bodies = append(p.bodies, body)
	return p.err
}

func TestNotifyPublishesJob(t *testing.T) {
	pub := &recordingPublisher{}
	n := NewNotifier(pub)
	job := mailer.EmailJob{To: "a@test.io", Template: "friend_request"}

	require.NoError(t, n.Notify(context.Background(), job))
	require.Len(t, pub.bodies, 1)
	assert.Equal(t, job, pub.bodies[0])
	assert.True(t, pub.hadDeadline)
}

func TestNotifyReturnsPublishError(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("channel closed")}
	err := NewNotifier(pub).Notify(context.Background(), mailer.EmailJob{To: "a@test.io"})
	assert.EqualError(t, err, "channel closed")
}
