package pqgen

import (
	"context"

	"github.com/lib/pq"
	"golang.org/x/xerrors"

	"github.com/canastic/generator"
)

// A NotificationGenerator yields the notifications received on a channel.
type NotificationGenerator struct {
	*generator.Generator[*pq.Notification]
	err *error
}

// Err reports why the generator ended: the listener's connection error,
// ctx's error, or nil if the notification channel was closed or the context
// was stopped with a WithStop function. It's only
// meaningful once the generator is exhausted.
func (g *NotificationGenerator) Err() error {
	if !g.Done() {
		return nil
	}
	return *g.err
}

// Notifications listens on channel and returns a generator that yields one
// notification per call to Next. The channel is unlistened when the generator
// ends.
//
// lib/pq sends a nil notification after reconnecting; those are skipped.
func Notifications(ctx context.Context, l *Listener, channel string, options ...generator.SetOption) (*NotificationGenerator, error) {
	err := l.Listen(ctx, channel)
	if err != nil {
		return nil, xerrors.Errorf("listening to channel %q: %w", channel, err)
	}

	notifs := l.NotificationChannel()
	errEvent := l.errEvent

	// The producer must not reference the NotificationGenerator, or it would
	// never be collected while blocked.
	errp := new(error)
	g := generator.New(func(c *generator.Context[*pq.Notification]) {
		defer l.Unlisten(channel)
		*errp = forwardNotifications(ctx, c, notifs, errEvent)
	}, options...)

	return &NotificationGenerator{Generator: g, err: errp}, nil
}

func forwardNotifications(
	ctx context.Context,
	c *generator.Context[*pq.Notification],
	notifs <-chan *pq.Notification,
	errEvent <-chan error,
) error {
	for {
		// Leave notifications in the listener until they're asked for.
		c.Await()
		select {
		case <-stopped(ctx):
			return ctx.Err()
		case notif, ok := <-notifs:
			if !ok {
				return nil
			}
			if notif == nil {
				continue
			}
			c.Yield(notif)
		case err := <-errEvent:
			return xerrors.Errorf("notifications listener connection: %w", err)
		}
	}
}
