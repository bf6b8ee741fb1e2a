// Package pqgen provides generators that pull from PostgreSQL through
// github.com/lib/pq: notifications on a LISTEN channel and rows from a
// server-side cursor, one per call to Next.
package pqgen

import (
	"context"
	"time"

	"github.com/lib/pq"
)

type PQListener interface {
	Listen(channel string) error
	Unlisten(channel string) error
	NotificationChannel() <-chan *pq.Notification
	Close() error
}

// A Listener is a pq.Listener that reports its first connection loss as an
// error, so that generators reading from it can end instead of waiting for a
// reconnection.
type Listener struct {
	PQListener
	errEvent <-chan error
}

var pqNewListener = func(
	name string,
	minReconnectInterval time.Duration,
	maxReconnectInterval time.Duration,
	eventCallback pq.EventCallbackType,
) PQListener {
	return pq.NewListener(name, minReconnectInterval, maxReconnectInterval, eventCallback)
}

func NewListener(
	name string,
	minReconnectInterval time.Duration,
	maxReconnectInterval time.Duration,
	eventCallback pq.EventCallbackType,
) *Listener {
	errEvent := make(chan error, 1)
	return &Listener{
		PQListener: pqNewListener(name, minReconnectInterval, maxReconnectInterval, func(event pq.ListenerEventType, err error) {
			switch event {
			case pq.ListenerEventDisconnected, pq.ListenerEventConnectionAttemptFailed:
				select {
				case errEvent <- err:
				default:
				}
			}
			if eventCallback != nil {
				eventCallback(event, err)
			}
		}),
		errEvent: errEvent,
	}
}

// Listen starts listening on channel. It returns early with ctx's error if
// ctx is done first.
func (l *Listener) Listen(ctx context.Context, channel string) error {
	listenErr := make(chan error, 1)
	go func() { listenErr <- l.PQListener.Listen(channel) }()

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-listenErr:
	}
	return err
}
