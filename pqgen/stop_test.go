package pqgen

import (
	"context"
	"testing"

	"github.com/canastic/chantest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStop(t *testing.T) {
	ctx, stop := WithStop(context.Background())
	assert.False(t, isStopped(ctx))

	stop()

	assert.True(t, isStopped(ctx))
	assert.NoError(t, ctx.Err(), "stopping must not cancel")
}

func TestStopParentDone(t *testing.T) {
	base, cancel := context.WithCancel(context.Background())
	ctx, stop := WithStop(base)
	defer stop()

	cancel()

	assert.Error(t, ctx.Err())
	assert.True(t, isStopped(ctx))
}

func TestStopChained(t *testing.T) {
	type ctxKey struct{}
	base, stop := WithStop(context.Background())
	ctx, stopChild := WithStop(context.WithValue(base, ctxKey{}, "bar"))
	defer stopChild()

	stop()

	assert.True(t, isStopped(ctx))
	assert.Equal(t, "bar", ctx.Value(ctxKey{}))
}

func TestStoppedPlainContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	assert.False(t, isStopped(ctx))
	cancel()
	assert.True(t, isStopped(ctx))
}

func TestNotificationsStopped(t *testing.T) {
	fake := newFakePQListener()
	withFakePQListener(t, fake)

	ctx, stop := WithStop(context.Background())
	l := NewListener("", 0, 0, nil)
	g, err := Notifications(ctx, l, "foo")
	require.NoError(t, err)

	stop()

	_, ok := g.Next()
	assert.False(t, ok)
	assert.NoError(t, g.Err())
	assert.Equal(t, "foo", chantest.AssertRecv(t, fake.unlistens))
}
