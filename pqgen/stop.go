package pqgen

import "context"

type stopKey struct{}

// WithStop derives a context whose stop function asks the generators in this
// package to end gracefully: they finish as if the source ran out, cleaning
// up with a context that's still usable. Cancelling the parent stops them
// too, but then Err reports the cancellation.
//
// If parent already descends from WithStop, stopping that ancestor also stops
// the new context.
func WithStop(parent context.Context) (context.Context, context.CancelFunc) {
	stopParent := parent
	if p, ok := parent.Value(stopKey{}).(context.Context); ok {
		stopParent = p
	}
	stopCtx, stop := context.WithCancel(stopParent)
	return context.WithValue(parent, stopKey{}, stopCtx), stop
}

func stopped(ctx context.Context) <-chan struct{} {
	if s, ok := ctx.Value(stopKey{}).(context.Context); ok {
		return s.Done()
	}
	return ctx.Done()
}

func isStopped(ctx context.Context) bool {
	select {
	case <-stopped(ctx):
		return true
	default:
		return false
	}
}
