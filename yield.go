package generator

import (
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/canastic/generator/internal/handshake"
)

// A Context is the producer task's end of a generator. It's passed to the
// producer function and must only be used from the goroutine that calls it.
type Context[T any] struct {
	producer handshake.Producer[T]
	gone     <-chan struct{}

	// resumed is set while a resume signal hasn't been answered with a
	// value yet.
	resumed bool
	killed  error
	yielded int

	log  zerolog.Logger
	inst *instruments
}

// Yield waits until the consumer asks for a value and hands v over. It
// returns once the consumer has taken v.
//
// If the Generator is garbage-collected while Yield is blocked, Yield panics
// with an ErrKilled.
func Yield[T any](c *Context[T], v T) {
	c.Yield(v)
}

func (c *Context[T]) Yield(v T) {
	c.Await()
	c.resumed = false
	if !c.producer.Give(v, c.gone) {
		c.kill(ErrLeak)
	}
	c.yielded++
	inc(c.inst.yielded)
}

// Await blocks until the consumer asks for the next value, without handing
// one over yet; the following Yield won't wait again. Between a Yield and the
// next Await, the producer runs concurrently with the consumer.
func (c *Context[T]) Await() {
	if c.killed != nil {
		panic(c.killed)
	}
	if c.resumed {
		return
	}
	if !c.producer.Await(c.gone) {
		c.kill(ErrLeak)
	}
	c.resumed = true
}

func (c *Context[T]) kill(by error) {
	c.killed = ErrKilled{By: by}
	panic(c.killed)
}

func (c *Context[T]) run(f func(*Context[T]), t *task) {
	var p *Panic
	returned := false
	defer close(t.done)
	defer c.producer.Done()
	defer c.settle(t, &p, &returned)
	defer catchPanic(&p)

	if !c.producer.Await(c.gone) {
		c.log.Debug().Msg("generator dropped before first resume")
		returned = true
		return
	}
	c.resumed = true

	inc(c.inst.started)
	c.log.Debug().Msg("producer started")

	f(c)
	returned = true

	c.log.Debug().Int("yielded", c.yielded).Msg("producer finished")
}

// settle records how the task ended. The library's own kill is swallowed;
// any other panic, or a runtime.Goexit, is kept for the consumer to raise.
func (c *Context[T]) settle(t *task, p **Panic, returned *bool) {
	if *p == nil && !*returned {
		*p = &Panic{ErrGoexit, debug.Stack()}
	}
	switch {
	case *p == nil:
	case c.killed != nil && (*p).p == c.killed:
		inc(c.inst.leaked)
		c.log.Warn().Int("yielded", c.yielded).Err(c.killed).Msg("producer killed")
	default:
		t.panic = *p
		inc(c.inst.panicked)
		c.log.Error().Int("yielded", c.yielded).Interface("panic", (*p).p).Msg("producer panicked")
	}
}
