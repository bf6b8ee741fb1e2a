// Package generator implements generators on top of goroutines: a producer
// written as straight-line code hands values, one at a time, to a consumer that
// pulls them.
//
// # The producer and the consumer
//
// New starts a producer task in its own goroutine. The task doesn't run the
// producer function until the consumer first calls Next; from then on, the two
// take turns over a pair of unbuffered channels. Next sends a resume signal and
// blocks until the producer either calls Yield or returns. Yield, in turn, hands
// its value over and the producer runs on until its next Yield, where it blocks
// until Next is called again.
//
// At most one value is in flight at any time: the value passed to the Nth
// call to Yield is returned by the Nth call to Next. Once the producer
// function returns, Next returns false, and keeps doing so without blocking.
//
// # Panics
//
// If the producer function panics, the panic is captured and raised again as a
// Panic from the call to Next that observes the task finished.
//
// # Leaks
//
// There is no way to stop a producer before it returns. If a Generator is
// dropped before it's exhausted, its producer stays blocked in Yield until the
// Generator is garbage-collected; then Yield panics with an ErrKilled wrapping
// ErrLeak, which unwinds the producer's stack, running its deferred calls, and
// is recovered by the library.
package generator

import (
	"iter"
	"runtime"
	"sync/atomic"

	"github.com/canastic/generator/internal/handshake"
)

// A Generator is the consumer's handle on a producer task.
//
// Values of type T cross from the producer's goroutine to the consumer's. They
// must be independently owned: a yielded value must not alias state that the
// producer keeps modifying after Yield returns.
//
// A Generator is not safe for concurrent use.
type Generator[T any] struct {
	consumer handshake.Consumer[T]
	// task is nil once the generator is exhausted.
	task *task
	gone chan struct{}
}

type task struct {
	// done is closed after the producer function returned or panicked and
	// the value channel was closed.
	done  chan struct{}
	panic *Panic
}

var lastID uint64

// New creates a Generator whose values are produced by f. It doesn't block,
// and f doesn't start running until the first call to Next.
func New[T any](f func(*Context[T]), setOptions ...SetOption) *Generator[T] {
	options := buildOptions(setOptions)

	producer, consumer := handshake.New[T]()
	gone := make(chan struct{})
	t := &task{done: make(chan struct{})}

	c := &Context[T]{
		producer: producer,
		gone:     gone,
		log:      options.log.With().Uint64("generator", atomic.AddUint64(&lastID, 1)).Logger(),
		inst:     instrumentsFor(options.meter),
	}

	g := &Generator[T]{
		consumer: consumer,
		task:     t,
		gone:     gone,
	}
	// The producer task never references g, so it's collectable while the
	// task is blocked.
	runtime.SetFinalizer(g, func(g *Generator[T]) {
		close(g.gone)
	})

	options.g(func() {
		c.run(f, t)
	})

	return g
}

// Next resumes the producer and returns the next value it yields. ok is false
// once the producer has returned; from then on, Next returns immediately.
//
// If the producer panicked, Next panics with a Panic.
func (g *Generator[T]) Next() (v T, ok bool) {
	t := g.task
	if t == nil {
		return v, false
	}

	g.consumer.Resume(t.done)

	v, ok = g.consumer.Take()
	runtime.KeepAlive(g)
	if ok {
		return v, true
	}

	g.join()
	return v, false
}

func (g *Generator[T]) join() {
	t := g.task
	g.task = nil
	<-t.done
	if t.panic != nil {
		panic(*t.panic)
	}
}

// Done reports whether the generator is exhausted, that is, Next has already
// observed its producer finished.
func (g *Generator[T]) Done() bool {
	return g.task == nil
}

// All returns a sequence that calls Next until the generator is exhausted or
// the loop breaks. Breaking out leaves the generator where it was; ranging
// over it again continues from there.
func (g *Generator[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := g.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}
