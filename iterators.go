package generator

import (
	"iter"

	"github.com/tcard/coro"
)

// An Iterator runs a callback-style producer as a coroutine. Unlike a
// Generator, the producer doesn't run concurrently with the consumer: they
// share control, and the producer may return an error.
type Iterator[T any] struct {
	// Next blocks until the next value is set on Yielded, or until the
	// producer returns with a (maybe nil) error, which is set on Returned.
	Next     coro.Resume
	Yielded  T
	Returned error
}

// NewIterator wraps coro.New with a type-safe interface. Options like
// coro.KillOnContextDone are passed through.
func NewIterator[T any](f func(yield func(T)) error, options ...coro.SetOption) *Iterator[T] {
	var it Iterator[T]
	it.Next = coro.New(func(yield func()) {
		it.Returned = f(func(v T) {
			it.Yielded = v
			yield()
		})
	}, options...)
	return &it
}

// All ranges over the values the iterator yields. Returned should be checked
// once the loop ends.
func (it *Iterator[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for it.Next() {
			if !yield(it.Yielded) {
				return
			}
		}
	}
}

// Generator drives the iterator from a Generator's producer task, so that the
// values can be pulled with Next. An error returned by the iterator is raised
// as a Panic when the generator is exhausted.
func (it *Iterator[T]) Generator(setOptions ...SetOption) *Generator[T] {
	return New(func(c *Context[T]) {
		for it.Next() {
			c.Yield(it.Yielded)
		}
		if it.Returned != nil {
			panic(it.Returned)
		}
	}, setOptions...)
}
