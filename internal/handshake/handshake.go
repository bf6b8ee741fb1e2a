// Package handshake provides the paired channel halves over which a generator's
// consumer and producer take turns.
//
// The consumer sends a resume signal and then waits for a value; the producer
// waits for a resume signal and then sends a value. Neither channel is
// buffered, so at most one value is ever in flight.
package handshake

// New creates the resume and value channels and splits them into the half
// owned by the producer and the half owned by the consumer.
func New[T any]() (Producer[T], Consumer[T]) {
	resumes := make(chan struct{})
	values := make(chan T)
	return Producer[T]{
			Resumes: resumes,
			Values:  values,
		}, Consumer[T]{
			Resumes: resumes,
			Values:  values,
		}
}

type Producer[T any] struct {
	Resumes <-chan struct{}
	Values  chan<- T
}

// Done marks the end of the sequence. It must be called exactly once, after
// the last send on Values.
func (p Producer[T]) Done() {
	close(p.Values)
}

// Await blocks until either a resume signal arrives, returning true, or gone
// is closed, returning false.
func (p Producer[T]) Await(gone <-chan struct{}) bool {
	select {
	case <-p.Resumes:
		return true
	case <-gone:
		return false
	}
}

// Give hands v to the consumer, returning false instead if gone is closed
// first.
func (p Producer[T]) Give(v T, gone <-chan struct{}) bool {
	select {
	case p.Values <- v:
		return true
	case <-gone:
		return false
	}
}

type Consumer[T any] struct {
	Resumes chan<- struct{}
	Values  <-chan T
}

// Resume signals the producer to go ahead. It gives up without error if
// finished is closed first, since then nobody is left to receive the signal.
func (c Consumer[T]) Resume(finished <-chan struct{}) {
	select {
	case c.Resumes <- struct{}{}:
	case <-finished:
	}
}

// Take waits for the next value. ok is false once the producer called Done.
func (c Consumer[T]) Take() (v T, ok bool) {
	v, ok = <-c.Values
	return v, ok
}
