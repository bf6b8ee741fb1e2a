package generator

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// A Panic is a panic captured in a producer task. Next panics with it, in the
// consumer's goroutine, when it observes that the task finished.
type Panic struct {
	p     interface{}
	stack []byte
}

func (p Panic) Error() string {
	return fmt.Sprintf("generator: producer panicked: %v\n\n%s", p.p, p.stack)
}

func (p Panic) Unwrap() error {
	switch err := p.p.(type) {
	case error:
		return err
	default:
		return nil
	}
}

// Recovered returns the value the producer panicked with.
func (p Panic) Recovered() interface{} {
	return p.p
}

func catchPanic(into **Panic) {
	if r := recover(); r != nil {
		*into = &Panic{r, debug.Stack()}
	}
}

// ErrLeak is the error with which a producer task is killed when its
// Generator has been garbage-collected, so no one will ever resume it or take
// its value.
var ErrLeak = errors.New("generator: consumer leaked")

// ErrGoexit is wrapped in the Panic raised by Next when the producer ended
// by calling runtime.Goexit instead of returning.
var ErrGoexit = errors.New("generator: producer called runtime.Goexit")

// An ErrKilled is the error with which a blocked Yield unwinds the producer
// task. The task recovers it; producer code only sees it from its own deferred
// recover.
type ErrKilled struct {
	By error
}

func (err ErrKilled) Error() string {
	return fmt.Errorf("generator: producer killed: %w", err.By).Error()
}

func (err ErrKilled) Unwrap() error {
	return err.By
}
