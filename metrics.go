package generator

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/canastic/generator"

type instruments struct {
	started  metric.Int64Counter
	yielded  metric.Int64Counter
	panicked metric.Int64Counter
	leaked   metric.Int64Counter
}

var (
	globalInstrumentsOnce sync.Once
	globalInstruments     *instruments
)

func instrumentsFor(m metric.Meter) *instruments {
	if m != nil {
		return newInstruments(m)
	}
	// Instruments from the global meter delegate to whatever provider gets
	// installed later, so they're only created once.
	globalInstrumentsOnce.Do(func() {
		globalInstruments = newInstruments(otel.Meter(instrumentationName))
	})
	return globalInstruments
}

func newInstruments(m metric.Meter) *instruments {
	return &instruments{
		started:  counter(m, "generator.tasks.started", "Producer tasks started"),
		yielded:  counter(m, "generator.values.yielded", "Values handed from producers to consumers"),
		panicked: counter(m, "generator.tasks.panicked", "Producer tasks that panicked"),
		leaked:   counter(m, "generator.tasks.leaked", "Producer tasks killed because their consumer was garbage-collected"),
	}
}

func counter(m metric.Meter, name, description string) metric.Int64Counter {
	c, err := m.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		otel.Handle(err)
		return noop.Int64Counter{}
	}
	return c
}

func inc(c metric.Int64Counter) {
	c.Add(context.Background(), 1)
}
