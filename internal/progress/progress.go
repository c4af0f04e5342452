// Package progress defines the event channel through which the sync engine
// reports human-readable status to an observer.
package progress

import "log/slog"

// Event is a single progress report. Fraction is only meaningful when
// HasFraction is set; it is a completion ratio in [0, 1].
type Event struct {
	Message     string
	Fraction    float64
	HasFraction bool
}

// Text builds an event carrying a message with no completion ratio.
func Text(msg string) Event {
	return Event{Message: msg}
}

// Fractional builds an event carrying a message and a completion ratio.
func Fractional(msg string, fraction float64) Event {
	return Event{Message: msg, Fraction: fraction, HasFraction: true}
}

// Sink receives progress events. Implementations must not block for long;
// the engine emits events synchronously from its worker.
type Sink interface {
	Push(ev Event)
}

// NopSink discards all events. Callers that don't care about progress pass
// this instead of nil so the engine never has to nil-check its sink.
type NopSink struct{}

func (NopSink) Push(Event) {}

// SlogSink forwards events to a structured logger, so engine progress lands
// in the application log when no interactive observer is attached.
type SlogSink struct {
	Logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{Logger: logger}
}

func (s *SlogSink) Push(ev Event) {
	if ev.HasFraction {
		s.Logger.Info(ev.Message, "completed", ev.Fraction)
		return
	}
	s.Logger.Info(ev.Message)
}

// Recorder collects events in order. Test helper.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Push(ev Event) {
	r.Events = append(r.Events, ev)
}

// Messages returns just the message strings, in emission order.
func (r *Recorder) Messages() []string {
	msgs := make([]string, 0, len(r.Events))
	for _, ev := range r.Events {
		msgs = append(msgs, ev.Message)
	}
	return msgs
}
