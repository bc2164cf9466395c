package web

import (
	"fmt"
	"log"

	"github.com/umputun/nbcheck/pkg/runner"
)

// BroadcastLogger wraps a runner.Logger and publishes events to the stream.
// implements the decorator pattern - all calls are forwarded to the inner logger
// while also being converted to events for web streaming.
//
// BroadcastLogger is not goroutine-safe, the runner calls it from a single goroutine.
type BroadcastLogger struct {
	inner    runner.Logger
	stream   *Stream
	phase    runner.Phase
	scenario int // index of the running scenario, stamped on its events
}

// NewBroadcastLogger creates a logger that wraps inner and publishes to stream.
func NewBroadcastLogger(inner runner.Logger, stream *Stream) *BroadcastLogger {
	return &BroadcastLogger{inner: inner, stream: stream, phase: runner.PhaseSetup}
}

// SetPhase sets the current run phase for color coding.
func (b *BroadcastLogger) SetPhase(phase runner.Phase) {
	b.phase = phase
	b.inner.SetPhase(phase)
}

// Print writes a timestamped message and broadcasts it.
func (b *BroadcastLogger) Print(format string, args ...any) {
	b.inner.Print(format, args...)
	b.broadcast(NewOutputEvent(b.phase, formatText(format, args...)))
}

// PrintSection writes a section header and broadcasts it.
// scenario sections also emit a scenario_start boundary event.
func (b *BroadcastLogger) PrintSection(section runner.Section) {
	b.inner.PrintSection(section)
	b.scenario = 0 // a generic section ends the running scenario
	if section.Type == runner.SectionScenario {
		b.scenario = section.Index
		b.broadcast(NewScenarioStartEvent(b.phase, section.Index, section.Label))
	}
	b.broadcast(NewSectionEvent(b.phase, section.Label))
}

// Warn writes a warning and broadcasts it.
func (b *BroadcastLogger) Warn(format string, args ...any) {
	b.inner.Warn(format, args...)
	b.broadcast(NewWarnEvent(b.phase, formatText(format, args...)))
}

// Error writes an error and broadcasts it.
func (b *BroadcastLogger) Error(format string, args ...any) {
	b.inner.Error(format, args...)
	b.broadcast(NewErrorEvent(b.phase, formatText(format, args...)))
}

// Result broadcasts the outcome of a finished suite run.
func (b *BroadcastLogger) Result(res runner.SuiteResult) {
	b.broadcast(NewResultEvent(res))
}

// broadcast publishes an event for live streaming and history.
// errors are logged but not propagated since logging is the primary operation.
func (b *BroadcastLogger) broadcast(e Event) {
	if e.Type != EventTypeResult && e.Scenario == 0 {
		e.Scenario = b.scenario
	}
	if err := b.stream.Publish(e); err != nil {
		log.Printf("[WARN] failed to broadcast event: %v", err)
	}
}

// formatText formats a string with args, like fmt.Sprintf.
func formatText(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
