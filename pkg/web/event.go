// Package web serves the live run dashboard: an index page, a server-sent events stream and event history.
package web

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/umputun/nbcheck/pkg/runner"
)

// EventType represents the type of event being streamed.
type EventType string

// event type constants for SSE streaming.
const (
	EventTypeOutput        EventType = "output"         // regular output line
	EventTypeSection       EventType = "section"        // section header
	EventTypeError         EventType = "error"          // error message
	EventTypeWarn          EventType = "warn"           // warning message
	EventTypeScenarioStart EventType = "scenario_start" // scenario boundary
	EventTypeResult        EventType = "result"         // suite finished
)

// Event represents a single event streamed to web clients.
// ID is assigned by Stream on publish and increases monotonically.
type Event struct {
	ID        int64        `json:"id"`
	Type      EventType    `json:"type"`
	Phase     runner.Phase `json:"phase"`
	Section   string       `json:"section,omitempty"`
	Scenario  int          `json:"scenario,omitempty"` // 1-based index of the running scenario, 0 outside scenarios
	Text      string       `json:"text"`
	Status    string       `json:"status,omitempty"` // pass or fail, result only
	Timestamp time.Time    `json:"timestamp"`
}

// NewOutputEvent creates an output event with current timestamp.
func NewOutputEvent(phase runner.Phase, text string) Event {
	return Event{Type: EventTypeOutput, Phase: phase, Text: text, Timestamp: time.Now()}
}

// NewSectionEvent creates a section header event.
func NewSectionEvent(phase runner.Phase, name string) Event {
	return Event{Type: EventTypeSection, Phase: phase, Section: name, Text: name, Timestamp: time.Now()}
}

// NewErrorEvent creates an error event.
func NewErrorEvent(phase runner.Phase, text string) Event {
	return Event{Type: EventTypeError, Phase: phase, Text: text, Timestamp: time.Now()}
}

// NewWarnEvent creates a warning event.
func NewWarnEvent(phase runner.Phase, text string) Event {
	return Event{Type: EventTypeWarn, Phase: phase, Text: text, Timestamp: time.Now()}
}

// NewScenarioStartEvent creates a scenario boundary event.
func NewScenarioStartEvent(phase runner.Phase, index int, label string) Event {
	return Event{Type: EventTypeScenarioStart, Phase: phase, Scenario: index, Text: label, Timestamp: time.Now()}
}

// NewResultEvent creates a suite result event from a finished run.
func NewResultEvent(res runner.SuiteResult) Event {
	phase := runner.PhasePass
	if res.Status == runner.StatusFail {
		phase = runner.PhaseFail
	}
	return Event{
		Type:      EventTypeResult,
		Phase:     phase,
		Text:      fmt.Sprintf("suite %s: %d passed, %d failed", res.Suite, res.Passed(), res.FailedCount()),
		Status:    string(res.Status),
		Timestamp: time.Now(),
	}
}

// JSON returns the event as JSON bytes for SSE streaming.
func (e Event) JSON() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}
