package web

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/nbcheck/pkg/runner"
)

func TestEventConstructors(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		typ   EventType
		text  string
	}{
		{name: "output", event: NewOutputEvent(runner.PhaseStep, "click #conda_tab"), typ: EventTypeOutput, text: "click #conda_tab"},
		{name: "section", event: NewSectionEvent(runner.PhaseSetup, "scenario 1: basic"), typ: EventTypeSection, text: "scenario 1: basic"},
		{name: "error", event: NewErrorEvent(runner.PhaseFail, "boom"), typ: EventTypeError, text: "boom"},
		{name: "warn", event: NewWarnEvent(runner.PhaseStep, "careful"), typ: EventTypeWarn, text: "careful"},
		{name: "scenario start", event: NewScenarioStartEvent(runner.PhaseSetup, 2, "scenario 2: kernel"), typ: EventTypeScenarioStart, text: "scenario 2: kernel"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.typ, tc.event.Type)
			assert.Equal(t, tc.text, tc.event.Text)
			assert.False(t, tc.event.Timestamp.IsZero())
			assert.Zero(t, tc.event.ID, "ids are assigned on publish")
		})
	}
	assert.Equal(t, "scenario 1: basic", NewSectionEvent(runner.PhaseSetup, "scenario 1: basic").Section)
	assert.Equal(t, 2, NewScenarioStartEvent(runner.PhaseSetup, 2, "x").Scenario)
}

func TestNewResultEvent(t *testing.T) {
	pass := NewResultEvent(runner.SuiteResult{Suite: "default", Status: runner.StatusPass,
		Scenarios: []runner.Result{{Status: runner.StatusPass}, {Status: runner.StatusPass}}})
	assert.Equal(t, EventTypeResult, pass.Type)
	assert.Equal(t, runner.PhasePass, pass.Phase)
	assert.Equal(t, "pass", pass.Status)
	assert.Equal(t, "suite default: 2 passed, 0 failed", pass.Text)

	fail := NewResultEvent(runner.SuiteResult{Suite: "default", Status: runner.StatusFail,
		Scenarios: []runner.Result{{Status: runner.StatusFail, Err: errors.New("x")}}})
	assert.Equal(t, runner.PhaseFail, fail.Phase)
	assert.Equal(t, "fail", fail.Status)
}

func TestEvent_JSON(t *testing.T) {
	e := NewScenarioStartEvent(runner.PhaseSetup, 1, "scenario 1: basic")
	e.ID = 7
	data, err := e.JSON()
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.InDelta(t, 7, m["id"], 0)
	assert.Equal(t, "scenario_start", m["type"])
	assert.Equal(t, "setup", m["phase"])
	assert.InDelta(t, 1, m["scenario"], 0)
	assert.NotContains(t, m, "status", "empty status omitted")
}
