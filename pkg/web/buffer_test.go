package web

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/nbcheck/pkg/runner"
)

func eventWithID(id int64, phase runner.Phase, text string) Event {
	e := NewOutputEvent(phase, text)
	e.ID = id
	return e
}

func TestNewBuffer(t *testing.T) {
	assert.Equal(t, DefaultBufferSize, len(NewBuffer(0).ring))
	assert.Equal(t, 10, len(NewBuffer(10).ring))
	assert.Nil(t, NewBuffer(10).All())
}

func TestBuffer_AddAndAll(t *testing.T) {
	b := NewBuffer(3)
	for i := range int64(5) {
		b.Add(eventWithID(i+1, runner.PhaseStep, "e"))
	}

	all := b.All()
	require.Len(t, all, 3)
	assert.Equal(t, []int64{3, 4, 5}, []int64{all[0].ID, all[1].ID, all[2].ID}, "oldest overwritten, order kept")
	assert.Equal(t, 3, b.Count())
}

func TestBuffer_ByPhase(t *testing.T) {
	b := NewBuffer(4)
	b.Add(eventWithID(1, runner.PhaseSetup, "open"))
	b.Add(eventWithID(2, runner.PhaseStep, "s1"))
	b.Add(eventWithID(3, runner.PhaseFail, "f1"))
	b.Add(eventWithID(4, runner.PhaseStep, "s2"))
	b.Add(eventWithID(5, runner.PhaseStep, "s3")) // drops setup event

	assert.Nil(t, b.ByPhase(runner.PhaseSetup), "dropped with the oldest event")

	steps := b.ByPhase(runner.PhaseStep)
	require.Len(t, steps, 3)
	assert.Equal(t, "s1", steps[0].Text)
	assert.Equal(t, "s3", steps[2].Text)

	b.Add(eventWithID(6, runner.PhaseStep, "s4")) // drops s1
	steps = b.ByPhase(runner.PhaseStep)
	require.Len(t, steps, 3)
	assert.Equal(t, []string{"s2", "s3", "s4"}, []string{steps[0].Text, steps[1].Text, steps[2].Text})
}

func TestBuffer_Query(t *testing.T) {
	b := NewBuffer(10)
	add := func(id int64, phase runner.Phase, scenario int) {
		e := eventWithID(id, phase, "e")
		e.Scenario = scenario
		b.Add(e)
	}
	add(1, runner.PhaseSetup, 0)
	add(2, runner.PhaseStep, 1)
	add(3, runner.PhaseFail, 1)
	add(4, runner.PhaseStep, 2)
	add(5, runner.PhasePass, 2)

	ids := func(events []Event) []int64 {
		res := make([]int64, 0, len(events))
		for _, e := range events {
			res = append(res, e.ID)
		}
		return res
	}

	tests := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{name: "all", filter: Filter{}, want: []int64{1, 2, 3, 4, 5}},
		{name: "scenario", filter: Filter{Scenario: 2}, want: []int64{4, 5}},
		{name: "phase and since", filter: Filter{Phase: runner.PhaseStep, Since: 2}, want: []int64{4}},
		{name: "scenario and phase", filter: Filter{Scenario: 1, Phase: runner.PhaseFail}, want: []int64{3}},
		{name: "no match", filter: Filter{Scenario: 3}, want: []int64{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(b.Query(tc.filter)))
		})
	}
}

func TestBuffer_Since(t *testing.T) {
	b := NewBuffer(10)
	for i := range int64(4) {
		b.Add(eventWithID(i+1, runner.PhaseStep, "e"))
	}
	assert.Len(t, b.Since(0), 4)
	since := b.Since(2)
	require.Len(t, since, 2)
	assert.Equal(t, int64(3), since[0].ID)
	assert.Nil(t, b.Since(4))
}

func TestBuffer_Clear(t *testing.T) {
	b := NewBuffer(5)
	b.Add(eventWithID(1, runner.PhaseStep, "x"))
	b.Clear()
	assert.Zero(t, b.Count())
	assert.Nil(t, b.ByPhase(runner.PhaseStep))
}

func TestBuffer_Concurrent(t *testing.T) {
	b := NewBuffer(50)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			b.Add(eventWithID(int64(i), runner.PhaseStep, "x"))
		}()
		go func() {
			defer wg.Done()
			_ = b.All()
			_ = b.ByPhase(runner.PhaseStep)
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, b.Count())
}
