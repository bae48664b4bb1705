package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"declgen/internal/pipeline"
)

func newTestModel(events chan pipeline.Event) *progressModel {
	rows := []Row{
		{Key: "docs/a.yaml"},
		{Key: "rbi", Label: "out/declarations.rbi"},
	}
	return NewProgressModel("declgen generate", rows, events).(*progressModel)
}

func TestApplyEventUpdatesRows(t *testing.T) {
	m := newTestModel(nil)

	m.applyEvent(pipeline.Event{Item: "docs/a.yaml", Stage: pipeline.StageLoad, Status: pipeline.StatusWorking})
	assert.Equal(t, "loading", m.items[0].status)
	assert.InDelta(t, 0.05, m.percent(), 1e-9)

	m.applyEvent(pipeline.Event{Item: "docs/a.yaml", Stage: pipeline.StageBuild, Status: pipeline.StatusDone})
	m.applyEvent(pipeline.Event{Item: "rbi", Stage: pipeline.StageRender, Status: pipeline.StatusCached})
	assert.Equal(t, "built", m.items[0].status)
	assert.Equal(t, "cached", m.items[1].status)
	assert.InDelta(t, 1.0, m.percent(), 1e-9)

	m.applyEvent(pipeline.Event{Stage: pipeline.StageLint, Status: pipeline.StatusWorking})
	assert.Equal(t, "linting", m.stageLabel)

	m.applyEvent(pipeline.Event{Item: "unknown", Stage: pipeline.StageLoad, Status: pipeline.StatusDone})
	assert.False(t, m.failed)
}

func TestViewShowsLabelsAndFailure(t *testing.T) {
	m := newTestModel(nil)
	m.applyEvent(pipeline.Event{Item: "rbi", Stage: pipeline.StageRender, Status: pipeline.StatusError})

	_, _ = m.Update(doneMsg{})
	view := m.View()
	assert.Contains(t, view, "failed: declgen generate")
	assert.Contains(t, view, "docs/a.yaml")
	assert.Contains(t, view, "out/declarations.rbi")
	assert.Contains(t, view, "error")
}

func TestListenForEventEndsOnClose(t *testing.T) {
	events := make(chan pipeline.Event, 1)
	m := newTestModel(events)

	events <- pipeline.Event{Item: "rbi", Stage: pipeline.StageWrite, Status: pipeline.StatusDone}
	msg := m.listenForEvent()()
	ev, ok := msg.(eventMsg)
	require.True(t, ok)
	assert.Equal(t, pipeline.StageWrite, ev.Stage)

	close(events)
	_, ok = m.listenForEvent()().(doneMsg)
	assert.True(t, ok)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "very...", truncate("very-long-document.yaml", 10))
	assert.Equal(t, "ve", truncate("very", 2))
}
