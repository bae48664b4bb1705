package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"declgen/internal/pipeline"
	"declgen/internal/ui"
)

type runOutcome struct {
	result *pipeline.Result
	err    error
}

// runWithUI drives the pipeline in the background and shows progress until
// its event channel closes.
func runWithUI(ctx context.Context, out io.Writer, title string, rows []ui.Row, req pipeline.Request) (*pipeline.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		req.Progress = pipeline.ChannelSink{Ch: events}
		res, err := pipeline.Run(ctx, req)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, rows, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// дочитываем события, чтобы горутина пайплайна не заблокировалась
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
