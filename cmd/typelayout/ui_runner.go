package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"typelayout/internal/manager"
	"typelayout/internal/ui"
)

type describeOutcome struct {
	outcomes []manager.Outcome
	err      error
}

// describeWithUI runs the batch in the background and shows its progress.
func describeWithUI(ctx context.Context, title string, m *manager.Manager, names []string, jobs int) ([]manager.Outcome, error) {
	events := make(chan ui.Event, 256)
	outcomeCh := make(chan describeOutcome, 1)

	go func() {
		res, err := m.DescribeAllProgress(ctx, names, jobs, ui.ChannelSink{Ch: events})
		outcomeCh <- describeOutcome{outcomes: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.outcomes, uiErr
	}
	return outcome.outcomes, outcome.err
}
