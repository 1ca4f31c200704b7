package tui

import (
	"context"

	"github.com/ariebrainware/appointment-manager/manager"
	"github.com/ariebrainware/appointment-manager/model"
	tea "github.com/charmbracelet/bubbletea"
)

// recordsLoadedMsg carries the result of a collection fetch.
type recordsLoadedMsg struct {
	records []model.Appointment
	err     error
}

// mutationDoneMsg carries the result of a create, update or delete.
type mutationDoneMsg struct {
	mutation manager.Mutation
	err      error
}

func loadRecords(ctx context.Context, store manager.Store) tea.Cmd {
	return func() tea.Msg {
		records, err := store.List(ctx)
		return recordsLoadedMsg{records: records, err: err}
	}
}

func applyMutation(ctx context.Context, store manager.Store, mut manager.Mutation) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{mutation: mut, err: mut.Apply(ctx, store)}
	}
}
