// Package manager holds the state of the appointment screen: the last
// fetched list, the form draft, and which dialog is open. It owns no
// business rules; every change to the data goes through the Store and is
// followed by a full reload.
package manager

import (
	"context"
	"errors"
	"strings"

	"github.com/ariebrainware/appointment-manager/model"
)

var (
	// ErrUnknownField is returned by UpdateDraftField for names that are not form fields.
	ErrUnknownField = errors.New("unknown appointment field")
	// ErrFormClosed is returned when submitting while no form is open.
	ErrFormClosed = errors.New("appointment form is not open")
	// ErrNoPendingDelete is returned when confirming a delete nobody requested.
	ErrNoPendingDelete = errors.New("no appointment pending deletion")
)

// Store is the remote appointment resource.
type Store interface {
	List(ctx context.Context) ([]model.Appointment, error)
	Create(ctx context.Context, appt model.Appointment) (model.Appointment, error)
	Update(ctx context.Context, id string, appt model.Appointment) (model.Appointment, error)
	Delete(ctx context.Context, id string) error
}

// Counters are the three aggregates shown above the list.
type Counters struct {
	Total     int
	Completed int
	Cancelled int
}

// Manager is the state container behind the appointment screen. It is not
// safe for concurrent use; a UI event loop is expected to own it.
type Manager struct {
	store Store

	records         []model.Appointment
	draft           model.Appointment
	formOpen        bool
	formGen         uint64
	editingID       string
	pendingDeleteID string
	searchText      string
}

// New returns a Manager with an empty list and the empty draft.
func New(store Store) *Manager {
	return &Manager{
		store: store,
		draft: model.EmptyDraft(),
	}
}

// Store returns the store the manager reads and writes through.
func (m *Manager) Store() Store { return m.store }

// Load fetches the whole collection and replaces the local list. On error
// the previous list is kept.
func (m *Manager) Load(ctx context.Context) error {
	records, err := m.store.List(ctx)
	if err != nil {
		return err
	}
	m.Replace(records)
	return nil
}

// Replace discards the local list in favour of records.
func (m *Manager) Replace(records []model.Appointment) {
	m.records = append(make([]model.Appointment, 0, len(records)), records...)
}

// OpenCreate resets the draft to the empty template and opens the form.
func (m *Manager) OpenCreate() {
	m.draft = model.EmptyDraft()
	m.editingID = ""
	m.formOpen = true
	m.formGen++
}

// OpenEdit copies record into the draft and opens the form in edit mode.
func (m *Manager) OpenEdit(record model.Appointment) {
	m.draft = record
	m.editingID = record.ID
	m.formOpen = true
	m.formGen++
}

// UpdateDraftField sets one draft field, named by its JSON key, verbatim.
func (m *Manager) UpdateDraftField(name, value string) error {
	if !m.draft.SetField(name, value) {
		return ErrUnknownField
	}
	return nil
}

// CloseForm closes the form without any request.
func (m *Manager) CloseForm() {
	m.formOpen = false
	m.editingID = ""
}

// RequestDelete marks id for deletion, which opens the confirmation dialog.
func (m *Manager) RequestDelete(id string) {
	m.pendingDeleteID = id
}

// CancelDelete dismisses the confirmation dialog without any request.
func (m *Manager) CancelDelete() {
	m.pendingDeleteID = ""
}

// SetSearchText sets the patient name filter.
func (m *Manager) SetSearchText(s string) {
	m.searchText = s
}

// SubmitMutation captures the request the open form would send: an update
// of the record being edited, or a create of the draft.
func (m *Manager) SubmitMutation() (Mutation, error) {
	if !m.formOpen {
		return Mutation{}, ErrFormClosed
	}
	if m.editingID != "" {
		return Mutation{Kind: MutationUpdate, ID: m.editingID, Record: m.draft, form: m.formGen}, nil
	}
	return Mutation{Kind: MutationCreate, Record: m.draft.WithoutID(), form: m.formGen}, nil
}

// BeginDelete captures the pending delete and closes the confirmation
// dialog. The dialog is closed whatever the request later does.
func (m *Manager) BeginDelete() (Mutation, error) {
	if m.pendingDeleteID == "" {
		return Mutation{}, ErrNoPendingDelete
	}
	mut := Mutation{Kind: MutationDelete, ID: m.pendingDeleteID}
	m.pendingDeleteID = ""
	return mut, nil
}

// Complete applies the local effect of a mutation that succeeded. A reload
// must follow. The form is closed only if it is still the one the mutation
// was submitted from.
func (m *Manager) Complete(mut Mutation) {
	switch mut.Kind {
	case MutationCreate, MutationUpdate:
		if m.formOpen && mut.form == m.formGen {
			m.CloseForm()
		}
	case MutationDelete:
		if m.pendingDeleteID == mut.ID {
			m.pendingDeleteID = ""
		}
	}
}

// Submit sends the form and reloads. On failure the form stays open with
// the draft intact.
func (m *Manager) Submit(ctx context.Context) error {
	mut, err := m.SubmitMutation()
	if err != nil {
		return err
	}
	if err := mut.Apply(ctx, m.store); err != nil {
		return err
	}
	m.Complete(mut)
	return m.Load(ctx)
}

// ConfirmDelete deletes the pending record and reloads.
func (m *Manager) ConfirmDelete(ctx context.Context) error {
	mut, err := m.BeginDelete()
	if err != nil {
		return err
	}
	if err := mut.Apply(ctx, m.store); err != nil {
		return err
	}
	m.Complete(mut)
	return m.Load(ctx)
}

// Records returns a copy of the last fetched list.
func (m *Manager) Records() []model.Appointment {
	return append([]model.Appointment(nil), m.records...)
}

// Draft returns the current form draft.
func (m *Manager) Draft() model.Appointment { return m.draft }

// IsFormOpen reports whether the create/edit form is shown.
func (m *Manager) IsFormOpen() bool { return m.formOpen }

// EditingID is the record being edited, empty in create mode.
func (m *Manager) EditingID() string { return m.editingID }

// IsEditing reports whether submitting would update rather than create.
func (m *Manager) IsEditing() bool { return m.editingID != "" }

// PendingDeleteID is the record awaiting delete confirmation, or empty.
func (m *Manager) PendingDeleteID() string { return m.pendingDeleteID }

// IsDeleteConfirmOpen reports whether the confirmation dialog is shown.
func (m *Manager) IsDeleteConfirmOpen() bool { return m.pendingDeleteID != "" }

// SearchText is the current patient name filter.
func (m *Manager) SearchText() string { return m.searchText }

// VisibleRecords returns the records whose patient name contains the search
// text, ignoring case, in list order.
func (m *Manager) VisibleRecords() []model.Appointment {
	return FilterByPatient(m.records, m.searchText)
}

// Counters computes the aggregates over the full, unfiltered list.
func (m *Manager) Counters() Counters {
	return Count(m.records)
}

// FilterByPatient keeps records whose lowercased patient name contains the
// lowercased search text.
func FilterByPatient(records []model.Appointment, search string) []model.Appointment {
	needle := strings.ToLower(search)
	out := make([]model.Appointment, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.PatientName), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Count computes Counters for records.
func Count(records []model.Appointment) Counters {
	c := Counters{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case model.StatusCompleted:
			c.Completed++
		case model.StatusCancelled:
			c.Cancelled++
		}
	}
	return c
}
