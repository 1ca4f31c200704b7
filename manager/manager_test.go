package manager

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ariebrainware/appointment-manager/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	Op     string
	ID     string
	Record model.Appointment
}

// recordingStore is an in-memory Store that records every call.
type recordingStore struct {
	records []model.Appointment
	calls   []call
	nextID  int

	listErr   error
	createErr error
	updateErr error
	deleteErr error
}

func (s *recordingStore) List(ctx context.Context) ([]model.Appointment, error) {
	s.calls = append(s.calls, call{Op: "list"})
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]model.Appointment(nil), s.records...), nil
}

func (s *recordingStore) Create(ctx context.Context, appt model.Appointment) (model.Appointment, error) {
	s.calls = append(s.calls, call{Op: "create", Record: appt})
	if s.createErr != nil {
		return model.Appointment{}, s.createErr
	}
	s.nextID++
	appt.ID = "new-" + string(rune('0'+s.nextID))
	s.records = append(s.records, appt)
	return appt, nil
}

func (s *recordingStore) Update(ctx context.Context, id string, appt model.Appointment) (model.Appointment, error) {
	s.calls = append(s.calls, call{Op: "update", ID: id, Record: appt})
	if s.updateErr != nil {
		return model.Appointment{}, s.updateErr
	}
	for i := range s.records {
		if s.records[i].ID == id {
			appt.ID = id
			s.records[i] = appt
		}
	}
	return appt, nil
}

func (s *recordingStore) Delete(ctx context.Context, id string) error {
	s.calls = append(s.calls, call{Op: "delete", ID: id})
	if s.deleteErr != nil {
		return s.deleteErr
	}
	kept := s.records[:0]
	for _, r := range s.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.records = kept
	return nil
}

func (s *recordingStore) ops() []string {
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.Op)
	}
	return out
}

func scenarioRecords() []model.Appointment {
	return []model.Appointment{
		{ID: "1", PatientName: "Anu", Status: model.StatusCompleted},
		{ID: "2", PatientName: "Banu", Status: model.StatusCancelled},
		{ID: "3", PatientName: "anuja", Status: model.StatusScheduled},
	}
}

func loadedManager(t *testing.T) (*Manager, *recordingStore) {
	t.Helper()
	store := &recordingStore{records: scenarioRecords()}
	m := New(store)
	require.NoError(t, m.Load(context.Background()))
	store.calls = nil
	return m, store
}

func ids(records []model.Appointment) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestNew_InitialState(t *testing.T) {
	m := New(&recordingStore{})
	assert.Empty(t, m.Records())
	assert.Equal(t, model.EmptyDraft(), m.Draft())
	assert.False(t, m.IsFormOpen())
	assert.False(t, m.IsDeleteConfirmOpen())
	assert.Empty(t, m.SearchText())
	assert.Equal(t, Counters{}, m.Counters())
}

func TestLoad_ReplacesRecords(t *testing.T) {
	store := &recordingStore{records: scenarioRecords()}
	m := New(store)

	require.NoError(t, m.Load(context.Background()))
	assert.Equal(t, []string{"1", "2", "3"}, ids(m.Records()))

	store.records = store.records[:1]
	require.NoError(t, m.Load(context.Background()))
	assert.Equal(t, []string{"1"}, ids(m.Records()))
}

func TestLoad_ErrorKeepsRecords(t *testing.T) {
	m, store := loadedManager(t)
	store.listErr = errors.New("connection refused")

	err := m.Load(context.Background())
	assert.Error(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids(m.Records()))
}

func TestRecords_ReturnsCopy(t *testing.T) {
	m, _ := loadedManager(t)
	recs := m.Records()
	recs[0].PatientName = "mutated"
	assert.Equal(t, "Anu", m.Records()[0].PatientName)
}

func TestVisibleRecords_EmptySearchIsIdentity(t *testing.T) {
	m, _ := loadedManager(t)
	assert.Equal(t, m.Records(), m.VisibleRecords())
}

func TestVisibleRecords_Scenario(t *testing.T) {
	m, _ := loadedManager(t)
	m.SetSearchText("anu")

	// "Banu" contains "anu" as well.
	assert.Equal(t, []string{"1", "2", "3"}, ids(m.VisibleRecords()))
	assert.Equal(t, Counters{Total: 3, Completed: 1, Cancelled: 1}, m.Counters())

	m.SetSearchText("ANU")
	assert.Equal(t, []string{"1", "2", "3"}, ids(m.VisibleRecords()))

	m.SetSearchText("anuj")
	assert.Equal(t, []string{"3"}, ids(m.VisibleRecords()))
	assert.Equal(t, Counters{Total: 3, Completed: 1, Cancelled: 1}, m.Counters())
}

func TestFilterByPatient_KeepsOrder(t *testing.T) {
	got := FilterByPatient([]model.Appointment{
		{ID: "1", PatientName: "Anu"},
		{ID: "2", PatientName: "Ravi"},
		{ID: "3", PatientName: "anuja"},
	}, "Anu")
	assert.Equal(t, []string{"1", "3"}, ids(got))
}

func TestVisibleRecords_CaseInsensitiveSubstring(t *testing.T) {
	m, _ := loadedManager(t)
	for _, search := range []string{"ANU", "aNu", "nu", "a", "JA", "zz", "Banu "} {
		m.SetSearchText(search)
		visible := m.VisibleRecords()
		for _, r := range m.Records() {
			want := strings.Contains(strings.ToLower(r.PatientName), strings.ToLower(search))
			got := false
			for _, v := range visible {
				if v.ID == r.ID {
					got = true
				}
			}
			assert.Equal(t, want, got, "search %q record %s", search, r.ID)
		}
	}
}

func TestCounters_Invariants(t *testing.T) {
	m, store := loadedManager(t)
	store.records = append(store.records,
		model.Appointment{ID: "4", PatientName: "Dee", Status: model.StatusCompleted},
		model.Appointment{ID: "5", PatientName: "Eve", Status: "Unknown"},
	)
	require.NoError(t, m.Load(context.Background()))

	m.SetSearchText("zzz")
	c := m.Counters()
	assert.Equal(t, len(m.Records()), c.Total)
	assert.Equal(t, 2, c.Completed)
	assert.Equal(t, 1, c.Cancelled)
	assert.LessOrEqual(t, c.Completed+c.Cancelled, c.Total)
}

func TestOpenCreate_YieldsEmptyTemplate(t *testing.T) {
	m, _ := loadedManager(t)
	m.OpenEdit(m.Records()[0])
	require.NoError(t, m.UpdateDraftField(model.FieldReason, "leftover"))

	m.OpenCreate()
	assert.True(t, m.IsFormOpen())
	assert.False(t, m.IsEditing())
	assert.Empty(t, m.EditingID())
	if diff := cmp.Diff(model.EmptyDraft(), m.Draft()); diff != "" {
		t.Fatalf("draft mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenEdit_CopiesRecord(t *testing.T) {
	m, _ := loadedManager(t)
	rec := model.Appointment{
		ID:              "2",
		PatientName:     "Banu",
		DoctorName:      "Dr. Rao",
		AppointmentDate: "2024-03-05",
		AppointmentTime: "10:00",
		Reason:          "Follow-up",
		Fee:             "250",
		Status:          model.StatusCancelled,
	}

	m.OpenEdit(rec)
	assert.True(t, m.IsFormOpen())
	assert.Equal(t, "2", m.EditingID())
	if diff := cmp.Diff(rec, m.Draft()); diff != "" {
		t.Fatalf("draft mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, m.UpdateDraftField(model.FieldPatientName, "Changed"))
	assert.Equal(t, "Banu", rec.PatientName)
}

func TestUpdateDraftField(t *testing.T) {
	m := New(&recordingStore{})
	m.OpenCreate()

	require.NoError(t, m.UpdateDraftField(model.FieldFee, "not a number"))
	require.NoError(t, m.UpdateDraftField(model.FieldAppointmentDate, "2024-13-45"))
	assert.Equal(t, model.Fee("not a number"), m.Draft().Fee)
	assert.Equal(t, "2024-13-45", m.Draft().AppointmentDate)

	assert.ErrorIs(t, m.UpdateDraftField("_id", "x"), ErrUnknownField)
	assert.Empty(t, m.Draft().ID)
}

func TestSubmit_CreateScenario(t *testing.T) {
	m, store := loadedManager(t)
	m.OpenCreate()
	require.NoError(t, m.UpdateDraftField(model.FieldPatientName, "Cid"))
	require.NoError(t, m.UpdateDraftField(model.FieldFee, "100"))

	require.NoError(t, m.Submit(context.Background()))

	require.Equal(t, []string{"create", "list"}, store.ops())
	sent := store.calls[0].Record
	assert.Empty(t, sent.ID)
	assert.Equal(t, "Cid", sent.PatientName)
	assert.Equal(t, model.Fee("100"), sent.Fee)
	assert.Equal(t, model.StatusScheduled, sent.Status)

	assert.False(t, m.IsFormOpen())
	assert.Len(t, m.Records(), 4)
	assert.Equal(t, 4, m.Counters().Total)
}

func TestSubmit_UpdateSendsFullDraftToEditingID(t *testing.T) {
	m, store := loadedManager(t)
	m.OpenEdit(m.Records()[2])
	require.NoError(t, m.UpdateDraftField(model.FieldStatus, string(model.StatusCompleted)))
	want := m.Draft()

	require.NoError(t, m.Submit(context.Background()))

	require.Equal(t, []string{"update", "list"}, store.ops())
	assert.Equal(t, "3", store.calls[0].ID)
	if diff := cmp.Diff(want, store.calls[0].Record); diff != "" {
		t.Fatalf("update payload mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, m.IsFormOpen())
	assert.Equal(t, Counters{Total: 3, Completed: 2, Cancelled: 1}, m.Counters())
}

func TestSubmit_FailureKeepsFormOpen(t *testing.T) {
	m, store := loadedManager(t)
	store.createErr = errors.New("boom")
	m.OpenCreate()
	require.NoError(t, m.UpdateDraftField(model.FieldPatientName, "Cid"))

	err := m.Submit(context.Background())
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"create"}, store.ops())
	assert.True(t, m.IsFormOpen())
	assert.Equal(t, "Cid", m.Draft().PatientName)
	assert.Len(t, m.Records(), 3)
}

func TestSubmit_FormClosed(t *testing.T) {
	m, store := loadedManager(t)
	assert.ErrorIs(t, m.Submit(context.Background()), ErrFormClosed)
	assert.Empty(t, store.calls)
}

func TestConfirmDelete(t *testing.T) {
	m, store := loadedManager(t)
	m.RequestDelete("2")
	assert.True(t, m.IsDeleteConfirmOpen())

	require.NoError(t, m.ConfirmDelete(context.Background()))

	require.Equal(t, []string{"delete", "list"}, store.ops())
	assert.Equal(t, "2", store.calls[0].ID)
	assert.Empty(t, m.PendingDeleteID())
	assert.Equal(t, []string{"1", "3"}, ids(m.Records()))
}

func TestConfirmDelete_FailureStillClearsPending(t *testing.T) {
	m, store := loadedManager(t)
	store.deleteErr = errors.New("gone away")
	m.RequestDelete("2")

	assert.Error(t, m.ConfirmDelete(context.Background()))
	assert.Equal(t, []string{"delete"}, store.ops())
	assert.False(t, m.IsDeleteConfirmOpen())
	assert.Len(t, m.Records(), 3)
}

func TestConfirmDelete_NothingPending(t *testing.T) {
	m, store := loadedManager(t)
	assert.ErrorIs(t, m.ConfirmDelete(context.Background()), ErrNoPendingDelete)
	assert.Empty(t, store.calls)
}

func TestRequestThenCancelDelete_NoRequest(t *testing.T) {
	m, store := loadedManager(t)
	before := m.Records()

	m.RequestDelete("2")
	m.CancelDelete()

	assert.Empty(t, store.calls)
	assert.Empty(t, m.PendingDeleteID())
	assert.Equal(t, before, m.Records())
}

func TestCloseForm_NoRequest(t *testing.T) {
	m, store := loadedManager(t)
	m.OpenEdit(m.Records()[0])
	m.CloseForm()

	assert.False(t, m.IsFormOpen())
	assert.Empty(t, m.EditingID())
	assert.Empty(t, store.calls)
}

func TestFormAndDeleteDialogsAreIndependent(t *testing.T) {
	m, _ := loadedManager(t)
	m.OpenCreate()
	m.RequestDelete("1")
	assert.True(t, m.IsFormOpen())
	assert.True(t, m.IsDeleteConfirmOpen())

	m.CancelDelete()
	assert.True(t, m.IsFormOpen())
}
