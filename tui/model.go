package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/ariebrainware/appointment-manager/manager"
	"github.com/ariebrainware/appointment-manager/model"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const (
	appTitle       = "Hospital Appointment System"
	listHelp       = "a add • e/enter edit • d delete • / search • r reload • q quit"
	defaultTableHt = 12
)

// Model is the bubbletea model of the appointment screen. Update is the
// only place the manager is written to; requests run as commands.
type Model struct {
	ctx context.Context
	mgr *manager.Manager
	log *zap.Logger

	table   table.Model
	styles  Styles
	spinner spinner.Model

	searchInput   textinput.Model
	searchFocused bool
	form          *formModel

	inflight int
	mutating bool
	lastErr  error

	width  int
	height int
}

// New builds the screen around mgr. A nil logger is replaced by a no-op one.
func New(ctx context.Context, mgr *manager.Manager, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Patient", Width: 20},
			{Title: "Doctor", Width: 18},
			{Title: "Date", Width: 11},
			{Title: "Time", Width: 7},
			{Title: "Fee", Width: 10},
			{Title: "Status", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(defaultTableHt),
	)

	si := textinput.New()
	si.Placeholder = "Search Patient"
	si.CharLimit = 64
	si.Width = 30
	si.SetValue(mgr.SearchText())

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:         ctx,
		mgr:         mgr,
		log:         log.Named("tui"),
		table:       t,
		styles:      DefaultStyles(),
		spinner:     sp,
		searchInput: si,
		inflight:    1,
	}
	m.refreshTable()
	return m
}

// Init starts the spinner and the initial load, which New already counts
// as in flight.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadRecords(m.ctx, m.mgr.Store()))
}

// Manager exposes the state container, mainly for tests.
func (m Model) Manager() *manager.Manager { return m.mgr }

// LastError is the error shown in the status line, if any.
func (m Model) LastError() error { return m.lastErr }

// Busy reports whether a request is in flight.
func (m Model) Busy() bool { return m.inflight > 0 }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if h := msg.Height - 14; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case recordsLoadedMsg:
		m.done()
		if msg.err != nil {
			m.fail("load appointments", msg.err)
			return m, nil
		}
		m.lastErr = nil
		m.mgr.Replace(msg.records)
		m.log.Debug("appointments loaded", zap.Int("count", len(msg.records)))
		m.refreshTable()
		return m, nil

	case mutationDoneMsg:
		m.done()
		m.mutating = false
		if msg.err != nil {
			m.fail(msg.mutation.Kind.String()+" appointment", msg.err)
			return m, nil
		}
		m.log.Info("appointment saved",
			zap.Stringer("kind", msg.mutation.Kind),
			zap.String("appointment_id", msg.mutation.ID))
		m.mgr.Complete(msg.mutation)
		if !m.mgr.IsFormOpen() {
			m.form = nil
		}
		return m, m.startLoad()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.mgr.IsDeleteConfirmOpen():
			return m.updateDeleteDialog(msg)
		case m.form != nil:
			return m.updateForm(msg)
		case m.searchFocused:
			return m.updateSearch(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m *Model) fail(op string, err error) {
	m.lastErr = fmt.Errorf("%s: %w", op, err)
	m.log.Warn("request failed", zap.String("op", op), zap.Error(err))
}

func (m *Model) done() {
	if m.inflight > 0 {
		m.inflight--
	}
}

func (m *Model) startLoad() tea.Cmd {
	m.inflight++
	return loadRecords(m.ctx, m.mgr.Store())
}

func (m *Model) startMutation(mut manager.Mutation) tea.Cmd {
	m.inflight++
	m.mutating = true
	return applyMutation(m.ctx, m.mgr.Store(), mut)
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searchFocused = true
		return m, m.searchInput.Focus()
	case "a", "n":
		m.mgr.OpenCreate()
		f := newFormModel(m.mgr.Draft())
		m.form = &f
		return m, nil
	case "e", "enter":
		if rec, ok := m.selected(); ok {
			m.mgr.OpenEdit(rec)
			f := newFormModel(m.mgr.Draft())
			m.form = &f
		}
		return m, nil
	case "d", "x", "delete":
		if rec, ok := m.selected(); ok {
			m.mgr.RequestDelete(rec.ID)
		}
		return m, nil
	case "r":
		return m, m.startLoad()
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searchFocused = false
		m.searchInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.mgr.SetSearchText(m.searchInput.Value())
	m.refreshTable()
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	switch msg.String() {
	case "esc":
		m.mgr.CloseForm()
		m.form = nil
		return m, nil
	case "ctrl+s":
		return m.submit()
	case "enter":
		if f.focus == len(f.fields)-1 {
			return m.submit()
		}
		f.next()
		return m, nil
	case "tab", "down":
		f.next()
		return m, nil
	case "shift+tab", "up":
		f.prev()
		return m, nil
	}

	if f.focused() == model.FieldStatus {
		delta := 0
		switch msg.String() {
		case "left", "h":
			delta = -1
		case "right", "l", " ":
			delta = 1
		}
		if delta != 0 {
			next := cycleStatus(m.mgr.Draft().Status, delta)
			_ = m.mgr.UpdateDraftField(model.FieldStatus, string(next))
		}
		return m, nil
	}

	value, ok, cmd := f.updateInput(msg)
	if ok {
		if err := m.mgr.UpdateDraftField(f.focused(), value); err != nil {
			m.fail("edit field", err)
		}
	}
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.mutating {
		return m, nil
	}
	mut, err := m.mgr.SubmitMutation()
	if err != nil {
		m.fail("submit", err)
		return m, nil
	}
	return m, m.startMutation(mut)
}

func (m Model) updateDeleteDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		if m.mutating {
			return m, nil
		}
		mut, err := m.mgr.BeginDelete()
		if err != nil {
			m.fail("delete", err)
			return m, nil
		}
		return m, m.startMutation(mut)
	case "n", "esc", "q":
		m.mgr.CancelDelete()
	}
	return m, nil
}

func (m Model) selected() (model.Appointment, bool) {
	visible := m.mgr.VisibleRecords()
	i := m.table.Cursor()
	if i < 0 || i >= len(visible) {
		return model.Appointment{}, false
	}
	return visible[i], true
}

func (m *Model) refreshTable() {
	visible := m.mgr.VisibleRecords()
	rows := make([]table.Row, 0, len(visible))
	for _, a := range visible {
		rows = append(rows, table.Row{
			a.PatientName,
			a.DoctorName,
			a.DisplayDate(),
			a.AppointmentTime,
			a.DisplayFee(),
			m.styles.StatusStyle(a.Status).Render(string(a.Status)),
		})
	}
	m.table.SetRows(rows)
	if len(rows) > 0 && m.table.Cursor() >= len(rows) {
		m.table.SetCursor(len(rows) - 1)
	}
}

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render(appTitle))
	b.WriteString("\n\n")
	b.WriteString(m.viewCounters())
	b.WriteString("\n")
	b.WriteString(m.styles.Label.Render("Search Patient"))
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	switch {
	case m.form != nil:
		b.WriteString(m.form.view(m.styles, m.mgr.Draft(), m.mgr.IsEditing()))
	case m.mgr.IsDeleteConfirmOpen():
		b.WriteString(m.viewDeleteDialog())
	case len(m.mgr.VisibleRecords()) == 0:
		b.WriteString(m.styles.Muted.Render("No appointments found"))
	default:
		b.WriteString(m.table.View())
	}
	b.WriteString("\n\n")
	b.WriteString(m.viewStatusLine())
	return b.String()
}

func (m Model) viewCounters() string {
	c := m.mgr.Counters()
	card := func(title string, n int) string {
		return m.styles.Card.Render(
			m.styles.CardTitle.Render(title) + "\n" +
				m.styles.CardValue.Render(fmt.Sprintf("%d", n)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total", c.Total),
		card("Completed", c.Completed),
		card("Cancelled", c.Cancelled),
	)
}

func (m Model) viewDeleteDialog() string {
	name := m.mgr.PendingDeleteID()
	for _, r := range m.mgr.Records() {
		if r.ID == name {
			name = r.PatientName
			break
		}
	}
	body := m.styles.Title.Render("Delete Appointment?") + "\n" +
		"Appointment for " + name + " will be removed.\n\n" +
		m.styles.Help.Render("y delete • n cancel")
	return m.styles.Dialog.Render(body)
}

func (m Model) viewStatusLine() string {
	var parts []string
	if m.Busy() {
		parts = append(parts, m.spinner.View()+" Loading...")
	}
	if m.lastErr != nil {
		parts = append(parts, m.styles.Error.Render("Error: "+m.lastErr.Error()))
	}
	parts = append(parts, m.styles.Help.Render(listHelp))
	return strings.Join(parts, "\n")
}

// Run starts the screen and blocks until the user quits.
func Run(ctx context.Context, mgr *manager.Manager, log *zap.Logger, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, mgr, log), opts...).Run()
	return err
}
