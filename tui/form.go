package tui

import (
	"strings"

	"github.com/ariebrainware/appointment-manager/model"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var fieldLabels = map[string]string{
	model.FieldPatientName:     "Patient Name",
	model.FieldDoctorName:      "Doctor Name",
	model.FieldAppointmentDate: "Date (YYYY-MM-DD)",
	model.FieldAppointmentTime: "Time (HH:MM)",
	model.FieldReason:          "Reason",
	model.FieldFee:             "Fee",
	model.FieldStatus:          "Status",
}

var fieldPlaceholders = map[string]string{
	model.FieldAppointmentDate: "2024-03-05",
	model.FieldAppointmentTime: "10:30",
	model.FieldFee:             "500",
}

// formModel is the add/edit dialog. It only holds widgets; the values
// live in the manager's draft.
type formModel struct {
	fields []string
	inputs map[string]textinput.Model
	focus  int
}

func newFormModel(draft model.Appointment) formModel {
	f := formModel{
		fields: model.EditableFields,
		inputs: make(map[string]textinput.Model, len(model.EditableFields)),
	}
	for _, name := range f.fields {
		if name == model.FieldStatus {
			continue
		}
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 120
		ti.Width = 32
		ti.Placeholder = fieldPlaceholders[name]
		ti.SetValue(draft.Field(name))
		f.inputs[name] = ti
	}
	f.setFocus(0)
	return f
}

func (f formModel) focused() string { return f.fields[f.focus] }

func (f *formModel) setFocus(i int) {
	n := len(f.fields)
	f.focus = ((i % n) + n) % n
	for name, ti := range f.inputs {
		if name == f.focused() {
			ti.Focus()
		} else {
			ti.Blur()
		}
		f.inputs[name] = ti
	}
}

func (f *formModel) next() { f.setFocus(f.focus + 1) }
func (f *formModel) prev() { f.setFocus(f.focus - 1) }

// updateInput forwards msg to the focused text input and reports the new
// value. ok is false when the status selector has focus.
func (f *formModel) updateInput(msg tea.Msg) (value string, ok bool, cmd tea.Cmd) {
	ti, found := f.inputs[f.focused()]
	if !found {
		return "", false, nil
	}
	ti, cmd = ti.Update(msg)
	f.inputs[f.focused()] = ti
	return ti.Value(), true, cmd
}

// cycleStatus returns the status delta steps away from current in
// model.Statuses. Values outside the list start from Scheduled.
func cycleStatus(current model.Status, delta int) model.Status {
	idx := 0
	for i, s := range model.Statuses {
		if s == current {
			idx = i
		}
	}
	n := len(model.Statuses)
	return model.Statuses[((idx+delta)%n+n)%n]
}

func (f formModel) view(s Styles, draft model.Appointment, editing bool) string {
	var b strings.Builder
	title := "Add Appointment"
	if editing {
		title = "Edit Appointment"
	}
	b.WriteString(s.Title.Render(title))
	b.WriteString("\n")

	for i, name := range f.fields {
		label := s.Label
		if i == f.focus {
			label = s.Focused
		}
		b.WriteString(label.Render(fieldLabels[name]))
		if name == model.FieldStatus {
			b.WriteString("< " + s.StatusStyle(draft.Status).Render(string(draft.Status)) + " >")
		} else {
			b.WriteString(f.inputs[name].View())
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(s.Help.Render("tab/↓ next • shift+tab/↑ prev • ←/→ status • ctrl+s save • esc cancel"))
	return s.Dialog.Render(b.String())
}
