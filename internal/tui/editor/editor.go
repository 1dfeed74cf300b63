// Package editor holds the note editor form.
package editor

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"shipnote/internal/notes"
)

var (
	boxStyle          = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("4")).Padding(0, 1)
	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	errStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	focusedLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	sectionStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
)

// ResultMsg is emitted when editing finishes. Cancelled results carry
// no note.
type ResultMsg struct {
	Note      notes.Note
	Cancelled bool
}

const (
	fieldTitle = iota
	fieldContent
	fieldShippable
	fieldRecipientName
	fieldAddressLine1
	fieldAddressLine2
	fieldCity
	fieldPostalCode
	fieldCountry
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Title", "Content", "Shippable", "Recipient name",
	"Address line 1", "Address line 2 (optional)", "City", "Postal code", "Country (2-letter)",
}

// Model is the note editor. Editing an existing note pre-fills the
// fields; a zero note id means a new note is being created.
type Model struct {
	original  notes.Note
	isNew     bool
	shippable bool
	inputs    map[int]textinput.Model
	content   textarea.Model
	focus     int
	Error     string
	saving    bool
}

// New creates an editor. Pass the zero Note for a new note.
func New(note notes.Note) Model {
	m := Model{
		original:  note,
		isNew:     note.ID == "",
		shippable: note.IsShippable,
		inputs:    make(map[int]textinput.Model),
		focus:     fieldTitle,
	}

	values := map[int]string{
		fieldTitle:         note.Title,
		fieldRecipientName: note.RecipientName,
		fieldAddressLine1:  note.RecipientAddressLine1,
		fieldAddressLine2:  note.RecipientAddressLine2,
		fieldCity:          note.RecipientCity,
		fieldPostalCode:    note.RecipientPostalCode,
		fieldCountry:       note.RecipientCountry,
	}
	for field, value := range values {
		ti := textinput.New()
		ti.CharLimit = 256
		ti.Width = 40
		ti.SetValue(value)
		if field == fieldCountry {
			ti.CharLimit = 2
			ti.Width = 4
		}
		m.inputs[field] = ti
	}

	ta := textarea.New()
	ta.SetValue(note.Content)
	ta.SetHeight(6)
	ta.SetWidth(60)
	m.content = ta

	ti := m.inputs[fieldTitle]
	ti.Focus()
	m.inputs[fieldTitle] = ti

	return m
}

// IsNew reports whether the editor creates a note rather than updating.
func (m Model) IsNew() bool {
	return m.isNew
}

// SetSaving toggles the in-flight indicator.
func (m *Model) SetSaving(v bool) {
	m.saving = v
	if v {
		m.Error = ""
	}
}

// Draft assembles the note as currently edited, keeping the server
// -assigned fields of the original.
func (m Model) Draft() notes.Note {
	draft := m.original
	draft.Title = m.inputs[fieldTitle].Value()
	draft.Content = m.content.Value()
	draft.IsShippable = m.shippable
	draft.RecipientName = m.inputs[fieldRecipientName].Value()
	draft.RecipientAddressLine1 = m.inputs[fieldAddressLine1].Value()
	draft.RecipientAddressLine2 = m.inputs[fieldAddressLine2].Value()
	draft.RecipientCity = m.inputs[fieldCity].Value()
	draft.RecipientPostalCode = m.inputs[fieldPostalCode].Value()
	draft.RecipientCountry = m.inputs[fieldCountry].Value()
	return draft
}

// Update handles key input for the editor.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey && m.saving {
		return m, nil
	}
	if isKey {
		switch keyMsg.String() {
		case "esc":
			return m, func() tea.Msg { return ResultMsg{Cancelled: true} }

		case "ctrl+s":
			draft := m.Draft()
			if err := draft.Validate(); err != nil {
				m.Error = err.Error()
				return m, nil
			}
			m.Error = ""
			return m, func() tea.Msg { return ResultMsg{Note: draft} }

		case "tab", "shift+tab":
			delta := 1
			if keyMsg.String() == "shift+tab" {
				delta = -1
			}
			m = m.moveFocus(delta)
			return m, nil

		case " ":
			if m.focus == fieldShippable {
				m.shippable = !m.shippable
				m.Error = ""
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch {
	case m.focus == fieldContent:
		m.content, cmd = m.content.Update(msg)
	case m.focus != fieldShippable:
		input := m.inputs[m.focus]
		input, cmd = input.Update(msg)
		m.inputs[m.focus] = input
	}
	if isKey {
		m.Error = ""
	}
	return m, cmd
}

// moveFocus advances focus, skipping recipient fields while the note is
// not marked shippable.
func (m Model) moveFocus(delta int) Model {
	for i := range m.inputs {
		input := m.inputs[i]
		input.Blur()
		m.inputs[i] = input
	}
	m.content.Blur()

	next := m.focus
	for {
		next += delta
		if next >= fieldCount {
			next = fieldTitle
		}
		if next < fieldTitle {
			next = fieldCount - 1
		}
		if next > fieldShippable && !m.shippable {
			continue
		}
		break
	}
	m.focus = next

	switch {
	case m.focus == fieldContent:
		m.content.Focus()
	case m.focus != fieldShippable:
		input := m.inputs[m.focus]
		input.Focus()
		m.inputs[m.focus] = input
	}
	return m
}

// View renders the editor.
func (m Model) View(width int) string {
	heading := "Edit Note"
	if m.isNew {
		heading = "Create New Note"
	}

	label := func(field int) string {
		if m.focus == field {
			return focusedLabelStyle.Render(fieldLabels[field] + ": ")
		}
		return labelStyle.Render(fieldLabels[field] + ": ")
	}

	var content string
	content += titleStyle.Render(heading) + "\n"
	content += label(fieldTitle) + m.inputs[fieldTitle].View() + "\n"
	content += label(fieldContent) + "\n" + m.content.View() + "\n"

	check := "[ ]"
	if m.shippable {
		check = "[x]"
	}
	content += label(fieldShippable) + check + " this note can be shipped\n"

	if m.shippable {
		content += sectionStyle.Render("Recipient Shipping Address") + "\n"
		for field := fieldRecipientName; field <= fieldCountry; field++ {
			content += label(field) + m.inputs[field].View() + "\n"
		}
	}

	if m.saving {
		content += hintStyle.Render("Saving...") + "\n"
	}
	if m.Error != "" {
		content += errStyle.Render("Error: "+m.Error) + "\n"
	}
	content += hintStyle.Render("[ctrl+s] save  [tab] next field  [space] toggle shippable  [esc] cancel")

	return boxStyle.Width(width).Render(content)
}
