// Package shipment holds the shipment form and the shipment status
// panel of the TUI.
package shipment

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"shipnote/internal/shipping"
)

var (
	formBoxStyle      = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("4")).Padding(0, 1)
	formTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	formErrStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	formHintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	carrierStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	carrierDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	focusedLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	labelStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// SubmitMsg is emitted when the form is confirmed with a usable carrier.
type SubmitMsg struct {
	CarrierID string
	Dims      shipping.DimensionInput
}

// CancelMsg is emitted when the form is dismissed.
type CancelMsg struct{}

const (
	fieldWeight = iota
	fieldLength
	fieldWidth
	fieldHeight
	fieldCount
)

// FormModel is the shipment creation form: carrier selection plus
// package dimensions. Disabled carriers stay visible in the list and
// are rejected on submit without touching the network.
type FormModel struct {
	carriers   []shipping.Carrier
	carrierIdx int
	inputs     [fieldCount]textinput.Model
	focus      int // -1 = carrier row, 0.. = dimension inputs
	Error      string
	submitting bool
}

// NewFormModel creates a shipment form with small-parcel placeholders.
func NewFormModel() FormModel {
	m := FormModel{
		carriers: shipping.Carriers(),
		focus:    -1,
	}
	placeholders := [fieldCount]string{"0.1", "10", "5", "1"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 8
		ti.Width = 10
		m.inputs[i] = ti
	}
	return m
}

// SetSubmitting toggles the in-flight indicator.
func (m *FormModel) SetSubmitting(v bool) {
	m.submitting = v
	if v {
		m.Error = ""
	}
}

// Carrier returns the currently highlighted carrier.
func (m FormModel) Carrier() shipping.Carrier {
	return m.carriers[m.carrierIdx]
}

// Dims returns the raw dimension values as typed.
func (m FormModel) Dims() shipping.DimensionInput {
	return shipping.DimensionInput{
		WeightKg: m.inputs[fieldWeight].Value(),
		LengthCm: m.inputs[fieldLength].Value(),
		WidthCm:  m.inputs[fieldWidth].Value(),
		HeightCm: m.inputs[fieldHeight].Value(),
	}
}

// Update handles key input for the form.
func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.submitting {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, func() tea.Msg { return CancelMsg{} }

	case "enter":
		carrier := m.Carrier()
		if !carrier.Enabled {
			m.Error = "Carrier " + carrier.ID + " is not implemented"
			return m, nil
		}
		m.Error = ""
		dims := m.Dims()
		id := carrier.ID
		return m, func() tea.Msg { return SubmitMsg{CarrierID: id, Dims: dims} }

	case "tab", "down":
		m = m.setFocus(m.focus + 1)
		return m, nil

	case "shift+tab", "up":
		m = m.setFocus(m.focus - 1)
		return m, nil

	case "left", "right":
		if m.focus == -1 {
			delta := 1
			if keyMsg.String() == "left" {
				delta = len(m.carriers) - 1
			}
			m.carrierIdx = (m.carrierIdx + delta) % len(m.carriers)
			m.Error = ""
			return m, nil
		}
	}

	if m.focus >= 0 {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		m.Error = ""
		return m, cmd
	}
	return m, nil
}

func (m FormModel) setFocus(focus int) FormModel {
	if focus < -1 {
		focus = fieldCount - 1
	}
	if focus >= fieldCount {
		focus = -1
	}
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = focus
	if focus >= 0 {
		m.inputs[focus].Focus()
	}
	return m
}

// View renders the form.
func (m FormModel) View(width int) string {
	labels := [fieldCount]string{"Weight (kg)", "Length (cm)", "Width (cm)", "Height (cm)"}

	var content string
	content += formTitleStyle.Render("Create Shipment") + "\n"

	carrierLabel := labelStyle
	if m.focus == -1 {
		carrierLabel = focusedLabelStyle
	}
	content += carrierLabel.Render("Carrier: ")
	for i, c := range m.carriers {
		marker := "  "
		if i == m.carrierIdx {
			marker = "> "
		}
		style := carrierStyle
		if !c.Enabled {
			style = carrierDimStyle
		}
		content += marker + style.Render(c.Label)
	}
	content += "\n"

	for i := range m.inputs {
		style := labelStyle
		if m.focus == i {
			style = focusedLabelStyle
		}
		content += style.Render(labels[i]+": ") + m.inputs[i].View() + "\n"
	}

	if m.submitting {
		content += formHintStyle.Render("Processing shipment...") + "\n"
	}
	if m.Error != "" {
		content += formErrStyle.Render(m.Error) + "\n"
	}
	content += formHintStyle.Render("[enter] ship  [tab] next field  [←/→] carrier  [esc] cancel")

	return formBoxStyle.Width(width).Render(content)
}
