package shipment

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"shipnote/internal/api"
	"shipnote/internal/shipping"
	"shipnote/internal/tui/messages"
)

var (
	statusBoxStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("4")).Padding(0, 1)
	statusTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	statusLabelStyle = lipgloss.NewStyle().Bold(true)
	statusErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	statusInfoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	statusHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// StatusModel owns the client-visible shipment state for the currently
// selected note. State is replaced wholesale by SetInitial and mutated
// in place by refresh results; errors never change the tracked
// shipment, they only fill the message slot.
type StatusModel struct {
	client   *shipping.Client
	labelDir string

	noteID   string
	shipment *shipping.Shipment

	refreshing  bool
	downloading bool
	message     string
	savedPath   string
}

// NewStatusModel creates an empty status panel.
func NewStatusModel(client *shipping.Client, labelDir string) StatusModel {
	return StatusModel{client: client, labelDir: labelDir}
}

// SetInitial replaces the tracked shipment wholesale. It is called on
// every selection change and on shipment creation; passing a nil
// shipment discards whatever was tracked before. The note id is stored
// alongside so a shipment can never be displayed against another note.
func (m *StatusModel) SetInitial(noteID string, s *shipping.Shipment) {
	m.noteID = noteID
	m.shipment = s
	m.refreshing = false
	m.downloading = false
	m.message = ""
	m.savedPath = ""
}

// Shipment returns the tracked shipment, or nil.
func (m StatusModel) Shipment() *shipping.Shipment {
	return m.shipment
}

// NoteID returns the note the tracked shipment belongs to.
func (m StatusModel) NoteID() string {
	return m.noteID
}

// Busy reports whether a refresh or download is in flight.
func (m StatusModel) Busy() bool {
	return m.refreshing || m.downloading
}

// RefreshCmd issues a status refresh for the tracked shipment. It is a
// no-op (nil command) when there is no shipment or no shipment id. A
// missing token is rejected locally without a network call.
func (m *StatusModel) RefreshCmd(token string, epoch int) tea.Cmd {
	if m.shipment == nil || m.shipment.ShipmentID == "" {
		return nil
	}
	if token == "" {
		return func() tea.Msg {
			return messages.StatusRefreshFailedMsg{Epoch: epoch, Err: api.ErrAuthRequired}
		}
	}
	m.refreshing = true
	m.message = ""
	client := m.client
	shipmentID := m.shipment.ShipmentID
	return func() tea.Msg {
		update, err := client.ShipmentStatus(context.Background(), token, shipmentID)
		if err != nil {
			return messages.StatusRefreshFailedMsg{Epoch: epoch, Err: err}
		}
		return messages.StatusRefreshedMsg{Epoch: epoch, Update: update}
	}
}

// DownloadCmd fetches the label for the tracked shipment and writes it
// under the label directory. Same no-op and auth gates as RefreshCmd.
func (m *StatusModel) DownloadCmd(token string, epoch int) tea.Cmd {
	if m.shipment == nil || m.shipment.ShipmentID == "" {
		return nil
	}
	if token == "" {
		return func() tea.Msg {
			return messages.LabelDownloadFailedMsg{Epoch: epoch, Err: api.ErrAuthRequired}
		}
	}
	m.downloading = true
	m.message = ""
	client := m.client
	labelDir := m.labelDir
	ship := *m.shipment
	return func() tea.Msg {
		label, err := client.ShipmentLabel(context.Background(), token, ship.ShipmentID)
		if err != nil {
			return messages.LabelDownloadFailedMsg{Epoch: epoch, Err: err}
		}
		path := filepath.Join(labelDir, label.Filename(ship))
		if err := os.WriteFile(path, label.Data, 0644); err != nil {
			return messages.LabelDownloadFailedMsg{Epoch: epoch, Err: err}
		}
		return messages.LabelSavedMsg{Epoch: epoch, Path: path}
	}
}

// ApplyRefresh merges a status response into the tracked shipment.
func (m *StatusModel) ApplyRefresh(update shipping.StatusUpdate) {
	m.refreshing = false
	if m.shipment == nil {
		return
	}
	m.shipment.ApplyUpdate(update, time.Now())
}

// RefreshFailed records a refresh failure; prior state stays intact.
func (m *StatusModel) RefreshFailed(err error) {
	m.refreshing = false
	m.message = "Status refresh failed: " + err.Error()
}

// LabelSaved records where the label was written.
func (m *StatusModel) LabelSaved(path string) {
	m.downloading = false
	m.savedPath = path
}

// DownloadFailed records a label download failure.
func (m *StatusModel) DownloadFailed(err error) {
	m.downloading = false
	m.message = "Label download failed: " + err.Error()
}

// View renders the shipment panel, or an empty string when no shipment
// is tracked.
func (m StatusModel) View(width int) string {
	if m.shipment == nil {
		return ""
	}
	s := m.shipment

	row := func(label, value string) string {
		if value == "" {
			value = "N/A"
		}
		return statusLabelStyle.Render(label+": ") + value
	}

	var content string
	content += statusTitleStyle.Render("Shipment") + "\n"
	content += row("ID", s.ShipmentID) + "\n"
	content += row("Carrier", s.Carrier) + "\n"
	content += row("Carrier ID", s.CarrierShipmentID) + "\n"
	content += row("Tracking #", s.TrackingNumber) + "\n"
	content += row("Status", s.Status) + "\n"
	if s.LastKnownEvent != "" {
		content += row("Last event", s.LastKnownEvent) + "\n"
	}
	content += row("Created", s.CreatedAt.Format(time.RFC822)) + "\n"
	content += row("Updated", s.UpdatedAt.Format(time.RFC822)) + "\n"

	switch {
	case m.refreshing:
		content += statusHintStyle.Render("Refreshing...") + "\n"
	case m.downloading:
		content += statusHintStyle.Render("Downloading label...") + "\n"
	}
	if m.message != "" {
		content += statusErrStyle.Render(m.message) + "\n"
	}
	if m.savedPath != "" {
		content += statusInfoStyle.Render("Label saved to "+m.savedPath) + "\n"
	}
	content += statusHintStyle.Render("[r] refresh status  [d] download label")

	return statusBoxStyle.Width(width).Render(content)
}
