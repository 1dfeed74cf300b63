package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"shipnote/internal/api"
	"shipnote/internal/config"
	"shipnote/internal/logs"
	"shipnote/internal/notes"
	"shipnote/internal/shipping"
	"shipnote/internal/tui/editor"
	"shipnote/internal/tui/messages"
	"shipnote/internal/tui/shipment"
)

// AppModel is the root model. It keeps the selected note and its
// shipment state mutually consistent: selecting or editing a note
// always discards the tracked shipment, and every asynchronous shipment
// result is checked against the selection epoch captured when the
// request was issued.
type AppModel struct {
	cfg         *config.Config
	notesClient *notes.Client
	shipClient  *shipping.Client

	allNotes []notes.Note
	cursor   int
	selected *notes.Note
	noteEd   *editor.Model
	shipForm *shipment.FormModel
	shipView shipment.StatusModel

	// epoch increments on every selection change; async results carry
	// the epoch at issue time and stale ones are dropped.
	epoch int

	searchInput textinput.Model
	searching   bool

	loadingNotes bool
	loggedOut    bool
	noteErr      string

	showHelp bool
	width    int
	height   int
	ready    bool
}

// NewAppModel creates the root application model.
func NewAppModel(cfg *config.Config, notesClient *notes.Client, shipClient *shipping.Client) AppModel {
	search := textinput.New()
	search.Placeholder = "search notes"
	search.CharLimit = 64

	return AppModel{
		cfg:          cfg,
		notesClient:  notesClient,
		shipClient:   shipClient,
		shipView:     shipment.NewStatusModel(shipClient, cfg.LabelDir),
		searchInput:  search,
		loadingNotes: true,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.fetchNotesCmd()
}

func (m AppModel) fetchNotesCmd() tea.Cmd {
	client := m.notesClient
	token := m.cfg.Token
	return func() tea.Msg {
		fetched, err := client.List(context.Background(), token)
		if err != nil {
			return messages.NotesLoadFailedMsg{Err: err}
		}
		return messages.NotesLoadedMsg{Notes: fetched}
	}
}

func (m AppModel) saveNoteCmd(draft notes.Note, isNew bool) tea.Cmd {
	client := m.notesClient
	token := m.cfg.Token
	return func() tea.Msg {
		ctx := context.Background()
		var saved notes.Note
		var err error
		if isNew {
			saved, err = client.Create(ctx, token, draft)
		} else {
			saved, err = client.Update(ctx, token, draft.ID, draft)
		}
		if err != nil {
			return messages.NoteSaveFailedMsg{Err: err}
		}
		return messages.NoteSavedMsg{Note: saved}
	}
}

func (m AppModel) createShipmentCmd(request shipping.ShipmentRequest, epoch int) tea.Cmd {
	client := m.shipClient
	token := m.cfg.Token
	return func() tea.Msg {
		created, err := client.CreateShipment(context.Background(), token, request)
		if err != nil {
			return messages.ShipmentCreateFailedMsg{Epoch: epoch, Err: err}
		}
		return messages.ShipmentCreatedMsg{Epoch: epoch, Shipment: created}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case messages.NotesLoadedMsg:
		m.loadingNotes = false
		m.allNotes = msg.Notes
		if m.cursor >= len(m.allNotes) {
			m.cursor = 0
		}
		return m, nil

	case messages.NotesLoadFailedMsg:
		m.loadingNotes = false
		if errors.Is(msg.Err, api.ErrAuthRequired) || api.IsAuthFailure(msg.Err) {
			// Session is gone; downgrade instead of showing a note error.
			m.loggedOut = true
			return m, nil
		}
		m.noteErr = msg.Err.Error()
		return m, nil

	case editor.ResultMsg:
		if m.noteEd == nil {
			return m, nil
		}
		if msg.Cancelled {
			m.noteEd = nil
			return m, nil
		}
		if m.cfg.Token == "" {
			m.noteEd.Error = "Authentication required."
			return m, nil
		}
		isNew := m.noteEd.IsNew()
		m.noteEd.SetSaving(true)
		return m, m.saveNoteCmd(msg.Note, isNew)

	case messages.NoteSavedMsg:
		m.saveNote(msg.Note)
		return m, nil

	case messages.NoteSaveFailedMsg:
		if m.noteEd != nil {
			m.noteEd.SetSaving(false)
			m.noteEd.Error = msg.Err.Error()
		} else {
			m.noteErr = msg.Err.Error()
		}
		return m, nil

	case shipment.SubmitMsg:
		if m.shipForm == nil || m.selected == nil {
			return m, nil
		}
		request, err := shipping.BuildRequest(*m.selected, msg.CarrierID, msg.Dims)
		if err != nil {
			m.shipForm.Error = err.Error()
			return m, nil
		}
		if m.cfg.Token == "" {
			m.shipForm.Error = "Authentication required to ship."
			return m, nil
		}
		m.shipForm.SetSubmitting(true)
		return m, m.createShipmentCmd(request, m.epoch)

	case shipment.CancelMsg:
		m.shipForm = nil
		return m, nil

	case messages.ShipmentCreatedMsg:
		if msg.Epoch != m.epoch {
			logs.Logger.Printf("Dropping stale shipment creation result (epoch %d, current %d)", msg.Epoch, m.epoch)
			return m, nil
		}
		m.shipForm = nil
		m.shipmentCreated(msg.Shipment)
		return m, nil

	case messages.ShipmentCreateFailedMsg:
		if msg.Epoch != m.epoch {
			return m, nil
		}
		if m.shipForm != nil {
			m.shipForm.SetSubmitting(false)
			m.shipForm.Error = msg.Err.Error()
		}
		return m, nil

	case messages.StatusRefreshedMsg:
		if msg.Epoch != m.epoch {
			logs.Logger.Printf("Dropping stale status refresh (epoch %d, current %d)", msg.Epoch, m.epoch)
			return m, nil
		}
		m.shipView.ApplyRefresh(msg.Update)
		return m, nil

	case messages.StatusRefreshFailedMsg:
		if msg.Epoch != m.epoch {
			return m, nil
		}
		m.shipView.RefreshFailed(msg.Err)
		return m, nil

	case messages.LabelSavedMsg:
		if msg.Epoch != m.epoch {
			return m, nil
		}
		m.shipView.LabelSaved(msg.Path)
		return m, nil

	case messages.LabelDownloadFailedMsg:
		if msg.Epoch != m.epoch {
			return m, nil
		}
		m.shipView.DownloadFailed(msg.Err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.loggedOut {
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	}

	// Modal children handle their own keys.
	if m.noteEd != nil {
		ed, cmd := m.noteEd.Update(msg)
		m.noteEd = &ed
		return m, cmd
	}
	if m.shipForm != nil {
		form, cmd := m.shipForm.Update(msg)
		m.shipForm = &form
		return m, cmd
	}

	if m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.searchInput.SetValue("")
			m.searchInput.Blur()
			m.cursor = 0
			return m, nil
		case "enter":
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.cursor = 0
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.visibleNotes())-1 {
			m.cursor++
		}
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "enter":
		visible := m.visibleNotes()
		if m.cursor >= 0 && m.cursor < len(visible) {
			m.selectNote(visible[m.cursor])
		}
		return m, nil

	case "n":
		m.startEdit(nil)
		return m, nil

	case "e":
		if m.selected != nil {
			m.startEdit(m.selected)
		}
		return m, nil

	case "s":
		if m.selected != nil && m.selected.ShippingEligible() && m.shipView.Shipment() == nil {
			form := shipment.NewFormModel()
			m.shipForm = &form
		}
		return m, nil

	case "r":
		if m.shipView.Busy() {
			return m, nil
		}
		return m, m.shipView.RefreshCmd(m.cfg.Token, m.epoch)

	case "d":
		if m.shipView.Busy() {
			return m, nil
		}
		return m, m.shipView.DownloadCmd(m.cfg.Token, m.epoch)

	case "/":
		m.searching = true
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		m.cursor = 0
		return m, nil

	case "?":
		m.showHelp = true
		return m, nil
	}

	return m, nil
}

// selectNote makes n the selected note. The edit target and any tracked
// shipment are discarded and the epoch is bumped so in-flight shipment
// results for the previous selection are ignored on arrival. No
// shipment history is re-fetched for the new note: a shipment only
// reappears when created in this session.
func (m *AppModel) selectNote(n notes.Note) {
	note := n
	m.selected = &note
	m.noteEd = nil
	m.shipForm = nil
	m.epoch++
	m.shipView.SetInitial(note.ID, nil)
	m.noteErr = ""
}

// startEdit opens the editor for note, or for a new note when note is
// nil. Editing discards the tracked shipment like a selection change.
func (m *AppModel) startEdit(note *notes.Note) {
	var ed editor.Model
	if note != nil {
		ed = editor.New(*note)
	} else {
		ed = editor.New(notes.Note{})
		m.selected = nil
	}
	m.noteEd = &ed
	m.shipForm = nil
	m.epoch++
	m.shipView.SetInitial("", nil)
}

// saveNote folds the server's representation back into the list:
// replace by id when the note existed, prepend otherwise. The saved
// note becomes the selection.
func (m *AppModel) saveNote(saved notes.Note) {
	replaced := false
	for i := range m.allNotes {
		if m.allNotes[i].ID == saved.ID {
			m.allNotes[i] = saved
			replaced = true
			break
		}
	}
	if !replaced {
		m.allNotes = append([]notes.Note{saved}, m.allNotes...)
	}
	m.selectNote(saved)
	for i, n := range m.visibleNotes() {
		if n.ID == saved.ID {
			m.cursor = i
			break
		}
	}
}

// shipmentCreated attaches a freshly created shipment to the selected
// note. A shipment whose note id does not match the selection is never
// stored; the pairing is enforced here, not at render time.
func (m *AppModel) shipmentCreated(s shipping.Shipment) {
	if m.selected == nil || s.NoteID != m.selected.ID {
		logs.Logger.Printf("Dropping shipment %s: note %s is not the current selection", s.ShipmentID, s.NoteID)
		return
	}
	m.shipView.SetInitial(m.selected.ID, &s)
}

// visibleNotes returns the note list filtered by the search query.
func (m AppModel) visibleNotes() []notes.Note {
	query := strings.TrimSpace(m.searchInput.Value())
	if query == "" {
		return m.allNotes
	}
	titles := make([]string, len(m.allNotes))
	for i, n := range m.allNotes {
		titles[i] = n.DisplayTitle()
	}
	matches := fuzzy.Find(query, titles)
	filtered := make([]notes.Note, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, m.allNotes[match.Index])
	}
	return filtered
}

func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.loggedOut {
		msg := TitleStyle.Render("Session expired") + "\n\n" +
			HelpStyle.Render("Set SHIPNOTE_TOKEN (or the token config field) to a valid bearer token and restart.\n[q] quit")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
	}

	contentHeight := m.height - 3
	listWidth := m.width / 3
	detailWidth := m.width - listWidth - 2

	left := m.renderList(listWidth, contentHeight)
	right := m.renderDetail(detailWidth)

	content := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(listWidth).Height(contentHeight).Render(left),
		lipgloss.NewStyle().Width(detailWidth).Height(contentHeight).Render(right),
	)

	statusText := "j/k: move  enter: select  n: new  e: edit  s: ship  r: refresh  d: label  /: search  ?: help  q: quit"
	if m.searching {
		statusText = "Search | enter: keep filter  esc: clear"
	}
	statusBar := StatusBarStyle.Width(m.width).Render(HelpStyle.Render(statusText))

	return lipgloss.JoinVertical(lipgloss.Left, content, statusBar)
}

func (m AppModel) renderList(width, height int) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Notes") + "\n")

	if m.searching || m.searchInput.Value() != "" {
		b.WriteString(m.searchInput.View() + "\n")
	}
	if m.loadingNotes {
		b.WriteString(HelpStyle.Render("Loading notes...") + "\n")
	}
	if m.noteErr != "" {
		b.WriteString(ErrorStyle.Render(m.noteErr) + "\n")
	}

	visible := m.visibleNotes()
	if len(visible) == 0 && !m.loadingNotes {
		b.WriteString(HelpStyle.Render("No notes. Press n to create one."))
		return b.String()
	}

	for i, n := range visible {
		style := ListItemStyle
		if i == m.cursor {
			style = ListItemSelectedStyle
		}
		title := n.DisplayTitle()
		if len(title) > width-6 && width > 9 {
			title = title[:width-9] + "..."
		}
		line := style.Render(title)
		if n.IsShippable {
			line += " " + ShippableTagStyle.Render("(shippable)")
		}
		b.WriteString(line + "\n")
		meta := n.CreatedAt.Format("2006-01-02")
		if preview := n.Preview(); preview != "" {
			meta += "  " + preview
		}
		b.WriteString("  " + ListMetaStyle.Render(meta) + "\n")
	}
	return b.String()
}

func (m AppModel) renderDetail(width int) string {
	if m.noteEd != nil {
		return m.noteEd.View(width)
	}
	if m.selected == nil {
		return HelpStyle.Render("Select a note to view or edit, or press n to create one.")
	}

	n := m.selected
	var b strings.Builder
	b.WriteString(TitleStyle.Render(n.DisplayTitle()) + "\n\n")
	b.WriteString(n.Content + "\n\n")
	b.WriteString(ListMetaStyle.Render("Created: "+n.CreatedAt.Format(time.RFC822)) + "\n")

	if n.IsShippable {
		b.WriteString(ListMetaStyle.Render("Recipient: "+n.RecipientName) + "\n")
		addr := n.RecipientAddressLine1
		if n.RecipientAddressLine2 != "" {
			addr += ", " + n.RecipientAddressLine2
		}
		b.WriteString(ListMetaStyle.Render(addr) + "\n")
		b.WriteString(ListMetaStyle.Render(n.RecipientCity+", "+n.RecipientPostalCode+", "+n.RecipientCountry) + "\n")
	}

	if m.shipForm != nil {
		b.WriteString("\n" + m.shipForm.View(width-2))
	} else if ship := m.shipView.View(width - 2); ship != "" {
		b.WriteString("\n" + ship)
	} else if n.ShippingEligible() {
		b.WriteString("\n" + HelpStyle.Render("[s] create shipment for this note"))
	}

	return DetailBoxStyle.Width(width).Render(b.String())
}

func (m AppModel) renderHelpOverlay() string {
	helpBoxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("4")).
		Padding(1, 2)

	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))

	line := func(key, desc string) string {
		return "  " + keyStyle.Width(14).Render(key) + descStyle.Render(desc)
	}

	var content string
	content += sectionStyle.Render("Shipnote - Keyboard Shortcuts") + "\n\n"

	content += sectionStyle.Render("Notes") + "\n"
	content += line("j / k", "Navigate notes") + "\n"
	content += line("enter", "Select note") + "\n"
	content += line("n", "New note") + "\n"
	content += line("e", "Edit selected note") + "\n"
	content += line("/", "Search notes") + "\n\n"

	content += sectionStyle.Render("Shipping") + "\n"
	content += line("s", "Create shipment for selected note") + "\n"
	content += line("r", "Refresh shipment status") + "\n"
	content += line("d", "Download shipping label") + "\n\n"

	content += sectionStyle.Render("General") + "\n"
	content += line("?", "Show this help") + "\n"
	content += line("q", "Quit") + "\n"
	content += line("ctrl+c", "Force quit") + "\n\n"

	content += HelpStyle.Render("Press any key to close")

	box := helpBoxStyle.Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
