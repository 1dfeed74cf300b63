// Package messages defines the cross-view messages of the TUI.
//
// Every message produced by an asynchronous shipment operation carries
// the selection epoch captured when the request was issued. The root
// model drops results whose epoch no longer matches, so a response that
// completes after the user has moved to another note can never leak
// state across notes.
package messages

import (
	"shipnote/internal/notes"
	"shipnote/internal/shipping"
)

// NotesLoadedMsg delivers the full note list, newest first.
type NotesLoadedMsg struct {
	Notes []notes.Note
}

// NotesLoadFailedMsg signals that the note list could not be fetched.
type NotesLoadFailedMsg struct {
	Err error
}

// NoteSavedMsg delivers the server's representation of a created or
// updated note.
type NoteSavedMsg struct {
	Note notes.Note
}

// NoteSaveFailedMsg signals that a note create/update failed.
type NoteSaveFailedMsg struct {
	Err error
}

// ShipmentCreatedMsg delivers a freshly created shipment.
type ShipmentCreatedMsg struct {
	Epoch    int
	Shipment shipping.Shipment
}

// ShipmentCreateFailedMsg signals that shipment creation failed.
type ShipmentCreateFailedMsg struct {
	Epoch int
	Err   error
}

// StatusRefreshedMsg delivers a partial status update to merge into the
// tracked shipment.
type StatusRefreshedMsg struct {
	Epoch  int
	Update shipping.StatusUpdate
}

// StatusRefreshFailedMsg signals that a status refresh failed; the
// tracked shipment is left untouched.
type StatusRefreshFailedMsg struct {
	Epoch int
	Err   error
}

// LabelSavedMsg reports where a downloaded label was written.
type LabelSavedMsg struct {
	Epoch int
	Path  string
}

// LabelDownloadFailedMsg signals that a label download failed.
type LabelDownloadFailedMsg struct {
	Epoch int
	Err   error
}
