package shipping

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestApplyUpdate_MergesPresentFields(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := Shipment{
		ShipmentID:     "ship-1",
		NoteID:         "note-1",
		Carrier:        "ups",
		TrackingNumber: "1Z999",
		Status:         "created",
		LastKnownEvent: "Label generated",
		CreatedAt:      created,
		UpdatedAt:      created,
	}

	responseTime := created.Add(2 * time.Hour)
	s.ApplyUpdate(StatusUpdate{
		Status:    strPtr("in_transit"),
		UpdatedAt: &responseTime,
	}, time.Now())

	if s.Status != "in_transit" {
		t.Errorf("expected status overwritten, got %q", s.Status)
	}
	// Absent fields keep their local values
	if s.TrackingNumber != "1Z999" {
		t.Errorf("expected tracking number preserved, got %q", s.TrackingNumber)
	}
	if s.LastKnownEvent != "Label generated" {
		t.Errorf("expected last event preserved, got %q", s.LastKnownEvent)
	}
	if s.Carrier != "ups" {
		t.Errorf("expected carrier preserved, got %q", s.Carrier)
	}
	if !s.UpdatedAt.Equal(responseTime) {
		t.Errorf("expected updated_at from response, got %v", s.UpdatedAt)
	}
	if !s.CreatedAt.Equal(created) {
		t.Errorf("expected created_at untouched, got %v", s.CreatedAt)
	}
}

func TestApplyUpdate_PresentEmptyOverwrites(t *testing.T) {
	s := Shipment{Status: "created", LastKnownEvent: "Label generated"}

	s.ApplyUpdate(StatusUpdate{LastKnownEvent: strPtr("")}, time.Now())

	if s.LastKnownEvent != "" {
		t.Errorf("present empty field must overwrite, got %q", s.LastKnownEvent)
	}
	if s.Status != "created" {
		t.Errorf("absent field must be preserved, got %q", s.Status)
	}
}

func TestApplyUpdate_MissingTimestampFallsBackToNow(t *testing.T) {
	s := Shipment{Status: "created"}
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	s.ApplyUpdate(StatusUpdate{Status: strPtr("delivered")}, now)

	if !s.UpdatedAt.Equal(now) {
		t.Errorf("expected updated_at = now, got %v", s.UpdatedAt)
	}
}
