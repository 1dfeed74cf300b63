package shipping

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shipnote/internal/api"
)

func TestCreateShipment(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq ShipmentRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"shipment_id":     "ship-1",
			"note_id":         gotReq.NoteID,
			"carrier":         gotReq.Carrier,
			"tracking_number": "1Z999",
			"status":          "created",
		})
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	request := ShipmentRequest{NoteID: "note-1", Carrier: "ups", PackageWeightKg: 0.1}
	created, err := client.CreateShipment(context.Background(), "tok", request)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer tok" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if gotPath != "/shipments/" {
		t.Errorf("expected POST /shipments/, got %q", gotPath)
	}
	if gotReq.NoteID != "note-1" || gotReq.Carrier != "ups" {
		t.Errorf("request body not carried over: %+v", gotReq)
	}
	if created.ShipmentID != "ship-1" || created.TrackingNumber != "1Z999" {
		t.Errorf("unexpected shipment: %+v", created)
	}
}

func TestCreateShipment_ServerDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "Carrier royal_mail is not supported"}`))
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)
	_, err := client.CreateShipment(context.Background(), "tok", ShipmentRequest{})
	if err == nil {
		t.Fatal("expected error")
	}

	var reqErr *api.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %T", err)
	}
	if reqErr.Status != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", reqErr.Status)
	}
	if reqErr.Message != "Carrier royal_mail is not supported" {
		t.Errorf("expected detail message, got %q", reqErr.Message)
	}
}

func TestCreateShipment_NoToken(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)
	_, err := client.CreateShipment(context.Background(), "", ShipmentRequest{})
	if !errors.Is(err, api.ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
	if called {
		t.Error("missing token must be rejected before any network call")
	}
}

func TestShipmentStatus_PartialResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shipments/ship-1/status" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"shipment_id": "ship-1", "status": "in_transit"}`))
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)
	update, err := client.ShipmentStatus(context.Background(), "tok", "ship-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if update.Status == nil || *update.Status != "in_transit" {
		t.Errorf("expected status present, got %+v", update.Status)
	}
	// Fields the response omitted must decode as absent, not zero
	if update.TrackingNumber != nil {
		t.Errorf("expected absent tracking number, got %q", *update.TrackingNumber)
	}
	if update.UpdatedAt != nil {
		t.Errorf("expected absent updated_at, got %v", *update.UpdatedAt)
	}
}

func TestShipmentStatus_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Shipment not found"}`))
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)
	_, err := client.ShipmentStatus(context.Background(), "tok", "nope")
	var reqErr *api.RequestError
	if !errors.As(err, &reqErr) || reqErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 RequestError, got %v", err)
	}
}

func TestShipmentLabel(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake label")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shipments/ship-1/label" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdf)
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)
	label, err := client.ShipmentLabel(context.Background(), "tok", "ship-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(label.Data) != string(pdf) {
		t.Error("label bytes not returned verbatim")
	}
	if label.ContentType != "application/pdf" {
		t.Errorf("expected content type preserved, got %q", label.ContentType)
	}
}

func TestShipmentLabel_NonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream label service down</html>"))
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)
	_, err := client.ShipmentLabel(context.Background(), "tok", "ship-1")

	var reqErr *api.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Message != "request failed with status 502" {
		t.Errorf("expected synthesized message for non-JSON body, got %q", reqErr.Message)
	}
}

func TestLabelFilename(t *testing.T) {
	tests := []struct {
		name        string
		shipment    Shipment
		contentType string
		want        string
	}{
		{"tracking number preferred", Shipment{ShipmentID: "ship-1", TrackingNumber: "1Z999"}, "application/pdf", "shipping-label-1Z999.pdf"},
		{"falls back to shipment id", Shipment{ShipmentID: "ship-1"}, "application/pdf", "shipping-label-ship-1.pdf"},
		{"gif", Shipment{TrackingNumber: "T1"}, "image/gif", "shipping-label-T1.gif"},
		{"png", Shipment{TrackingNumber: "T1"}, "image/png", "shipping-label-T1.png"},
		{"zpl", Shipment{TrackingNumber: "T1"}, "application/zpl", "shipping-label-T1.zpl"},
		{"charset parameter stripped", Shipment{TrackingNumber: "T1"}, "application/pdf; charset=utf-8", "shipping-label-T1.pdf"},
		{"unknown type", Shipment{TrackingNumber: "T1"}, "application/x-mystery", "shipping-label-T1.bin"},
		{"empty type", Shipment{TrackingNumber: "T1"}, "", "shipping-label-T1.bin"},
	}

	for _, tt := range tests {
		label := Label{ContentType: tt.contentType}
		if got := label.Filename(tt.shipment); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client, err := NewClient("http://example.test/api/v1/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.HasSuffix(client.baseURL, "/") {
		t.Errorf("expected trailing slash trimmed, got %q", client.baseURL)
	}

	if _, err := NewClient("  "); err == nil {
		t.Error("expected error for empty base url")
	}
}
