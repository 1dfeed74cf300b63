// Package shipping holds the shipment models, the request builder and
// the shipping service client.
package shipping

import "time"

// Shipment mirrors a shipment record held by the shipping service. The
// client tracks at most one active shipment per note.
type Shipment struct {
	ShipmentID        string    `json:"shipment_id"`
	NoteID            string    `json:"note_id"`
	Carrier           string    `json:"carrier"`
	CarrierShipmentID string    `json:"carrier_shipment_id,omitempty"`
	TrackingNumber    string    `json:"tracking_number,omitempty"`
	Status            string    `json:"status"`
	LastKnownEvent    string    `json:"last_known_event,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// StatusUpdate is a partial shipment returned by the status endpoint.
// Pointer fields distinguish "absent" from "present but zero" so the
// merge can preserve local values the response did not mention.
type StatusUpdate struct {
	ShipmentID        *string    `json:"shipment_id,omitempty"`
	Carrier           *string    `json:"carrier,omitempty"`
	CarrierShipmentID *string    `json:"carrier_shipment_id,omitempty"`
	TrackingNumber    *string    `json:"tracking_number,omitempty"`
	Status            *string    `json:"status,omitempty"`
	LastKnownEvent    *string    `json:"last_known_event,omitempty"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

// ApplyUpdate merges a status response into the shipment: every field
// present in the update overwrites the local value, absent fields are
// preserved. UpdatedAt comes from the response when present, otherwise
// now.
func (s *Shipment) ApplyUpdate(u StatusUpdate, now time.Time) {
	if u.ShipmentID != nil {
		s.ShipmentID = *u.ShipmentID
	}
	if u.Carrier != nil {
		s.Carrier = *u.Carrier
	}
	if u.CarrierShipmentID != nil {
		s.CarrierShipmentID = *u.CarrierShipmentID
	}
	if u.TrackingNumber != nil {
		s.TrackingNumber = *u.TrackingNumber
	}
	if u.Status != nil {
		s.Status = *u.Status
	}
	if u.LastKnownEvent != nil {
		s.LastKnownEvent = *u.LastKnownEvent
	}
	if u.UpdatedAt != nil {
		s.UpdatedAt = *u.UpdatedAt
	} else {
		s.UpdatedAt = now
	}
}

// ShipmentRequest is the body sent to create a shipment.
type ShipmentRequest struct {
	NoteID          string  `json:"note_id"`
	Carrier         string  `json:"carrier"`
	PackageWeightKg float64 `json:"package_weight_kg"`
	PackageLengthCm float64 `json:"package_length_cm"`
	PackageWidthCm  float64 `json:"package_width_cm"`
	PackageHeightCm float64 `json:"package_height_cm"`
}
