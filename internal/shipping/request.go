package shipping

import (
	"fmt"
	"strconv"
	"strings"

	"shipnote/internal/notes"
)

// Small-parcel defaults for a shipped note.
const (
	DefaultWeightKg = 0.1
	DefaultLengthCm = 10
	DefaultWidthCm  = 5
	DefaultHeightCm = 1
)

// Carrier describes one entry of the carrier list. Disabled carriers
// stay visible in the UI but are rejected on submit.
type Carrier struct {
	ID      string
	Label   string
	Enabled bool
}

// Carriers returns the selectable carriers in display order.
func Carriers() []Carrier {
	return []Carrier{
		{ID: "ups", Label: "UPS", Enabled: true},
		{ID: "royal_mail", Label: "Royal Mail (Not Implemented)", Enabled: false},
	}
}

// CarrierEnabled reports whether the carrier id is known and usable.
func CarrierEnabled(id string) bool {
	for _, c := range Carriers() {
		if c.ID == id {
			return c.Enabled
		}
	}
	return false
}

// DimensionInput carries the raw package-dimension form values. Blank
// fields fall back to the small-parcel defaults.
type DimensionInput struct {
	WeightKg string
	LengthCm string
	WidthCm  string
	HeightCm string
}

// BuildRequest validates that the note can be shipped with the chosen
// carrier and constructs the creation request. No network calls happen
// here; every rejection is local.
func BuildRequest(note notes.Note, carrierID string, dims DimensionInput) (ShipmentRequest, error) {
	if !note.ShippingEligible() {
		return ShipmentRequest{}, fmt.Errorf("note %q is not shippable or has no recipient", note.DisplayTitle())
	}
	if !CarrierEnabled(carrierID) {
		return ShipmentRequest{}, fmt.Errorf("carrier %q is not implemented", carrierID)
	}

	weight, err := parseDimension(dims.WeightKg, DefaultWeightKg)
	if err != nil {
		return ShipmentRequest{}, fmt.Errorf("package weight: %w", err)
	}
	length, err := parseDimension(dims.LengthCm, DefaultLengthCm)
	if err != nil {
		return ShipmentRequest{}, fmt.Errorf("package length: %w", err)
	}
	width, err := parseDimension(dims.WidthCm, DefaultWidthCm)
	if err != nil {
		return ShipmentRequest{}, fmt.Errorf("package width: %w", err)
	}
	height, err := parseDimension(dims.HeightCm, DefaultHeightCm)
	if err != nil {
		return ShipmentRequest{}, fmt.Errorf("package height: %w", err)
	}

	return ShipmentRequest{
		NoteID:          note.ID,
		Carrier:         carrierID,
		PackageWeightKg: weight,
		PackageLengthCm: length,
		PackageWidthCm:  width,
		PackageHeightCm: height,
	}, nil
}

func parseDimension(raw string, fallback float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	if v <= 0 {
		return 0, fmt.Errorf("must be positive, got %v", v)
	}
	return v, nil
}
