package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shipnote/internal/api"
)

const shipmentsResource = "shipments"

// Client talks to the shipping service. The bearer token is an explicit
// parameter on every call.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient creates a shipping service client.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("shipping base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// CreateShipment submits a shipment creation request and returns the
// created shipment.
func (c *Client) CreateShipment(ctx context.Context, token string, request ShipmentRequest) (Shipment, error) {
	if token == "" {
		return Shipment{}, api.ErrAuthRequired
	}
	body, err := json.Marshal(request)
	if err != nil {
		return Shipment{}, fmt.Errorf("encode shipment request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/shipments/", bytes.NewReader(body))
	if err != nil {
		return Shipment{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Shipment{}, fmt.Errorf("create shipment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Shipment{}, api.NewRequestError(shipmentsResource, resp.StatusCode, readDetail(resp.Body))
	}

	var created Shipment
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return Shipment{}, &api.MalformedResponseError{Resource: shipmentsResource, Cause: err}
	}
	return created, nil
}

// ShipmentStatus fetches the current status of a shipment. The response
// may carry only a subset of shipment fields; the caller merges it.
func (c *Client) ShipmentStatus(ctx context.Context, token, shipmentID string) (StatusUpdate, error) {
	if token == "" {
		return StatusUpdate{}, api.ErrAuthRequired
	}
	endpoint := fmt.Sprintf("%s/shipments/%s/status", c.baseURL, url.PathEscape(shipmentID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return StatusUpdate{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return StatusUpdate{}, fmt.Errorf("refresh status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return StatusUpdate{}, api.NewRequestError(shipmentsResource, resp.StatusCode, readDetail(resp.Body))
	}

	var update StatusUpdate
	if err := json.NewDecoder(resp.Body).Decode(&update); err != nil {
		return StatusUpdate{}, &api.MalformedResponseError{Resource: shipmentsResource, Cause: err}
	}
	return update, nil
}

// Label holds a fetched shipping label. The body is opaque: the server
// decides the content type, this client never sniffs the bytes.
type Label struct {
	Data        []byte
	ContentType string
}

// ShipmentLabel fetches the raw label bytes for a shipment.
func (c *Client) ShipmentLabel(ctx context.Context, token, shipmentID string) (Label, error) {
	if token == "" {
		return Label{}, api.ErrAuthRequired
	}
	endpoint := fmt.Sprintf("%s/shipments/%s/label", c.baseURL, url.PathEscape(shipmentID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Label{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Label{}, fmt.Errorf("download label: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// The error body may not be JSON at all; degrade to the
		// synthesized message rather than failing the parse.
		return Label{}, api.NewRequestError(shipmentsResource, resp.StatusCode, readDetail(resp.Body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Label{}, &api.MalformedResponseError{Resource: shipmentsResource, Cause: err}
	}
	return Label{Data: data, ContentType: resp.Header.Get("Content-Type")}, nil
}

// Filename suggests a file name for the label, derived only from stable
// identifiers: the tracking number when the carrier has assigned one,
// else the shipment id. The extension comes from the declared content
// type with a fixed fallback.
func (l Label) Filename(s Shipment) string {
	stem := s.TrackingNumber
	if stem == "" {
		stem = s.ShipmentID
	}
	return "shipping-label-" + stem + extensionFor(l.ContentType)
}

func extensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ".bin"
	}
	switch mediaType {
	case "application/pdf":
		return ".pdf"
	case "image/gif":
		return ".gif"
	case "image/png":
		return ".png"
	case "application/zpl", "text/zpl":
		return ".zpl"
	default:
		return ".bin"
	}
}

// readDetail pulls the human message out of a shipping service error
// body ({"detail": "..."}). Non-JSON bodies yield "".
func readDetail(r io.Reader) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	return payload.Detail
}
