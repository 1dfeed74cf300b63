package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shipnote/internal/api"
)

const notesResource = "notes"

// Client talks to the PostgREST notes resource. The bearer token is an
// explicit parameter on every call so tests and callers never depend on
// ambient credential state.
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

// NewClient creates a notes client for the given PostgREST base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("notes base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// List fetches all notes, newest first.
func (c *Client) List(ctx context.Context, token string) ([]Note, error) {
	if token == "" {
		return nil, api.ErrAuthRequired
	}
	endpoint := c.baseURL + "/notes?order=" + url.QueryEscape("created_at.desc")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch notes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, api.NewRequestError(notesResource, resp.StatusCode, readServerMessage(resp.Body))
	}

	var fetched []Note
	if err := json.NewDecoder(resp.Body).Decode(&fetched); err != nil {
		return nil, &api.MalformedResponseError{Resource: notesResource, Cause: err}
	}
	return fetched, nil
}

// Create persists a new note and returns the server's representation of
// it (id and created_at filled in).
func (c *Client) Create(ctx context.Context, token string, draft Note) (Note, error) {
	return c.write(ctx, token, http.MethodPost, c.baseURL+"/notes", draft)
}

// Update patches an existing note by id and returns the server's
// representation.
func (c *Client) Update(ctx context.Context, token, id string, draft Note) (Note, error) {
	endpoint := c.baseURL + "/notes?id=eq." + url.QueryEscape(id)
	return c.write(ctx, token, http.MethodPatch, endpoint, draft)
}

// noteWrite is the request body for note writes. The server assigns id
// and created_at; neither may appear in the payload, or PostgREST would
// write the zero timestamp into the column and break the created_at
// ordering.
type noteWrite struct {
	Title                 string `json:"title"`
	Content               string `json:"content"`
	IsShippable           bool   `json:"is_shippable"`
	RecipientName         string `json:"recipient_name"`
	RecipientAddressLine1 string `json:"recipient_address_line1"`
	RecipientAddressLine2 string `json:"recipient_address_line2"`
	RecipientCity         string `json:"recipient_city"`
	RecipientPostalCode   string `json:"recipient_postal_code"`
	RecipientCountry      string `json:"recipient_country"`
}

func writePayload(n Note) noteWrite {
	return noteWrite{
		Title:                 n.Title,
		Content:               n.Content,
		IsShippable:           n.IsShippable,
		RecipientName:         n.RecipientName,
		RecipientAddressLine1: n.RecipientAddressLine1,
		RecipientAddressLine2: n.RecipientAddressLine2,
		RecipientCity:         n.RecipientCity,
		RecipientPostalCode:   n.RecipientPostalCode,
		RecipientCountry:      n.RecipientCountry,
	}
}

func (c *Client) write(ctx context.Context, token, method, endpoint string, draft Note) (Note, error) {
	if token == "" {
		return Note{}, api.ErrAuthRequired
	}
	body, err := json.Marshal(writePayload(draft))
	if err != nil {
		return Note{}, fmt.Errorf("encode note: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return Note{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	// Ask PostgREST to echo the created/updated row back.
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Note{}, fmt.Errorf("save note: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Note{}, api.NewRequestError(notesResource, resp.StatusCode, readServerMessage(resp.Body))
	}

	return decodeNoteEcho(resp.Body)
}

// decodeNoteEcho accepts the representation echo as either a single
// object or a single-element array; PostgREST emits the latter.
func decodeNoteEcho(r io.Reader) (Note, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Note{}, &api.MalformedResponseError{Resource: notesResource, Cause: err}
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var echoed []Note
		if err := json.Unmarshal(trimmed, &echoed); err != nil {
			return Note{}, &api.MalformedResponseError{Resource: notesResource, Cause: err}
		}
		if len(echoed) == 0 {
			return Note{}, &api.MalformedResponseError{Resource: notesResource, Cause: errors.New("empty representation")}
		}
		return echoed[0], nil
	}
	var echoed Note
	if err := json.Unmarshal(trimmed, &echoed); err != nil {
		return Note{}, &api.MalformedResponseError{Resource: notesResource, Cause: err}
	}
	return echoed, nil
}

// readServerMessage pulls the human message out of a PostgREST error
// body. Returns "" when the body has no usable message.
func readServerMessage(r io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	return payload.Message
}
