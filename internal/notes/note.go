package notes

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

var (
	errTitleRequired       = errors.New("title is required")
	errRecipientIncomplete = errors.New("shippable notes need a complete recipient address")
	errCountryCode         = errors.New("recipient country must be a 2-letter code")
)

// Note mirrors a row of the notes resource. The server assigns ID and
// CreatedAt; the recipient fields are required as a group (line2
// excepted) whenever IsShippable is set.
type Note struct {
	ID                    string    `json:"id,omitempty"`
	Title                 string    `json:"title"`
	Content               string    `json:"content"`
	IsShippable           bool      `json:"is_shippable"`
	RecipientName         string    `json:"recipient_name"`
	RecipientAddressLine1 string    `json:"recipient_address_line1"`
	RecipientAddressLine2 string    `json:"recipient_address_line2"`
	RecipientCity         string    `json:"recipient_city"`
	RecipientPostalCode   string    `json:"recipient_postal_code"`
	RecipientCountry      string    `json:"recipient_country"`
	CreatedAt             time.Time `json:"created_at,omitempty"`
}

// ShippingEligible is the minimal gate checked before offering the
// shipment form at all. The full recipient group is enforced by the
// note editor, not here.
func (n Note) ShippingEligible() bool {
	return n.IsShippable && n.RecipientName != ""
}

// RecipientComplete reports whether every required recipient field is
// filled. Address line 2 is optional.
func (n Note) RecipientComplete() bool {
	return n.RecipientName != "" &&
		n.RecipientAddressLine1 != "" &&
		n.RecipientCity != "" &&
		n.RecipientPostalCode != "" &&
		n.RecipientCountry != ""
}

// Validate checks a note before it is sent to the server.
func (n Note) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return errTitleRequired
	}
	if n.IsShippable && !n.RecipientComplete() {
		return errRecipientIncomplete
	}
	if n.IsShippable && len(n.RecipientCountry) != 2 {
		return errCountryCode
	}
	return nil
}

// DisplayTitle returns the stored title, falling back to the first
// level-1 heading of the markdown content.
func (n Note) DisplayTitle() string {
	if strings.TrimSpace(n.Title) != "" {
		return n.Title
	}
	body := stripFrontmatter(n.Content)
	if title := extractHeading(body); title != "" {
		return title
	}
	return "Untitled Note"
}

// Preview returns a short plain-text excerpt of the note body for list
// rendering, headings skipped.
func (n Note) Preview() string {
	body := stripFrontmatter(n.Content)
	reader := text.NewReader([]byte(body))
	doc := goldmark.DefaultParser().Parse(reader)

	var preview strings.Builder
	paragraphs := 0
	ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if node.Kind() == ast.KindHeading {
			return ast.WalkSkipChildren, nil
		}
		if node.Kind() == ast.KindParagraph {
			if paragraphs >= 2 {
				return ast.WalkStop, nil
			}
			t := string(node.Text([]byte(body)))
			if t != "" {
				if preview.Len() > 0 {
					preview.WriteString(" ")
				}
				preview.WriteString(t)
				paragraphs++
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	out := preview.String()
	if len(out) > 60 {
		out = out[:57] + "..."
	}
	return out
}

func extractHeading(markdown string) string {
	reader := text.NewReader([]byte(markdown))
	doc := goldmark.DefaultParser().Parse(reader)

	var title string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == ast.KindHeading {
			heading := n.(*ast.Heading)
			if heading.Level == 1 {
				title = string(n.Text([]byte(markdown)))
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})
	return title
}

// stripFrontmatter removes a leading YAML frontmatter block when the
// content carries one. Unparseable frontmatter is left in place.
func stripFrontmatter(content string) string {
	lines := bytes.Split([]byte(content), []byte("\n"))
	if len(lines) == 0 || !bytes.Equal(bytes.TrimSpace(lines[0]), []byte("---")) {
		return content
	}

	var frontmatterEnd int
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			frontmatterEnd = i
			break
		}
	}
	if frontmatterEnd == 0 {
		return content
	}

	fmBytes := bytes.Join(lines[1:frontmatterEnd], []byte("\n"))
	var fm map[string]any
	if err := yaml.Unmarshal(fmBytes, &fm); err != nil {
		return content
	}
	return string(bytes.Join(lines[frontmatterEnd+1:], []byte("\n")))
}
