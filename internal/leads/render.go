package leads

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"
	"time"
	"unicode"
)

//go:embed templates/lead_email.html templates/lead_email.txt
var templateFS embed.FS

const (
	notSpecified    = "Not specified"
	timestampLayout = "2006-01-02 15:04:05"
	subjectPrefix   = "🏠 URGENT: Property Inquiry - "
)

var (
	htmlTemplate = template.Must(template.New("lead_email.html").Option("missingkey=error").ParseFS(templateFS, "templates/lead_email.html"))
	textTemplate = texttemplate.Must(texttemplate.New("lead_email.txt").Option("missingkey=error").ParseFS(templateFS, "templates/lead_email.txt"))
)

// emailView is the data both templates execute against.
type emailView struct {
	Name            string
	Email           string
	Phone           string
	Financing       string
	Message         string
	Listing         Listing
	PropertyDetails template.HTML
	SentAt          string
}

// RenderedEmail holds the generated subject and bodies.
type RenderedEmail struct {
	Subject string
	HTML    string
	Text    string
}

// Render builds the lead notification. Submitted values are escaped by
// html/template; only the listing block from configuration is inserted raw.
func Render(s Submission, listing Listing, sentAt time.Time) (RenderedEmail, error) {
	financing := s.Financing
	if financing == "" {
		financing = notSpecified
	}
	view := emailView{
		Name:            s.FullName(),
		Email:           s.Email,
		Phone:           s.Phone,
		Financing:       financing,
		Message:         s.Message,
		Listing:         listing,
		PropertyDetails: propertyDetails(listing),
		SentAt:          sentAt.Format(timestampLayout),
	}

	var htmlBuf bytes.Buffer
	if err := htmlTemplate.Execute(&htmlBuf, view); err != nil {
		return RenderedEmail{}, fmt.Errorf("%w: html: %v", ErrRender, err)
	}
	var textBuf bytes.Buffer
	if err := textTemplate.Execute(&textBuf, view); err != nil {
		return RenderedEmail{}, fmt.Errorf("%w: text: %v", ErrRender, err)
	}

	return RenderedEmail{
		Subject: Subject(listing, s),
		HTML:    htmlBuf.String(),
		Text:    textBuf.String(),
	}, nil
}

// Subject renders the urgency subject line. Control characters in the
// submitter's name become spaces so the name cannot break the header.
func Subject(listing Listing, s Submission) string {
	name := strings.Join(strings.Fields(controlToSpace(s.FullName())), " ")
	return subjectPrefix + listing.ShortAddress + " - " + name
}

func controlToSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == '\u2028' || r == '\u2029' {
			return ' '
		}
		return r
	}, s)
}

// propertyDetails is operator-controlled configuration, never user input.
func propertyDetails(l Listing) template.HTML {
	return template.HTML(`<div style="margin-top: 30px; padding: 20px; background: #f0fff4; border-radius: 10px; border: 2px solid #48bb78;">
      <h3 style="color: #22543d; margin-bottom: 10px;">Property Details</h3>
      <p style="margin: 5px 0;"><strong>Address:</strong> ` + l.Address + `</p>
      <p style="margin: 5px 0;"><strong>Price:</strong> ` + l.Price + `</p>
      <p style="margin: 5px 0;"><strong>MLS:</strong> ` + l.MLS + `</p>
      <p style="margin: 5px 0;"><strong>Features:</strong> ` + l.Features + `</p>
    </div>`)
}
