package leads

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Submission represents a lead-contact form submission.
type Submission struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"email"`
	Phone     string `json:"phone" validate:"required"`
	Financing string `json:"financing"`
	Message   string `json:"message"`
}

// Listing is the static property metadata embedded in every lead email.
type Listing struct {
	Address      string
	ShortAddress string
	Locality     string
	Price        string
	MLS          string
	Features     string
	SiteName     string
}

// FullName joins first and last name the way the form presents them.
func (s Submission) FullName() string {
	return s.FirstName + " " + s.LastName
}

// ParseSubmission reads the six form fields from a JSON body. Anything that
// is not a JSON object yields an empty submission; it is never an error.
func ParseSubmission(raw []byte) Submission {
	var input map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&input); err != nil || input == nil {
		input = map[string]any{}
	}

	return Submission{
		FirstName: field(input, "firstName"),
		LastName:  field(input, "lastName"),
		Email:     field(input, "email"),
		Phone:     field(input, "phone"),
		Financing: field(input, "financing"),
		Message:   field(input, "message"),
	}
}

// field coerces scalars to their textual form. Objects and arrays are
// dropped rather than stringified.
func field(input map[string]any, key string) string {
	var s string
	switch v := input[key].(type) {
	case string:
		s = v
	case json.Number:
		s = v.String()
	case bool:
		if v {
			s = "1"
		}
	}
	return strings.TrimSpace(s)
}
