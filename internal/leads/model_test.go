package leads

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSubmission(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Submission
	}{
		{
			name: "all fields trimmed",
			body: `{"firstName":"  Jane ","lastName":"Doe\n","email":" jane@example.com ","phone":"555-0100","financing":" Pre-approved ","message":"  Hi  "}`,
			want: Submission{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Phone: "555-0100", Financing: "Pre-approved", Message: "Hi"},
		},
		{
			name: "optional fields default empty",
			body: `{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","phone":"555"}`,
			want: Submission{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Phone: "555"},
		},
		{
			name: "numbers keep their literal text",
			body: `{"phone":9785550100,"firstName":1.50}`,
			want: Submission{Phone: "9785550100", FirstName: "1.50"},
		},
		{
			name: "booleans coerce",
			body: `{"financing":true,"message":false}`,
			want: Submission{Financing: "1"},
		},
		{
			name: "null, objects and arrays are empty",
			body: `{"firstName":null,"lastName":{"a":1},"phone":["1"]}`,
			want: Submission{},
		},
		{name: "invalid json", body: `{"firstName":`, want: Submission{}},
		{name: "json array", body: `["Jane"]`, want: Submission{}},
		{name: "json string", body: `"Jane"`, want: Submission{}},
		{name: "json null", body: `null`, want: Submission{}},
		{name: "empty body", body: ``, want: Submission{}},
		{name: "unknown keys ignored", body: `{"firstName":"Jane","admin":true}`, want: Submission{FirstName: "Jane"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSubmission([]byte(tt.body)))
		})
	}
}

func TestSubmissionFullName(t *testing.T) {
	assert.Equal(t, "Jane Doe", Submission{FirstName: "Jane", LastName: "Doe"}.FullName())
}
