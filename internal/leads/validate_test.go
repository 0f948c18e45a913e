package leads

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validSubmission() Submission {
	return Submission{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Phone:     "+1 978 555 0100",
	}
}

func TestValidate_Valid(t *testing.T) {
	assert.Nil(t, validSubmission().Validate())

	s := validSubmission()
	s.Financing = ""
	s.Message = ""
	assert.Nil(t, s.Validate(), "financing and message are free text")
}

func TestValidate_ReportsExactlyTheFailingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Submission)
		want   FieldErrors
	}{
		{"missing first name", func(s *Submission) { s.FirstName = "" }, FieldErrors{"firstName": "Required"}},
		{"missing last name", func(s *Submission) { s.LastName = "" }, FieldErrors{"lastName": "Required"}},
		{"missing phone", func(s *Submission) { s.Phone = "" }, FieldErrors{"phone": "Required"}},
		{"missing email", func(s *Submission) { s.Email = "" }, FieldErrors{"email": "Invalid email"}},
		{"malformed email", func(s *Submission) { s.Email = "jane@" }, FieldErrors{"email": "Invalid email"}},
		{
			name:   "everything missing",
			mutate: func(s *Submission) { *s = Submission{} },
			want: FieldErrors{
				"firstName": "Required",
				"lastName":  "Required",
				"email":     "Invalid email",
				"phone":     "Required",
			},
		},
		{
			name:   "two independent failures",
			mutate: func(s *Submission) { s.LastName = ""; s.Email = "nope" },
			want:   FieldErrors{"lastName": "Required", "email": "Invalid email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSubmission()
			tt.mutate(&s)
			assert.Equal(t, tt.want, s.Validate())
		})
	}
}

func TestFieldErrorsError(t *testing.T) {
	err := FieldErrors{"phone": "Required", "email": "Invalid email"}
	assert.EqualError(t, err, "leads: invalid fields: email, phone")
}
