package leads

import (
	"errors"
	"sort"
	"strings"
)

// Response messages for every failure branch of the handler.
const (
	msgMethodNotAllowed    = "Method not allowed"
	msgMisconfiguration    = "Server misconfiguration"
	msgValidationFailed    = "Validation failed"
	msgProviderUnreachable = "Mail provider unreachable"
	msgSendFailed          = "Failed to send email"
	msgRenderFailed        = "Failed to render email"
)

// ErrRender is returned when the email templates fail to execute.
var ErrRender = errors.New("leads: render email")

// FieldErrors maps a JSON field name to its validation message.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return "leads: invalid fields: " + strings.Join(names, ", ")
}
