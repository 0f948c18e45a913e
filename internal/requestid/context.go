// Package requestid carries the per-request correlation id.
package requestid

import (
	"context"
	"encoding/hex"

	"github.com/google/uuid"
)

type ctxKey string

const reqIDKey ctxKey = "lead.req_id"

// New returns a 12 character random hex token.
func New() string {
	id := uuid.New()
	return hex.EncodeToString(id[:6])
}

// WithID stores the request id in context.
func WithID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, reqIDKey, reqID)
}

// FromContext extracts the request id if present.
func FromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(reqIDKey)
	if val == nil {
		return "", false
	}
	reqID, ok := val.(string)
	return reqID, ok && reqID != ""
}
