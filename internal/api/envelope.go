package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is bumped if the response envelope shape ever changes, so
// clients can detect incompatible servers.
const envelopeVersion = 1

// Envelope is the uniform JSON wrapper for every API response.
type Envelope struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
	Error   any  `json:"error,omitempty"`
}

// EnvelopeTransformer wraps every response body in the envelope. Success is
// derived from the status code; error bodies land under "error" so clients
// can branch on "success" alone.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	// Already wrapped (e.g. re-entrant transformers)
	if _, ok := v.(*Envelope); ok {
		return v, nil
	}

	isError := strings.HasPrefix(status, "4") || strings.HasPrefix(status, "5")

	env := &Envelope{
		V:       envelopeVersion,
		Success: !isError,
	}
	if isError {
		env.Error = v
	} else {
		env.Data = v
	}
	return env, nil
}
