package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// Envelope is the uniform response wrapper. Every JSON response carries
// exactly one of Data or Error alongside the Success flag so clients can
// branch without inspecting the HTTP status.
type Envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// EnvelopeTransformer wraps outgoing bodies in an Envelope. Registered as a
// huma transformer so handlers keep returning plain DTOs.
func EnvelopeTransformer(ctx huma.Context, status string, v any) (any, error) {
	if v == nil {
		return v, nil
	}

	if apiErr, ok := v.(*APIError); ok {
		return &Envelope{Success: false, Error: apiErr}, nil
	}

	code, err := strconv.Atoi(status)
	if err != nil {
		code = 200
	}
	return &Envelope{Success: code < 400, Data: v}, nil
}
