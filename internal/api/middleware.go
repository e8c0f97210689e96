package api

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/pressroom/internal/http/response"
)

// EnvelopeVersion is the "v" field of every JSON response.
const EnvelopeVersion = response.Version

// APIEnvelope is the success (or plain error) response shape.
type APIEnvelope = response.Envelope

// APIErrorEnvelope is the coded error response shape.
type APIErrorEnvelope = response.ErrorEnvelope

// EnvelopeTransformer wraps every huma response body in the standard envelope.
// Coded errors keep their code and details; any other error collapses to its message.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		var apiErr *APIError
		if err, ok := v.(error); ok && errors.As(err, &apiErr) {
			return APIErrorEnvelope{
				Version: EnvelopeVersion,
				Error:   apiErr.Message,
				Code:    apiErr.Code,
				Details: apiErr.Details,
			}, nil
		}
		env := APIEnvelope{Version: EnvelopeVersion}
		if err, ok := v.(error); ok {
			env.Error = err.Error()
		}
		return env, nil
	}

	return APIEnvelope{Version: EnvelopeVersion, Success: true, Data: v}, nil
}
