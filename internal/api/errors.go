package api

import (
	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/openshelf/openshelf-server/internal/errors"
)

// APIError is the wire representation of a failed request. It implements
// huma.StatusError so handlers can return it directly, and it is what
// EnvelopeTransformer embeds under the envelope's "error" key.
type APIError struct {
	status  int
	Code    string `json:"code" example:"NOT_FOUND" doc:"Machine-readable error code"`
	Message string `json:"message" example:"author not found" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Optional structured context, e.g. rejected input"`
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) GetStatus() int {
	return e.status
}

// statusToCode backfills a code when an error arrives without one, such as
// huma's own request validation failures.
func statusToCode(status int) string {
	switch status {
	case 400, 422:
		return string(domainerrors.CodeInvalidInput)
	case 401:
		return string(domainerrors.CodeUnauthenticated)
	case 404:
		return string(domainerrors.CodeNotFound)
	case 409:
		return string(domainerrors.CodeAlreadyExists)
	default:
		return string(domainerrors.CodeInternal)
	}
}

// RegisterErrorHandler replaces huma.NewError so every error leaving the API,
// whether raised by a handler or by huma's validation layer, carries the same
// coded shape.
func RegisterErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			var derr *domainerrors.Error
			if domainerrors.As(err, &derr) {
				return &APIError{
					status:  derr.HTTPStatus(),
					Code:    string(derr.Code),
					Message: derr.Message,
					Details: derr.Details,
				}
			}
			var aerr *APIError
			if domainerrors.As(err, &aerr) {
				return aerr
			}
		}

		apiErr := &APIError{
			status:  status,
			Code:    statusToCode(status),
			Message: message,
		}
		if len(errs) > 0 {
			details := make([]string, 0, len(errs))
			for _, err := range errs {
				if err != nil {
					details = append(details, err.Error())
				}
			}
			if len(details) > 0 {
				apiErr.Details = details
			}
		}
		return apiErr
	}
}
