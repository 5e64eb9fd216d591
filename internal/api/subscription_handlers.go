package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/openshelf/openshelf-server/internal/broker"
	domainerrors "github.com/openshelf/openshelf-server/internal/errors"
)

// Subscription routes bypass huma: SSE needs direct access to the
// ResponseWriter for flushing, so they mount on the chi router directly.

func (s *Server) handleBookStream(w http.ResponseWriter, r *http.Request) {
	s.serveStream(w, r, broker.TopicBookAdded)
}

func (s *Server) handleAuthorStream(w http.ResponseWriter, r *http.Request) {
	s.serveStream(w, r, broker.TopicAuthorAdded)
}

func (s *Server) serveStream(w http.ResponseWriter, r *http.Request, topic broker.Topic) {
	// Streams are public, but a credential that is present and invalid is
	// still rejected, same as on every other operation.
	if _, err := s.resolveAuth(r.Context(), r.Header.Get("Authorization")); err != nil {
		s.writeError(w, err)
		return
	}

	s.sseHandler.ServeTopic(w, r, topic)
}

// writeError renders a domain error as an enveloped JSON response for the
// routes that do not go through huma.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	apiErr := &APIError{
		status:  http.StatusInternalServerError,
		Code:    string(domainerrors.CodeInternal),
		Message: "internal error",
	}
	var derr *domainerrors.Error
	if domainerrors.As(err, &derr) {
		apiErr = &APIError{
			status:  derr.HTTPStatus(),
			Code:    string(derr.Code),
			Message: derr.Message,
			Details: derr.Details,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.status)
	body, _ := json.Marshal(&Envelope{Success: false, Error: apiErr})
	_, _ = w.Write(body)
}
