package sse

import (
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/openshelf/openshelf-server/internal/broker"
)

// Handler streams broker topics to clients over Server-Sent Events.
type Handler struct {
	broker            *broker.Broker
	logger            *slog.Logger
	heartbeatInterval time.Duration
}

// NewHandler creates a new SSE Handler.
func NewHandler(b *broker.Broker, logger *slog.Logger) *Handler {
	return &Handler{
		broker:            b,
		logger:            logger,
		heartbeatInterval: 30 * time.Second,
	}
}

// ServeTopic subscribes the request to a topic and streams its events until
// the client disconnects or the broker shuts down. The subscription is
// released on return, so a dropped connection never leaks a subscriber.
func (h *Handler) ServeTopic(w http.ResponseWriter, r *http.Request, topic broker.Topic) {
	// Check if request context is already canceled (early client disconnect).
	if r.Context().Err() != nil {
		return
	}

	// Set SSE headers.
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	rc := http.NewResponseController(w)

	// Flush headers immediately.
	if err := rc.Flush(); err != nil {
		h.logger.Error("failed to flush headers", slog.String("error", err.Error()))
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	sub, err := h.broker.Subscribe(topic)
	if err != nil {
		h.logger.Error("failed to register subscriber", slog.String("error", err.Error()))
		http.Error(w, "Failed to establish subscription", http.StatusInternalServerError)
		return
	}
	defer h.broker.Unsubscribe(sub)

	subLogger := h.logger.With(
		slog.String("subscription_id", sub.ID),
		slog.String("topic", string(topic)))

	// Send initial connection message.
	if err := h.sendFrame(w, rc, NewConnectedFrame(sub)); err != nil {
		subLogger.Warn("failed to send hello frame", slog.String("error", err.Error()))
		return
	}

	ctx := r.Context()

	heartbeatTicker := time.NewTicker(h.heartbeatInterval)
	defer heartbeatTicker.Stop()

	for {
		select {
		case event, ok := <-sub.Events:
			if !ok {
				// Broker shut down.
				subLogger.Info("subscription closed by broker")
				return
			}
			if err := h.sendFrame(w, rc, NewFrame(event)); err != nil {
				// Client disconnect is normal, not an error condition.
				subLogger.Info("client disconnected during send")
				return
			}

		case <-heartbeatTicker.C:
			if err := h.sendFrame(w, rc, NewHeartbeatFrame()); err != nil {
				subLogger.Info("client disconnected during heartbeat")
				return
			}

		case <-sub.Done:
			subLogger.Info("subscription canceled")
			return

		case <-ctx.Done():
			subLogger.Info("client context canceled")
			return
		}
	}
}

// sendFrame writes one SSE frame:
//
//	event: <type>
//	data: <json>
//	(blank line)
func (h *Handler) sendFrame(w http.ResponseWriter, rc *http.ResponseController, frame Frame) error {
	jsonData, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\n", frame.Type); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", jsonData); err != nil {
		return err
	}

	// Flush immediately so the client receives the event.
	if err := rc.Flush(); err != nil {
		return err
	}

	// Reset the write deadline after each successful write so an idle but
	// healthy stream is not severed.
	if err := rc.SetWriteDeadline(time.Now().Add(60 * time.Second)); err != nil {
		h.logger.Debug("failed to set write deadline", slog.String("error", err.Error()))
	}

	return nil
}
