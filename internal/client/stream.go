package client

import (
	"bufio"
	"context"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/openshelf/openshelf-server/internal/dto"
	"github.com/openshelf/openshelf-server/internal/sse"
)

// Stream reads one server subscription over SSE and merges pushed entities
// into the cache. Each topic is an independent stream; a dropped connection
// ends Run and the caller decides whether to reconnect (the broker keeps no
// history, so a reconnect starts fresh).
type Stream struct {
	httpClient *http.Client
	url        string
	cache      *Cache
	logger     *slog.Logger
}

// NewStream creates a stream reader for the given subscription URL.
func NewStream(url string, cache *Cache, logger *slog.Logger) *Stream {
	return &Stream{
		httpClient: &http.Client{}, // no client timeout, the stream is long-lived
		url:        url,
		cache:      cache,
		logger:     logger,
	}
}

// wireFrame mirrors the server's SSE data line.
type wireFrame struct {
	Type sse.EventType  `json:"type"`
	Data jsontext.Value `json:"data"`
}

// Run consumes the stream until the context is canceled or the connection
// drops. Heartbeat and hello frames are consumed and discarded.
func (s *Stream) Run(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("build stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stream returned status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	var data strings.Builder

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "data:"):
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))

		case line == "":
			// Blank line ends the frame.
			if data.Len() > 0 {
				s.dispatch([]byte(data.String()))
				data.Reset()
			}

		default:
			// "event:" and comment lines carry nothing the frame body
			// doesn't already include.
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return ctx.Err()
}

// dispatch merges one decoded frame into the cache.
func (s *Stream) dispatch(raw []byte) {
	var frame wireFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		s.logger.Warn("dropping undecodable frame", slog.String("error", err.Error()))
		return
	}

	switch frame.Type {
	case sse.EventBookAdded:
		var book dto.Book
		if err := json.Unmarshal(frame.Data, &book); err != nil {
			s.logger.Warn("dropping malformed book payload", slog.String("error", err.Error()))
			return
		}
		if s.cache.MergeBook(&book) {
			s.logger.Info("book added to cache", slog.String("title", book.Title))
		}
		if book.Author != nil {
			// A pushed book implies its author exists; keep the author
			// list consistent too.
			s.cache.MergeAuthor(book.Author)
		}

	case sse.EventAuthorAdded:
		var author dto.Author
		if err := json.Unmarshal(frame.Data, &author); err != nil {
			s.logger.Warn("dropping malformed author payload", slog.String("error", err.Error()))
			return
		}
		if s.cache.MergeAuthor(&author) {
			s.logger.Info("author added to cache", slog.String("name", author.Name))
		}

	case sse.EventConnected, sse.EventHeartbeat:
		// Keepalive traffic, nothing to merge.

	default:
		s.logger.Debug("ignoring unknown event type", slog.String("type", string(frame.Type)))
	}
}
