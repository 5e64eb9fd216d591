package api

import (
	"context"
	"strings"

	"github.com/openshelf/openshelf-server/internal/resolver"
)

// resolveAuth turns the raw Authorization header into an AuthContext.
// A missing header yields the anonymous context; a malformed or invalid
// credential is an error even on operations that allow anonymous access.
func (s *Server) resolveAuth(ctx context.Context, authorization string) (*resolver.AuthContext, error) {
	return s.contextResolver.Resolve(ctx, authorization)
}

// extractIP picks the client address for rate limiting, preferring proxy
// headers over the socket peer.
func extractIP(forwardedFor, realIP, remoteAddr string) string {
	if forwardedFor != "" {
		parts := strings.Split(forwardedFor, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP != "" {
		return strings.TrimSpace(realIP)
	}
	if idx := strings.LastIndex(remoteAddr, ":"); idx != -1 {
		return remoteAddr[:idx]
	}
	return remoteAddr
}
