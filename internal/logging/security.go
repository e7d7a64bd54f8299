// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// SecurityEvent represents a security-relevant event for audit logging.
// The admin endpoints are the only authenticated surface, so events are
// limited to token verification and rate limiting outcomes.
type SecurityEvent struct {
	// Event is the type of event (e.g., "admin_auth_success", "admin_auth_failed").
	Event string
	// Subject is the token subject claim (if known).
	Subject string
	// IPAddress is the client's IP address.
	IPAddress string
	// UserAgent is the client's user agent (truncated).
	UserAgent string
	// Path is the request path.
	Path string
	// Success indicates if the operation was successful.
	Success bool
	// Error is the error message if the operation failed.
	Error string
	// Details contains additional sanitized details.
	Details map[string]string
}

// SecurityLogger provides secure logging for authentication events.
// It automatically sanitizes sensitive data before logging.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a new security logger.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{
		logger: With().Str("component", "auth").Logger(),
	}
}

// NewSecurityLoggerWithLogger creates a security logger with a custom zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// LogEvent logs a security event with automatic sanitization.
func (l *SecurityLogger) LogEvent(event *SecurityEvent) {
	e := l.logger.Info().
		Str("event", event.Event)

	if event.Success {
		e = e.Str("status", "success")
	} else {
		e = e.Str("status", "failed")
	}

	if event.Subject != "" {
		e = e.Str("subject", SanitizeValue("subject", event.Subject))
	}

	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}

	if event.UserAgent != "" {
		e = e.Str("user_agent", truncateString(event.UserAgent, 100))
	}

	if event.Path != "" {
		e = e.Str("path", event.Path)
	}

	if event.Error != "" && !event.Success {
		e = e.Str("error", SanitizeError(event.Error))
	}

	for k, v := range event.Details {
		e = e.Str(k, SanitizeValue(k, v))
	}

	e.Msg("")
}

// LogAdminAuthSuccess logs a successful admin token verification.
func (l *SecurityLogger) LogAdminAuthSuccess(subject, ip, userAgent, path string) {
	l.LogEvent(&SecurityEvent{
		Event:     "admin_auth_success",
		Subject:   subject,
		IPAddress: ip,
		UserAgent: userAgent,
		Path:      path,
		Success:   true,
	})
}

// LogAdminAuthFailure logs a failed admin token verification.
func (l *SecurityLogger) LogAdminAuthFailure(ip, userAgent, path, reason string) {
	l.LogEvent(&SecurityEvent{
		Event:     "admin_auth_failed",
		IPAddress: ip,
		UserAgent: userAgent,
		Path:      path,
		Success:   false,
		Error:     reason,
	})
}

// LogRateLimited logs a rate-limited request.
func (l *SecurityLogger) LogRateLimited(ip, userAgent, path string) {
	l.LogEvent(&SecurityEvent{
		Event:     "rate_limited",
		IPAddress: ip,
		UserAgent: userAgent,
		Path:      path,
		Success:   false,
	})
}

// SanitizeToken masks a token, showing only first and last 4 characters.
// Example: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..." -> "eyJh...kpXV"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeError removes potentially sensitive information from error messages.
func SanitizeError(err string) string {
	sensitivePatterns := []string{
		"password",
		"secret",
		"token",
		"key",
		"bearer",
		"authorization",
		"cookie",
	}

	lowerErr := strings.ToLower(err)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(lowerErr, pattern) {
			return "authentication error"
		}
	}

	return truncateString(err, 200)
}

// SanitizeValue sanitizes a value based on its key name.
func SanitizeValue(key, value string) string {
	lowerKey := strings.ToLower(key)

	sensitiveKeys := map[string]bool{
		"token":         true,
		"password":      true,
		"secret":        true,
		"api_key":       true,
		"apikey":        true,
		"authorization": true,
		"bearer":        true,
		"cookie":        true,
	}

	if sensitiveKeys[lowerKey] {
		return SanitizeToken(value)
	}

	return value
}

// truncateString truncates a string to a maximum length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
