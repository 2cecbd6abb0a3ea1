// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"errors"
	"fmt"
)

// APIError represents a structured error response from the Discord API.
// Callers use the classifier helpers rather than matching codes
// directly:
//
//	if messaging.IsPermissionDenied(err) { ... }
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Code is the Discord JSON error code (e.g., 50013 for missing
	// permissions). Zero when the response carried none.
	Code int
	// Message is the human-readable description from the platform.
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discord: %d (%d): %s", e.StatusCode, e.Code, e.Message)
}

// Discord JSON error codes the bot distinguishes.
const (
	errCodeUnknownChannel     = 10003
	errCodeUnknownMember      = 10007
	errCodeUnknownRole        = 10011
	errCodeUnknownUser        = 10013
	errCodeMissingAccess      = 50001
	errCodeMissingPermissions = 50013
)

// IsPermissionDenied reports whether err means the bot lacks a
// capability it expected to have on the target.
func IsPermissionDenied(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == 403 ||
		apiErr.Code == errCodeMissingAccess ||
		apiErr.Code == errCodeMissingPermissions
}

// IsNotFound reports whether err means the referenced channel, role,
// member, or user does not exist (or is invisible to the bot).
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Code {
	case errCodeUnknownChannel, errCodeUnknownMember, errCodeUnknownRole, errCodeUnknownUser:
		return true
	}
	return apiErr.StatusCode == 404
}

// IsUnauthorized reports whether err means the bot credential itself
// was rejected. This is the fatal connect-time failure: the process
// exits with a distinct reason instead of limping on.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == 401
}
