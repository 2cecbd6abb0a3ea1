// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsPermissionDenied(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"missing permissions code", &APIError{StatusCode: 403, Code: errCodeMissingPermissions}, true},
		{"missing access code", &APIError{StatusCode: 403, Code: errCodeMissingAccess}, true},
		{"bare 403", &APIError{StatusCode: 403}, true},
		{"wrapped", fmt.Errorf("sending: %w", &APIError{StatusCode: 403}), true},
		{"not found", &APIError{StatusCode: 404, Code: errCodeUnknownChannel}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsPermissionDenied(tc.err); got != tc.want {
				t.Errorf("IsPermissionDenied = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"unknown channel", &APIError{StatusCode: 404, Code: errCodeUnknownChannel}, true},
		{"unknown role", &APIError{StatusCode: 404, Code: errCodeUnknownRole}, true},
		{"unknown member", &APIError{StatusCode: 404, Code: errCodeUnknownMember}, true},
		{"unknown user", &APIError{StatusCode: 404, Code: errCodeUnknownUser}, true},
		{"bare 404", &APIError{StatusCode: 404}, true},
		{"forbidden", &APIError{StatusCode: 403, Code: errCodeMissingPermissions}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsNotFound(tc.err); got != tc.want {
				t.Errorf("IsNotFound = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsUnauthorized(t *testing.T) {
	if !IsUnauthorized(&APIError{StatusCode: 401, Message: "401: Unauthorized"}) {
		t.Error("401 should classify as unauthorized")
	}
	if IsUnauthorized(&APIError{StatusCode: 403}) {
		t.Error("403 should not classify as unauthorized")
	}
	if IsUnauthorized(errors.New("boom")) {
		t.Error("plain error should not classify as unauthorized")
	}
}
