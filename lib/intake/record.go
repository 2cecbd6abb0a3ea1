// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package intake

import (
	"strings"
	"time"

	"github.com/guildwarden/guildwarden/lib/ref"
)

// Form field length limits, enforced by the platform's modal input
// constraints. They are declared here so that the modal definition and
// the data model cannot drift apart.
const (
	MaxIdentifierLength = 150
	MaxReasonLength     = 1000
	MaxKillCountLength  = 50
	MaxNotesLength      = 500
)

// Defaults substituted for the optional form fields when the submitter
// leaves them blank.
const (
	DefaultKillCount = "N/A"
	DefaultNotes     = "none"
)

// Record is one user's submitted intake form for one ticket channel.
// SubmittedAt is set at creation and never changes; the record itself
// is replaced wholesale when the same channel receives a new
// submission.
type Record struct {
	// ChannelID is the ticket channel the form was submitted in.
	// It is the store key.
	ChannelID ref.ChannelID

	// UserID and UserDisplayName identify the submitter.
	UserID          ref.UserID
	UserDisplayName string

	// Identifier is the user-supplied identity proof (a game role ID
	// or profile link). Required, at most MaxIdentifierLength chars.
	Identifier string

	// Reason is the free-text purpose statement. Required, at most
	// MaxReasonLength chars.
	Reason string

	// KillCount is optional; DefaultKillCount when left blank.
	KillCount string

	// Notes is optional; DefaultNotes when left blank.
	Notes string

	// SubmittedAt is the submission timestamp, immutable.
	SubmittedAt time.Time
}

// Submission carries the raw modal field values. Required-field
// presence and length limits are enforced by the platform's form
// constraints before the submission reaches the bot, so they are not
// re-validated here.
type Submission struct {
	Identifier string
	Reason     string
	KillCount  string
	Notes      string
}

// NewRecord builds a Record from a submission, substituting defaults
// for blank optional fields.
func NewRecord(channelID ref.ChannelID, userID ref.UserID, displayName string, submission Submission, submittedAt time.Time) Record {
	killCount := strings.TrimSpace(submission.KillCount)
	if killCount == "" {
		killCount = DefaultKillCount
	}
	notes := strings.TrimSpace(submission.Notes)
	if notes == "" {
		notes = DefaultNotes
	}
	return Record{
		ChannelID:       channelID,
		UserID:          userID,
		UserDisplayName: displayName,
		Identifier:      submission.Identifier,
		Reason:          submission.Reason,
		KillCount:       killCount,
		Notes:           notes,
		SubmittedAt:     submittedAt,
	}
}
