// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// UserID is a validated Discord user snowflake. Members and users share
// the same snowflake — a member is a user scoped to a guild.
//
// UserID is an immutable value type. The zero value is not valid; use
// IsZero to check.
type UserID struct {
	id uint64
}

// ParseUserID validates and wraps a raw user snowflake string.
func ParseUserID(raw string) (UserID, error) {
	id, err := parseSnowflake("user", raw)
	if err != nil {
		return UserID{}, err
	}
	return UserID{id: id}, nil
}

// String returns the decimal snowflake form.
func (u UserID) String() string { return formatSnowflake(u.id) }

// Mention returns the user mention markup (e.g., "<@1183726…>").
func (u UserID) Mention() string { return "<@" + u.String() + ">" }

// IsZero reports whether the UserID is the zero value (uninitialized).
func (u UserID) IsZero() bool { return u.id == 0 }
