// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// RoleID is a validated Discord role snowflake.
//
// RoleID is an immutable value type. The zero value is not valid; use
// IsZero to check.
type RoleID struct {
	id uint64
}

// ParseRoleID validates and wraps a raw role snowflake string.
func ParseRoleID(raw string) (RoleID, error) {
	id, err := parseSnowflake("role", raw)
	if err != nil {
		return RoleID{}, err
	}
	return RoleID{id: id}, nil
}

// String returns the decimal snowflake form.
func (r RoleID) String() string { return formatSnowflake(r.id) }

// Mention returns the role mention markup (e.g., "<@&1183726…>").
func (r RoleID) Mention() string { return "<@&" + r.String() + ">" }

// IsZero reports whether the RoleID is the zero value (uninitialized).
func (r RoleID) IsZero() bool { return r.id == 0 }
