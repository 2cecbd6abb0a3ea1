// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// GuildID is a validated Discord guild snowflake.
//
// GuildID is an immutable value type. The zero value is not valid; use
// IsZero to check.
type GuildID struct {
	id uint64
}

// ParseGuildID validates and wraps a raw guild snowflake string.
func ParseGuildID(raw string) (GuildID, error) {
	id, err := parseSnowflake("guild", raw)
	if err != nil {
		return GuildID{}, err
	}
	return GuildID{id: id}, nil
}

// String returns the decimal snowflake form.
func (g GuildID) String() string { return formatSnowflake(g.id) }

// IsZero reports whether the GuildID is the zero value (uninitialized).
func (g GuildID) IsZero() bool { return g.id == 0 }
