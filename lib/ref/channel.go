// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// ChannelID is a validated Discord channel snowflake. Category IDs are
// ChannelIDs too — Discord models categories as a channel type, and the
// parent of a text channel is referenced by channel ID.
//
// ChannelID is an immutable value type. The zero value is not valid;
// use IsZero to check.
type ChannelID struct {
	id uint64
}

// ParseChannelID validates and wraps a raw channel snowflake string.
func ParseChannelID(raw string) (ChannelID, error) {
	id, err := parseSnowflake("channel", raw)
	if err != nil {
		return ChannelID{}, err
	}
	return ChannelID{id: id}, nil
}

// String returns the decimal snowflake form (e.g., "1183726518679257239").
func (c ChannelID) String() string { return formatSnowflake(c.id) }

// Mention returns the channel mention markup (e.g., "<#1183726…>").
func (c ChannelID) Mention() string { return "<#" + c.String() + ">" }

// IsZero reports whether the ChannelID is the zero value (uninitialized).
func (c ChannelID) IsZero() bool { return c.id == 0 }
