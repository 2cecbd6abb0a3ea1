// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"strings"

	"github.com/guildwarden/guildwarden/lib/ref"
)

// Capability is one channel permission the bot grants or denies,
// named for what it allows rather than for the platform's bit flag.
// The mapping to Discord permission bits lives in the adapter.
type Capability uint16

const (
	// CapabilityView allows seeing the channel at all.
	CapabilityView Capability = 1 << iota
	// CapabilitySend allows sending messages.
	CapabilitySend
	// CapabilityReadHistory allows reading messages sent before join.
	CapabilityReadHistory
	// CapabilityEmbedLinks allows link previews and embeds.
	CapabilityEmbedLinks
	// CapabilityAttachFiles allows file uploads.
	CapabilityAttachFiles
	// CapabilityManageMessages allows deleting and pinning others'
	// messages.
	CapabilityManageMessages
	// CapabilityManageChannels allows editing and deleting the channel.
	CapabilityManageChannels
	// CapabilityManageRoles allows editing the channel's permission
	// overwrites.
	CapabilityManageRoles
)

// CapabilitySet is a set of capabilities applied to one (channel,
// target) pair. The zero value is the empty set.
type CapabilitySet uint16

// Capabilities builds a set from individual capabilities.
func Capabilities(caps ...Capability) CapabilitySet {
	var set CapabilitySet
	for _, c := range caps {
		set |= CapabilitySet(c)
	}
	return set
}

// Has reports whether the set contains the capability.
func (s CapabilitySet) Has(c Capability) bool {
	return s&CapabilitySet(c) != 0
}

// IsEmpty reports whether the set contains no capabilities.
func (s CapabilitySet) IsEmpty() bool { return s == 0 }

// String renders the set for logging (e.g., "view|send|read-history").
func (s CapabilitySet) String() string {
	names := []struct {
		cap  Capability
		name string
	}{
		{CapabilityView, "view"},
		{CapabilitySend, "send"},
		{CapabilityReadHistory, "read-history"},
		{CapabilityEmbedLinks, "embed-links"},
		{CapabilityAttachFiles, "attach-files"},
		{CapabilityManageMessages, "manage-messages"},
		{CapabilityManageChannels, "manage-channels"},
		{CapabilityManageRoles, "manage-roles"},
	}
	var parts []string
	for _, entry := range names {
		if s.Has(entry.cap) {
			parts = append(parts, entry.name)
		}
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, "|")
}

// Overwrite is one declarative permission overwrite on a channel.
// Exactly one of Role or Member identifies the target.
type Overwrite struct {
	// Role targets a role when non-zero.
	Role ref.RoleID

	// Member targets a single member when non-zero.
	Member ref.UserID

	// Allow and Deny are the capabilities explicitly granted and
	// explicitly withheld. Capabilities in neither set inherit from
	// the category and guild as usual.
	Allow CapabilitySet
	Deny  CapabilitySet
}

// EveryoneRole returns the guild's implicit @everyone role. Discord
// models @everyone as a role whose ID equals the guild ID; overwrites
// that hide a channel from the general membership target it.
func EveryoneRole(guildID ref.GuildID) ref.RoleID {
	roleID, err := ref.ParseRoleID(guildID.String())
	if err != nil {
		// Unreachable: a valid GuildID is a valid snowflake.
		panic("messaging: guild ID is not a valid role ID: " + err.Error())
	}
	return roleID
}
