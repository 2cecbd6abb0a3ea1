// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"strings"

	"github.com/guildwarden/guildwarden/lib/ref"
)

// Environment variable names read by FromEnv.
const (
	EnvToken               = "DISCORD_BOT_TOKEN"
	EnvSupportRoleID       = "SUPPORT_ROLE_ID"
	EnvTicketCategoryID    = "TICKET_CATEGORY_ID"
	EnvNewMemberCategoryID = "NEW_MEMBER_CATEGORY_ID"
	EnvLogChannelID        = "LOG_CHANNEL_ID"
	EnvVerifiedRoleIDs     = "VERIFIED_ROLE_IDS"
)

// Config is the validated runtime configuration. All identifier fields
// are immutable after startup. The log channel is special: the value
// here is only the startup default — the live, mutable log channel is
// owned by the service and may be overwritten at runtime by the
// set-log-channel command (an override that does not survive restart).
type Config struct {
	// Token is the bot credential passed to the gateway connection.
	Token string

	// SupportRoleID is the role granted access to every ticket
	// channel and authorized to run verify-ticket and check-member.
	SupportRoleID ref.RoleID

	// TicketCategoryID is the category whose new channels are
	// treated as tickets.
	TicketCategoryID ref.ChannelID

	// NewMemberCategoryID is the category that receives per-member
	// guidance channels.
	NewMemberCategoryID ref.ChannelID

	// LogChannelID is the startup default for the verification log
	// channel. Zero means unset; verification fails with a
	// precondition error until an administrator runs
	// set-log-channel.
	LogChannelID ref.ChannelID

	// VerifiedRoleIDs is the set of roles whose presence on a member
	// is treated as proof of completed verification. Empty when
	// VERIFIED_ROLE_IDS is not configured.
	VerifiedRoleIDs []ref.RoleID

	// Warnings are non-fatal resolution notes (e.g., an unparseable
	// optional LOG_CHANNEL_ID). The caller logs them at startup.
	Warnings []string
}

// FieldError describes one offending configuration field.
type FieldError struct {
	// Name is the environment variable name.
	Name string
	// Reason is a human-readable description of what is wrong.
	Reason string
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Reason)
}

// ConfigError reports every missing or invalid required field found
// during resolution. Resolution is atomic: if any required field is
// wrong, no Config is produced and the process must not start the
// orchestrator.
type ConfigError struct {
	Fields []FieldError
}

func (e *ConfigError) Error() string {
	names := make([]string, len(e.Fields))
	for i, field := range e.Fields {
		names[i] = field.String()
	}
	return fmt.Sprintf("configuration invalid (%d field(s)): %s",
		len(e.Fields), strings.Join(names, "; "))
}

// FieldNames returns the environment variable names of all offending
// fields, in resolution order.
func (e *ConfigError) FieldNames() []string {
	names := make([]string, len(e.Fields))
	for i, field := range e.Fields {
		names[i] = field.Name
	}
	return names
}

// FromEnv resolves a Config from the given lookup function (normally
// os.LookupEnv; tests pass a map-backed lookup). It returns either a
// fully valid Config or a *ConfigError carrying every problem found.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	var fields []FieldError

	addError := func(name, reason string) {
		fields = append(fields, FieldError{Name: name, Reason: reason})
	}

	token, ok := lookup(EnvToken)
	if !ok || token == "" {
		addError(EnvToken, "missing")
	}
	cfg.Token = token

	if raw, ok := lookup(EnvSupportRoleID); !ok || raw == "" {
		addError(EnvSupportRoleID, "missing")
	} else if roleID, err := ref.ParseRoleID(raw); err != nil {
		addError(EnvSupportRoleID, err.Error())
	} else {
		cfg.SupportRoleID = roleID
	}

	if raw, ok := lookup(EnvTicketCategoryID); !ok || raw == "" {
		addError(EnvTicketCategoryID, "missing")
	} else if channelID, err := ref.ParseChannelID(raw); err != nil {
		addError(EnvTicketCategoryID, err.Error())
	} else {
		cfg.TicketCategoryID = channelID
	}

	if raw, ok := lookup(EnvNewMemberCategoryID); !ok || raw == "" {
		addError(EnvNewMemberCategoryID, "missing")
	} else if channelID, err := ref.ParseChannelID(raw); err != nil {
		addError(EnvNewMemberCategoryID, err.Error())
	} else {
		cfg.NewMemberCategoryID = channelID
	}

	// LOG_CHANNEL_ID is optional, and an unparseable value degrades
	// to "unset" rather than blocking startup: the log channel can
	// always be set later via the set-log-channel command.
	if raw, ok := lookup(EnvLogChannelID); ok && raw != "" {
		if channelID, err := ref.ParseChannelID(raw); err != nil {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf(
				"%s is not a valid channel ID (%v); log channel must be set via the set-log-channel command",
				EnvLogChannelID, err))
		} else {
			cfg.LogChannelID = channelID
		}
	}

	if raw, ok := lookup(EnvVerifiedRoleIDs); ok {
		roleIDs, err := parseVerifiedRoleIDs(raw)
		if err != nil {
			addError(EnvVerifiedRoleIDs, err.Error())
		} else {
			cfg.VerifiedRoleIDs = roleIDs
		}
	}

	if len(fields) > 0 {
		return nil, &ConfigError{Fields: fields}
	}
	return cfg, nil
}

// parseVerifiedRoleIDs parses the comma-separated role ID list.
// Elements may carry surrounding whitespace ("111, 222,333"). Any
// unparseable element is an error naming the offending token, and a
// present-but-empty list is an error: explicit configuration must
// yield at least one verified role.
func parseVerifiedRoleIDs(raw string) ([]ref.RoleID, error) {
	var roleIDs []ref.RoleID
	seen := make(map[ref.RoleID]struct{})
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		roleID, err := ref.ParseRoleID(token)
		if err != nil {
			return nil, fmt.Errorf("element %q is not a valid role ID", token)
		}
		if _, dup := seen[roleID]; dup {
			continue
		}
		seen[roleID] = struct{}{}
		roleIDs = append(roleIDs, roleID)
	}
	if len(roleIDs) == 0 {
		return nil, fmt.Errorf("must contain at least one role ID")
	}
	return roleIDs, nil
}

// HoldsVerifiedRole reports whether any of the member's roles is in the
// verified set. Always false when no verified roles are configured.
func (c *Config) HoldsVerifiedRole(memberRoles []ref.RoleID) bool {
	for _, verified := range c.VerifiedRoleIDs {
		for _, held := range memberRoles {
			if held == verified {
				return true
			}
		}
	}
	return false
}
