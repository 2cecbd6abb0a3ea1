// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/guildwarden/guildwarden/lib/ref"
	"github.com/guildwarden/guildwarden/messaging"
)

// guidanceChannelPrefix and guidanceNameLimit shape the deterministic
// guidance channel name. The limit keeps the full name comfortably
// inside Discord's 100-character channel name cap.
const (
	guidanceChannelPrefix = "welcome-"
	guidanceNameLimit     = 80
)

var memberChannelCapabilities = messaging.Capabilities(
	messaging.CapabilityView,
	messaging.CapabilitySend,
	messaging.CapabilityReadHistory,
	messaging.CapabilityEmbedLinks,
	messaging.CapabilityAttachFiles,
)

var supportGuidanceCapabilities = messaging.Capabilities(
	messaging.CapabilityView,
	messaging.CapabilitySend,
	messaging.CapabilityReadHistory,
)

// handleMemberJoined reacts to a member joining the guild. Members
// already holding a verified role are skipped; everyone else gets a
// private guidance channel pointing at the ticket panel.
func (w *Warden) handleMemberJoined(ctx context.Context, t trigger) {
	member := t.member
	logger := w.logger.With("member", member.Username, "user_id", member.ID)

	if w.config.HoldsVerifiedRole(member.RoleIDs) {
		logger.Info("member already verified, skipping guidance channel")
		return
	}

	created, channel, err := w.ensureGuidanceChannel(ctx, t.guildID, member)
	if err != nil {
		logger.Error("ensuring guidance channel", "error", err)
		return
	}
	if created {
		logger.Info("guidance channel created", "channel", channel.Name, "channel_id", channel.ID)
	} else {
		logger.Info("guidance channel already existed, reminder posted",
			"channel", channel.Name, "channel_id", channel.ID)
	}
}

// ensureGuidanceChannel converges on exactly one guidance channel for
// the member: existence is checked by the deterministic name before
// creation, so repeated triggers never produce duplicates. For an
// existing channel the member's access is re-asserted and a reminder
// posted; otherwise the channel is created hidden from the general
// membership and the guidance message posted.
func (w *Warden) ensureGuidanceChannel(ctx context.Context, guildID ref.GuildID, member messaging.Member) (bool, messaging.Channel, error) {
	name := guidanceChannelName(member.Username)

	channels, err := w.session.GuildChannels(ctx, guildID)
	if err != nil {
		return false, messaging.Channel{}, fmt.Errorf("listing guild channels: %w", err)
	}
	for _, channel := range channels {
		if channel.Kind != messaging.ChannelKindText {
			continue
		}
		if channel.ParentID != w.config.NewMemberCategoryID || channel.Name != name {
			continue
		}

		// Re-assert access in case the member's overwrite was lost.
		err := w.session.SetChannelOverwrite(ctx, channel.ID, messaging.Overwrite{
			Member: member.ID,
			Allow:  memberChannelCapabilities,
		})
		if err != nil {
			w.logger.Warn("re-asserting member access on guidance channel",
				"channel_id", channel.ID, "error", err)
		}
		reminder := fmt.Sprintf(
			"%s this is your verification channel. Head to `%s` and press **Create Ticket** to start.",
			member.ID.Mention(), w.messages.TicketPanelChannel)
		if _, err := w.session.SendMessage(ctx, channel.ID, messaging.Message{Content: reminder}); err != nil {
			return false, channel, fmt.Errorf("posting reminder: %w", err)
		}
		return false, channel, nil
	}

	channel, err := w.session.CreateChannel(ctx, guildID, messaging.CreateChannelRequest{
		Name:     name,
		Kind:     messaging.ChannelKindText,
		ParentID: w.config.NewMemberCategoryID,
		Topic:    fmt.Sprintf("Verification guidance for %s", member.DisplayName),
		Overwrites: []messaging.Overwrite{
			{
				Role: messaging.EveryoneRole(guildID),
				Deny: messaging.Capabilities(messaging.CapabilityView),
			},
			{
				Member: member.ID,
				Allow:  memberChannelCapabilities,
			},
			{
				Role:  w.config.SupportRoleID,
				Allow: supportGuidanceCapabilities,
			},
			{
				// Hiding @everyone hides the bot too; grant it
				// back its own access.
				Member: w.session.BotUser(),
				Allow:  memberChannelCapabilities,
			},
		},
	})
	if err != nil {
		return false, messaging.Channel{}, fmt.Errorf("creating guidance channel: %w", err)
	}

	guidance := fmt.Sprintf(
		"Welcome %s! 🎉\n\n"+
			"To protect the server and its members we ask every newcomer to verify their identity.\n\n"+
			"➡️ **Go to `%s` and press the Create Ticket button there to start the verification process.**\n\n"+
			"The %s team has been notified and will help you as soon as possible. "+
			"If you run into trouble with `%s`, describe the problem here and a support member will see it.",
		member.ID.Mention(), w.messages.TicketPanelChannel,
		w.config.SupportRoleID.Mention(), w.messages.TicketPanelChannel)
	if _, err := w.session.SendMessage(ctx, channel.ID, messaging.Message{Content: guidance}); err != nil {
		return true, channel, fmt.Errorf("posting guidance message: %w", err)
	}
	return true, channel, nil
}

// guidanceChannelName derives the deterministic channel name for a
// member handle: lowercase, alphanumerics plus hyphen and underscore
// only, truncated, with a fixed prefix. A handle that sanitizes to
// nothing falls back to "member".
func guidanceChannelName(handle string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(handle) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		name = "member"
	}
	if len(name) > guidanceNameLimit {
		name = name[:guidanceNameLimit]
	}
	return guidanceChannelPrefix + name
}
