// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/guildwarden/guildwarden/lib/intake"
	"github.com/guildwarden/guildwarden/messaging"
)

// Command names, shared by registration and dispatch.
const (
	commandSetLogChannel = "setlogchannel"
	commandVerifyTicket  = "verifyticket"
	commandCheckMember   = "checkmember"
)

// commandSpecs declares the operator-facing command set registered at
// startup.
func commandSpecs() []messaging.CommandSpec {
	return []messaging.CommandSpec{
		{
			Name:        commandSetLogChannel,
			Description: "Set the channel that receives verification log entries",
			AdminOnly:   true,
			Options: []messaging.CommandOption{{
				Name:        "channel",
				Description: "The log channel",
				Kind:        messaging.CommandOptionChannel,
				Required:    true,
			}},
		},
		{
			Name:        commandVerifyTicket,
			Description: "Verify the submitted information in this ticket channel",
		},
		{
			Name:        commandCheckMember,
			Description: "Check a member's verification state and re-issue guidance if needed",
			Options: []messaging.CommandOption{{
				Name:        "member",
				Description: "The member to check",
				Kind:        messaging.CommandOptionUser,
				Required:    true,
			}},
		},
	}
}

// handleCommand routes a slash command to its handler.
func (w *Warden) handleCommand(ctx context.Context, t trigger) {
	interaction := t.interaction
	switch interaction.Command {
	case commandSetLogChannel:
		w.handleSetLogChannel(ctx, interaction)
	case commandVerifyTicket:
		w.handleVerifyTicket(ctx, interaction)
	case commandCheckMember:
		w.handleCheckMember(ctx, interaction)
	default:
		w.logger.Warn("unknown command", "command", interaction.Command)
		w.respondEphemeral(ctx, interaction, "❌ Unknown command.")
	}
}

// holdsSupportRole reports whether the invoker carries the support
// role.
func (w *Warden) holdsSupportRole(interaction messaging.Interaction) bool {
	for _, roleID := range interaction.MemberRoleIDs {
		if roleID == w.config.SupportRoleID {
			return true
		}
	}
	return false
}

// handleSetLogChannel replaces the runtime verification log channel.
// The platform already hides the command from non-administrators;
// the permission is still re-checked here because command visibility
// can be reconfigured server-side.
func (w *Warden) handleSetLogChannel(ctx context.Context, interaction messaging.Interaction) {
	if !interaction.IsAdmin {
		w.respondEphemeral(ctx, interaction, "❌ Only administrators can set the log channel.")
		return
	}

	channel, err := w.session.Channel(ctx, interaction.ChannelOption)
	if err != nil {
		w.logger.Error("resolving log channel option",
			"channel_id", interaction.ChannelOption, "error", err)
		w.respondEphemeral(ctx, interaction, "❌ That channel could not be resolved.")
		return
	}
	if channel.Kind != messaging.ChannelKindText {
		w.respondEphemeral(ctx, interaction, "❌ The log channel must be a text channel.")
		return
	}

	w.setLogChannel(channel.ID)
	w.logger.Info("log channel set",
		"channel", channel.Name, "channel_id", channel.ID, "by", interaction.User.Username)
	w.respondEphemeral(ctx, interaction, fmt.Sprintf(
		"✅ Verification logs will be sent to %s. Note: this setting does not survive a restart; set LOG_CHANNEL_ID to make it permanent.",
		channel.ID.Mention()))
}

// handleVerifyTicket completes the verification workflow for the
// current ticket channel. Preconditions are checked in a fixed order
// and each failure gets its own invoker-only message naming what to
// fix. The stored record is purged only after the log entry and the
// channel confirmation both went out.
func (w *Warden) handleVerifyTicket(ctx context.Context, interaction messaging.Interaction) {
	if !w.holdsSupportRole(interaction) {
		w.respondEphemeral(ctx, interaction, fmt.Sprintf(
			"❌ Only members of %s can verify tickets.", w.config.SupportRoleID.Mention()))
		return
	}

	channel, err := w.session.Channel(ctx, interaction.ChannelID)
	if err != nil {
		w.logger.Error("resolving current channel",
			"channel_id", interaction.ChannelID, "error", err)
		w.respondEphemeral(ctx, interaction, "❌ The current channel could not be resolved.")
		return
	}
	if channel.ParentID != w.config.TicketCategoryID {
		w.respondEphemeral(ctx, interaction,
			"❌ This command only works inside a ticket channel.")
		return
	}

	logChannelID := w.logChannel()
	if logChannelID.IsZero() {
		w.respondEphemeral(ctx, interaction, fmt.Sprintf(
			"❌ No log channel is configured. An administrator must run `/%s` first.",
			commandSetLogChannel))
		return
	}

	record, ok := w.store.Get(interaction.ChannelID)
	if !ok {
		w.respondEphemeral(ctx, interaction,
			"❌ No submitted information found for this ticket. The user must press the button and fill in the form first.")
		return
	}

	logChannel, err := w.session.Channel(ctx, logChannelID)
	if err != nil || logChannel.Kind != messaging.ChannelKindText {
		w.logger.Error("resolving log channel",
			"channel_id", logChannelID, "error", err)
		w.respondEphemeral(ctx, interaction, fmt.Sprintf(
			"❌ The configured log channel no longer resolves to a text channel. An administrator must run `/%s` again.",
			commandSetLogChannel))
		return
	}

	entry := messaging.Embed{
		Title: "✅ Ticket verified",
		Color: messaging.ColorSuccess,
		Fields: []messaging.EmbedField{
			{Name: "Processed by", Value: interaction.User.ID.Mention(), Inline: true},
			{Name: "Submitted by", Value: fmt.Sprintf("%s (%s)", record.UserID.Mention(), record.UserDisplayName), Inline: true},
			{Name: "Identity", Value: record.Identifier},
			{Name: "Reason", Value: record.Reason},
		},
		FooterText: fmt.Sprintf("Submitted at %s", record.SubmittedAt.Format("2006-01-02 15:04:05 MST")),
		Timestamp:  w.clock.Now().UTC(),
	}
	if record.KillCount != intake.DefaultKillCount {
		entry.Fields = append(entry.Fields,
			messaging.EmbedField{Name: "Kill count", Value: record.KillCount, Inline: true})
	}
	if record.Notes != intake.DefaultNotes {
		entry.Fields = append(entry.Fields,
			messaging.EmbedField{Name: "Notes", Value: record.Notes})
	}
	// Thumbnail is decoration; a failed avatar lookup never blocks
	// verification.
	if submitter, err := w.session.User(ctx, record.UserID); err == nil {
		entry.ThumbnailURL = submitter.AvatarURL
	}

	if _, err := w.session.SendMessage(ctx, logChannel.ID, messaging.Message{
		Embeds: []messaging.Embed{entry},
	}); err != nil {
		w.logger.Error("writing verification log entry",
			"log_channel_id", logChannel.ID, "error", err)
		w.respondEphemeral(ctx, interaction,
			"❌ Writing the log entry failed; the ticket was NOT verified. Try again, or check the bot's access to the log channel.")
		return
	}

	err = w.session.Respond(ctx, interaction, messaging.Response{
		Content: fmt.Sprintf("✅ %s verified %s's ticket. The record was written to %s.",
			interaction.User.ID.Mention(), record.UserID.Mention(), logChannel.ID.Mention()),
	})
	if err != nil {
		w.logger.Error("confirming verification", "error", err)
	}

	w.store.Remove(interaction.ChannelID)
	w.logger.Info("ticket verified",
		"channel_id", interaction.ChannelID,
		"submitter", record.UserID, "processor", interaction.User.ID)
}

// handleCheckMember reports a member's verification state and, for an
// unverified member, converges their guidance channel the same way a
// fresh join would.
func (w *Warden) handleCheckMember(ctx context.Context, interaction messaging.Interaction) {
	if !w.holdsSupportRole(interaction) {
		w.respondEphemeral(ctx, interaction, fmt.Sprintf(
			"❌ Only members of %s can check members.", w.config.SupportRoleID.Mention()))
		return
	}

	member, err := w.session.Member(ctx, interaction.GuildID, interaction.UserOption)
	if err != nil {
		w.logger.Error("resolving member",
			"user_id", interaction.UserOption, "error", err)
		w.respondEphemeral(ctx, interaction,
			"❌ That member could not be resolved. Are they still in the server?")
		return
	}

	if w.config.HoldsVerifiedRole(member.RoleIDs) {
		w.respondEphemeral(ctx, interaction, fmt.Sprintf(
			"✅ %s is already verified.", member.ID.Mention()))
		return
	}

	created, channel, err := w.ensureGuidanceChannel(ctx, interaction.GuildID, member)
	if err != nil {
		w.logger.Error("ensuring guidance channel",
			"user_id", member.ID, "error", err)
		w.respondEphemeral(ctx, interaction,
			"❌ The guidance channel could not be prepared. Check the bot's channel permissions.")
		return
	}

	if created {
		w.respondEphemeral(ctx, interaction, fmt.Sprintf(
			"⏳ %s is not verified. A guidance channel was created: %s.",
			member.ID.Mention(), channel.ID.Mention()))
	} else {
		w.respondEphemeral(ctx, interaction, fmt.Sprintf(
			"⏳ %s is not verified. Their guidance channel already exists (%s); a reminder was posted.",
			member.ID.Mention(), channel.ID.Mention()))
	}
}
