// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/guildwarden/guildwarden/lib/intake"
	"github.com/guildwarden/guildwarden/messaging"
)

// Component identifiers routing intake interactions back to the
// warden. The version suffix allows changing the form without old
// buttons resolving to the new handler.
const (
	intakeButtonID = "ticket_intake_open_v1"
	intakeModalID  = "ticket_intake_submit_v1"
)

// Modal input identifiers, shared by the form definition and the
// submission handler.
const (
	intakeFieldIdentifier = "identifier"
	intakeFieldReason     = "reason"
	intakeFieldKillCount  = "kill_count"
	intakeFieldNotes      = "notes"
)

// supportChannelCapabilities is what the support role gets on every
// ticket channel.
var supportChannelCapabilities = messaging.Capabilities(
	messaging.CapabilityView,
	messaging.CapabilitySend,
	messaging.CapabilityReadHistory,
	messaging.CapabilityEmbedLinks,
	messaging.CapabilityAttachFiles,
	messaging.CapabilityManageMessages,
)

// handleChannelCreated reacts to guild channel creation. Channels
// outside the ticket category are ignored entirely: no permission
// change, no message. For ticket channels it grants the support role
// access and posts the intake prompt.
func (w *Warden) handleChannelCreated(ctx context.Context, t trigger) {
	channel := t.channel
	if channel.Kind != messaging.ChannelKindText {
		return
	}
	if channel.ParentID != w.config.TicketCategoryID {
		return
	}

	logger := w.logger.With("channel", channel.Name, "channel_id", channel.ID)
	logger.Info("ticket channel detected")

	w.clock.Sleep(w.settleDelay)

	role, err := w.session.Role(ctx, channel.GuildID, w.config.SupportRoleID)
	if err != nil {
		logger.Error("resolving support role", "role_id", w.config.SupportRoleID, "error", err)
		w.postNotice(ctx, channel, fmt.Sprintf(
			"⚠️ **Configuration error:** support role %s could not be resolved. A server administrator needs to fix SUPPORT_ROLE_ID.",
			w.config.SupportRoleID))
		return
	}

	err = w.session.SetChannelOverwrite(ctx, channel.ID, messaging.Overwrite{
		Role:  role.ID,
		Allow: supportChannelCapabilities,
	})
	if err != nil {
		logger.Error("granting support role access", "error", err)
		if messaging.IsPermissionDenied(err) {
			w.postNotice(ctx, channel,
				"⚠️ **Permission error:** the bot could not set channel permissions here.")
		}
		return
	}
	logger.Info("support role granted on ticket channel",
		"role", role.Name, "capabilities", supportChannelCapabilities.String())

	prompt := messaging.Message{
		Content: fmt.Sprintf(
			"Welcome! The %s team has been notified.\n**Press the button below to provide the information we need to process your request:**",
			w.config.SupportRoleID.Mention()),
		Buttons: []messaging.Button{{
			Label:    "📝 Provide Info",
			CustomID: intakeButtonID,
			Style:    messaging.ButtonStylePrimary,
		}},
	}
	sent, err := w.session.SendMessage(ctx, channel.ID, prompt)
	if err != nil {
		logger.Error("posting intake prompt", "error", err)
		return
	}
	logger.Info("intake prompt posted", "message_id", sent.MessageID)

	w.expirePromptLater(ctx, sent)
}

// expirePromptLater schedules the visual expiry of an intake prompt:
// after the timeout window the button is disabled and the content
// marked expired. Presentation only — an already-submitted record is
// never touched.
func (w *Warden) expirePromptLater(ctx context.Context, prompt messaging.MessageRef) {
	w.clock.AfterFunc(w.messages.PromptTimeout, func() {
		err := w.session.EditMessage(ctx, prompt, messaging.Message{
			Content: "*This information form has expired. Ask the support team if you still need to submit.*",
			Buttons: []messaging.Button{{
				Label:    "📝 Provide Info",
				CustomID: intakeButtonID,
				Style:    messaging.ButtonStylePrimary,
				Disabled: true,
			}},
		})
		if err != nil {
			w.logger.Warn("expiring intake prompt",
				"channel_id", prompt.ChannelID, "message_id", prompt.MessageID, "error", err)
		}
	})
}

// postNotice best-effort posts an error notice into a channel. When
// the bot cannot write there either, the failure is only logged.
func (w *Warden) postNotice(ctx context.Context, channel messaging.Channel, content string) {
	if _, err := w.session.SendMessage(ctx, channel.ID, messaging.Message{Content: content}); err != nil {
		w.logger.Warn("posting notice", "channel_id", channel.ID, "error", err)
	}
}

// intakeModal is the form shown when the prompt button is pressed.
// Field requirements and length limits are enforced by the platform
// before submission reaches the bot.
func intakeModal() messaging.Modal {
	return messaging.Modal{
		CustomID: intakeModalID,
		Title:    "Information needed to process your request",
		Inputs: []messaging.TextInput{
			{
				CustomID:    intakeFieldIdentifier,
				Label:       "Game role ID or profile link",
				Placeholder: "Used to confirm your identity",
				Style:       messaging.TextInputShort,
				Required:    true,
				MaxLength:   intake.MaxIdentifierLength,
			},
			{
				CustomID:    intakeFieldReason,
				Label:       "Reason for contact",
				Placeholder: "e.g. apply for full membership / elite squad / cooperation / other…",
				Style:       messaging.TextInputParagraph,
				Required:    true,
				MaxLength:   intake.MaxReasonLength,
			},
			{
				CustomID:    intakeFieldKillCount,
				Label:       "Approximate kill count (if applicable)",
				Placeholder: "e.g. 50+ (enter N/A if not applicable)",
				Style:       messaging.TextInputShort,
				Required:    false,
				MaxLength:   intake.MaxKillCountLength,
			},
			{
				CustomID:    intakeFieldNotes,
				Label:       "Additional notes (optional)",
				Placeholder: "Anything else the support team should know…",
				Style:       messaging.TextInputParagraph,
				Required:    false,
				MaxLength:   intake.MaxNotesLength,
			},
		},
	}
}

// handleIntakeOpened shows the intake form in response to the prompt
// button.
func (w *Warden) handleIntakeOpened(ctx context.Context, t trigger) {
	if err := w.session.ShowModal(ctx, t.interaction, intakeModal()); err != nil {
		w.logger.Error("showing intake modal",
			"channel_id", t.interaction.ChannelID, "error", err)
	}
}

// handleIntakeSubmitted records a submitted intake form and confirms in
// the ticket channel. A second submission in the same channel replaces
// the first.
func (w *Warden) handleIntakeSubmitted(ctx context.Context, t trigger) {
	interaction := t.interaction
	record := intake.NewRecord(
		interaction.ChannelID,
		interaction.User.ID,
		interaction.User.DisplayName,
		intake.Submission{
			Identifier: interaction.FieldValues[intakeFieldIdentifier],
			Reason:     interaction.FieldValues[intakeFieldReason],
			KillCount:  interaction.FieldValues[intakeFieldKillCount],
			Notes:      interaction.FieldValues[intakeFieldNotes],
		},
		w.clock.Now().UTC(),
	)
	w.store.Put(record)
	w.logger.Info("intake recorded",
		"channel_id", record.ChannelID, "user_id", record.UserID)

	confirmation := messaging.Message{
		Embeds: []messaging.Embed{{
			Title: "📄 Information submitted, pending review",
			Description: fmt.Sprintf(
				"Thanks %s! The %s team will review your request.\n\n**Please wait — a support member will confirm here once done.**",
				interaction.User.ID.Mention(), w.config.SupportRoleID.Mention()),
			Color: messaging.ColorPending,
			Fields: []messaging.EmbedField{
				{Name: "Identity (for reference)", Value: record.Identifier},
				{Name: "Reason (for reference)", Value: record.Reason},
			},
			FooterText: "Status: pending verification",
		}},
	}
	if _, err := w.session.SendMessage(ctx, interaction.ChannelID, confirmation); err != nil {
		w.logger.Error("posting intake confirmation",
			"channel_id", interaction.ChannelID, "error", err)
	}

	w.respondEphemeral(ctx, interaction,
		"✅ Your information has been submitted. Please wait for the support team to review it.")
}
