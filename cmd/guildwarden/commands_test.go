// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"strings"
	"testing"

	"github.com/guildwarden/guildwarden/lib/config"
	"github.com/guildwarden/guildwarden/lib/ref"
	"github.com/guildwarden/guildwarden/messaging"
)

func addLogChannel(t *testing.T, session *fakeSession) ref.ChannelID {
	t.Helper()
	id := channelID(t, testLogChannelID)
	session.addChannel(messaging.Channel{
		ID:      id,
		GuildID: guildID(t, testGuildID),
		Name:    "verification-log",
		Kind:    messaging.ChannelKindText,
	})
	return id
}

// verifiedTicket seeds a ticket channel with a submitted record and
// returns a support-role verify command for it.
func verifiedTicket(t *testing.T, session *fakeSession, warden *Warden) (messaging.Channel, messaging.Interaction) {
	t.Helper()
	channel := ticketChannel(t, "310000000000000001")
	session.addChannel(channel)
	warden.handleIntakeSubmitted(context.Background(), trigger{
		kind:        triggerIntakeSubmitted,
		interaction: submittedIntake(t, channel, "player-123", "apply for membership"),
	})
	return channel, supportInteraction(t, commandVerifyTicket, channel.ID)
}

// --- verifyticket preconditions ---

func TestVerifyTicketRequiresSupportRole(t *testing.T) {
	session := newFakeSession()
	warden, _ := newTestWarden(t, session, testEnv())
	logChannel := addLogChannel(t, session)
	channel, interaction := verifiedTicket(t, session, warden)
	interaction.MemberRoleIDs = nil

	warden.handleVerifyTicket(context.Background(), interaction)

	response := session.lastResponse(t)
	if !response.response.Ephemeral {
		t.Fatalf("authorization failure must be ephemeral")
	}
	if len(session.messagesTo(logChannel)) != 0 {
		t.Fatalf("unauthorized verify reached the log channel")
	}
	if _, ok := warden.store.Get(channel.ID); !ok {
		t.Fatalf("unauthorized verify purged the record")
	}
}

func TestVerifyTicketOutsideTicketCategoryRejected(t *testing.T) {
	session := newFakeSession()
	warden, _ := newTestWarden(t, session, testEnv())
	addLogChannel(t, session)

	lounge := messaging.Channel{
		ID:       channelID(t, "320000000000000001"),
		GuildID:  guildID(t, testGuildID),
		Name:     "lounge",
		Kind:     messaging.ChannelKindText,
		ParentID: channelID(t, "390000000000000009"),
	}
	session.addChannel(lounge)

	warden.handleVerifyTicket(context.Background(),
		supportInteraction(t, commandVerifyTicket, lounge.ID))

	response := session.lastResponse(t)
	if !response.response.Ephemeral || !strings.Contains(response.response.Content, "ticket channel") {
		t.Fatalf("expected ticket-channel rejection, got %q", response.response.Content)
	}
}

func TestVerifyTicketWithoutLogChannelRejected(t *testing.T) {
	session := newFakeSession()
	env := testEnv()
	delete(env, config.EnvLogChannelID)
	warden, _ := newTestWarden(t, session, env)
	channel, interaction := verifiedTicket(t, session, warden)

	warden.handleVerifyTicket(context.Background(), interaction)

	response := session.lastResponse(t)
	if !strings.Contains(response.response.Content, commandSetLogChannel) {
		t.Fatalf("rejection does not name the fix: %q", response.response.Content)
	}
	if _, ok := warden.store.Get(channel.ID); !ok {
		t.Fatalf("precondition failure purged the record")
	}
}

func TestVerifyTicketWithoutRecordRejected(t *testing.T) {
	session := newFakeSession()
	warden, _ := newTestWarden(t, session, testEnv())
	logChannel := addLogChannel(t, session)
	channel := ticketChannel(t, "310000000000000001")
	session.addChannel(channel)

	warden.handleVerifyTicket(context.Background(),
		supportInteraction(t, commandVerifyTicket, channel.ID))

	response := session.lastResponse(t)
	if !response.response.Ephemeral || !strings.Contains(response.response.Content, "No submitted information") {
		t.Fatalf("expected missing-record rejection, got %q", response.response.Content)
	}
	if len(session.messagesTo(logChannel)) != 0 {
		t.Fatalf("missing-record verify reached the log channel")
	}
}

func TestVerifyTicketUnresolvableLogChannelRejected(t *testing.T) {
	session := newFakeSession()
	warden, _ := newTestWarden(t, session, testEnv())
	// Log channel configured but never added to the session: the
	// fetch fails at verify time.
	channel, interaction := verifiedTicket(t, session, warden)

	warden.handleVerifyTicket(context.Background(), interaction)

	response := session.lastResponse(t)
	if !strings.Contains(response.response.Content, "log channel") {
		t.Fatalf("rejection does not name the log channel: %q", response.response.Content)
	}
	if _, ok := warden.store.Get(channel.ID); !ok {
		t.Fatalf("precondition failure purged the record")
	}
}

// --- verifyticket completion ---

func TestVerifyTicketWritesLogAndPurgesRecord(t *testing.T) {
	session := newFakeSession()
	warden, _ := newTestWarden(t, session, testEnv())
	logChannel := addLogChannel(t, session)
	channel, interaction := verifiedTicket(t, session, warden)

	warden.handleVerifyTicket(context.Background(), interaction)

	entries := session.messagesTo(logChannel)
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if len(entries[0].Embeds) != 1 {
		t.Fatalf("log entry has no embed")
	}
	embed := entries[0].Embeds[0]
	if embed.Color != messaging.ColorSuccess {
		t.Errorf("log embed color = %#x, want success", embed.Color)
	}

	var haveIdentity, haveReason, haveKillCount, haveNotes bool
	for _, field := range embed.Fields {
		switch {
		case field.Value == "player-123":
			haveIdentity = true
		case field.Value == "apply for membership":
			haveReason = true
		case field.Name == "Kill count":
			haveKillCount = true
		case field.Name == "Notes":
			haveNotes = true
		}
	}
	if !haveIdentity {
		t.Errorf("log embed missing the submitted identifier verbatim")
	}
	if !haveReason {
		t.Errorf("log embed missing the submitted reason verbatim")
	}
	// Untouched optional fields stay out of the log entry.
	if haveKillCount || haveNotes {
		t.Errorf("log embed carries default-valued optional fields")
	}

	response := session.lastResponse(t)
	if response.response.Ephemeral {
		t.Errorf("verification confirmation must be visible in the channel")
	}

	if _, ok := warden.store.Get(channel.ID); ok {
		t.Fatalf("record not purged after verification")
	}
	if warden.store.Len() != 0 {
		t.Fatalf("store not empty after verification")
	}
}

func TestVerifyTicketLogFailureKeepsRecord(t *testing.T) {
	session := newFakeSession()
	warden, _ := newTestWarden(t, session, testEnv())
	logChannel := addLogChannel(t, session)
	channel, interaction := verifiedTicket(t, session, warden)
	session.sendErr[logChannel] = &messaging.APIError{StatusCode: 403, Code: 50001, Message: "missing access"}

	warden.handleVerifyTicket(context.Background(), interaction)

	if _, ok := warden.store.Get(channel.ID); !ok {
		t.Fatalf("record purged although the log entry was never written")
	}
	response := session.lastResponse(t)
	if !response.response.Ephemeral || !strings.Contains(response.response.Content, "NOT verified") {
		t.Fatalf("expected log-failure rejection, got %q", response.response.Content)
	}
}

// --- setlogchannel ---

func TestSetLogChannelRequiresAdmin(t *testing.T) {
	session := newFakeSession()
	warden, _ := newTestWarden(t, session, testEnv())
	target := addLogChannel(t, session)
	before := warden.logChannel()

	interaction := supportInteraction(t, commandSetLogChannel, channelID(t, "320000000000000001"))
	interaction.ChannelOption = target
	warden.handleSetLogChannel(context.Background(), interaction)

	if warden.logChannel() != before {
		t.Fatalf("non-admin changed the log channel")
	}
	response := session.lastResponse(t)
	if !response.response.Ephemeral || !strings.Contains(response.response.Content, "administrators") {
		t.Fatalf("expected admin rejection, got %q", response.response.Content)
	}
}

func TestSetLogChannelUpdatesRuntimeTarget(t *testing.T) {
	session := newFakeSession()
	warden, _ := newTestWarden(t, session, testEnv())
	replacement := messaging.Channel{
		ID:      channelID(t, "510000000000000001"),
		GuildID: guildID(t, testGuildID),
		Name:    "new-log",
		Kind:    messaging.ChannelKindText,
	}
	session.addChannel(replacement)

	interaction := supportInteraction(t, commandSetLogChannel, channelID(t, "320000000000000001"))
	interaction.IsAdmin = true
	interaction.ChannelOption = replacement.ID
	warden.handleSetLogChannel(context.Background(), interaction)

	if warden.logChannel() != replacement.ID {
		t.Fatalf("log channel = %v, want %v", warden.logChannel(), replacement.ID)
	}
	response := session.lastResponse(t)
	if !response.response.Ephemeral {
		t.Errorf("setlogchannel ack must be ephemeral")
	}
	if !strings.Contains(response.response.Content, "restart") {
		t.Errorf("ack does not mention the restart caveat: %q", response.response.Content)
	}
}

func TestSetLogChannelRejectsCategory(t *testing.T) {
	session := newFakeSession()
	warden, _ := newTestWarden(t, session, testEnv())
	before := warden.logChannel()

	category := messaging.Channel{
		ID:      channelID(t, "330000000000000001"),
		GuildID: guildID(t, testGuildID),
		Name:    "Some Category",
		Kind:    messaging.ChannelKindCategory,
	}
	session.addChannel(category)

	interaction := supportInteraction(t, commandSetLogChannel, channelID(t, "320000000000000001"))
	interaction.IsAdmin = true
	interaction.ChannelOption = category.ID
	warden.handleSetLogChannel(context.Background(), interaction)

	if warden.logChannel() != before {
		t.Fatalf("category accepted as log channel")
	}
}

// --- checkmember ---

func TestCheckMemberRequiresSupportRole(t *testing.T) {
	session := newFakeSession()
	warden, _ := newTestWarden(t, session, testEnv())

	interaction := supportInteraction(t, commandCheckMember, channelID(t, "320000000000000001"))
	interaction.MemberRoleIDs = nil
	interaction.UserOption = userID(t, "700000000000000002")
	warden.handleCheckMember(context.Background(), interaction)

	if len(session.created) != 0 {
		t.Fatalf("unauthorized checkmember created a channel")
	}
}

func TestCheckMemberAlreadyVerified(t *testing.T) {
	session := newFakeSession()
	warden, _ := newTestWarden(t, session, testEnv())

	member := newcomer(t)
	member.RoleIDs = []ref.RoleID{roleID(t, testVerifiedRoleID)}
	session.members[member.ID] = member

	interaction := supportInteraction(t, commandCheckMember, channelID(t, "320000000000000001"))
	interaction.UserOption = member.ID
	warden.handleCheckMember(context.Background(), interaction)

	response := session.lastResponse(t)
	if !strings.Contains(response.response.Content, "already verified") {
		t.Fatalf("expected already-verified report, got %q", response.response.Content)
	}
	if len(session.created) != 0 {
		t.Fatalf("checkmember created a channel for a verified member")
	}
}

func TestCheckMemberUnverifiedGetsGuidanceChannel(t *testing.T) {
	session := newFakeSession()
	warden, _ := newTestWarden(t, session, testEnv())

	member := newcomer(t)
	session.members[member.ID] = member

	interaction := supportInteraction(t, commandCheckMember, channelID(t, "320000000000000001"))
	interaction.UserOption = member.ID
	warden.handleCheckMember(context.Background(), interaction)

	if len(session.created) != 1 {
		t.Fatalf("expected 1 guidance channel, got %d creations", len(session.created))
	}
	response := session.lastResponse(t)
	if !strings.Contains(response.response.Content, "not verified") {
		t.Fatalf("expected not-verified report, got %q", response.response.Content)
	}
}

func TestCheckMemberUnknownMemberRejected(t *testing.T) {
	session := newFakeSession()
	warden, _ := newTestWarden(t, session, testEnv())

	interaction := supportInteraction(t, commandCheckMember, channelID(t, "320000000000000001"))
	interaction.UserOption = userID(t, "799999999999999999")
	warden.handleCheckMember(context.Background(), interaction)

	response := session.lastResponse(t)
	if !response.response.Ephemeral || !strings.Contains(response.response.Content, "could not be resolved") {
		t.Fatalf("expected unresolved-member rejection, got %q", response.response.Content)
	}
	if len(session.created) != 0 {
		t.Fatalf("unknown member produced a guidance channel")
	}
}
