// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"strings"
	"testing"

	"github.com/guildwarden/guildwarden/lib/ref"
	"github.com/guildwarden/guildwarden/messaging"
)

func newcomer(t *testing.T) messaging.Member {
	t.Helper()
	return messaging.Member{
		User: messaging.User{
			ID:          userID(t, "700000000000000002"),
			Username:    "Newcomer_99",
			DisplayName: "Newcomer",
		},
	}
}

// --- member join ---

func TestMemberJoinedVerifiedSkipped(t *testing.T) {
	session := newFakeSession()
	warden, _ := newTestWarden(t, session, testEnv())

	member := newcomer(t)
	member.RoleIDs = []ref.RoleID{roleID(t, testVerifiedRoleID)}
	warden.handleMemberJoined(context.Background(), trigger{
		kind:    triggerMemberJoined,
		guildID: guildID(t, testGuildID),
		member:  member,
	})

	if len(session.created) != 0 || len(session.sent) != 0 {
		t.Fatalf("verified member join caused side effects")
	}
}

func TestMemberJoinedCreatesGuidanceChannel(t *testing.T) {
	session := newFakeSession()
	warden, _ := newTestWarden(t, session, testEnv())

	guild := guildID(t, testGuildID)
	member := newcomer(t)
	warden.handleMemberJoined(context.Background(), trigger{
		kind:    triggerMemberJoined,
		guildID: guild,
		member:  member,
	})

	if len(session.created) != 1 {
		t.Fatalf("expected 1 channel creation, got %d", len(session.created))
	}
	request := session.created[0]
	if request.Name != "welcome-newcomer_99" {
		t.Errorf("channel name = %q", request.Name)
	}
	if request.ParentID != channelID(t, testNewMemberCategoryID) {
		t.Errorf("channel parent = %v, want new-member category", request.ParentID)
	}

	var everyoneDenied, memberAllowed, supportAllowed, botAllowed bool
	for _, overwrite := range request.Overwrites {
		switch {
		case overwrite.Role == messaging.EveryoneRole(guild):
			everyoneDenied = overwrite.Deny.Has(messaging.CapabilityView)
		case overwrite.Member == member.ID:
			memberAllowed = overwrite.Allow.Has(messaging.CapabilityView) &&
				overwrite.Allow.Has(messaging.CapabilitySend)
		case overwrite.Member == session.BotUser():
			botAllowed = overwrite.Allow.Has(messaging.CapabilityView)
		case overwrite.Role == roleID(t, testSupportRoleID):
			supportAllowed = overwrite.Allow.Has(messaging.CapabilityView)
		}
	}
	if !everyoneDenied {
		t.Errorf("everyone role is not denied view")
	}
	if !memberAllowed {
		t.Errorf("member is not granted view+send")
	}
	if !supportAllowed {
		t.Errorf("support role is not granted view")
	}
	if !botAllowed {
		t.Errorf("bot account is not granted view on the hidden channel")
	}

	guidance := session.sent
	if len(guidance) != 1 {
		t.Fatalf("expected 1 guidance message, got %d", len(guidance))
	}
	content := guidance[0].message.Content
	if !strings.Contains(content, warden.messages.TicketPanelChannel) {
		t.Errorf("guidance does not name the ticket panel channel: %q", content)
	}
	if !strings.Contains(content, member.ID.Mention()) {
		t.Errorf("guidance does not mention the member: %q", content)
	}
}

func TestMemberJoinedSecondTriggerPostsReminderOnly(t *testing.T) {
	session := newFakeSession()
	warden, _ := newTestWarden(t, session, testEnv())

	guild := guildID(t, testGuildID)
	member := newcomer(t)
	join := trigger{kind: triggerMemberJoined, guildID: guild, member: member}
	warden.handleMemberJoined(context.Background(), join)
	warden.handleMemberJoined(context.Background(), join)

	if len(session.created) != 1 {
		t.Fatalf("expected exactly 1 channel creation across both joins, got %d", len(session.created))
	}
	guidanceChannel := session.created[0]
	messages := session.sent
	if len(messages) != 2 {
		t.Fatalf("expected guidance + reminder, got %d messages", len(messages))
	}
	if !strings.Contains(messages[1].message.Content, warden.messages.TicketPanelChannel) {
		t.Errorf("reminder does not name the ticket panel channel: %q", messages[1].message.Content)
	}

	// The member's access is re-asserted on the existing channel.
	var reasserted bool
	for _, overwrite := range session.overwrites {
		if overwrite.overwrite.Member == member.ID {
			reasserted = true
		}
	}
	if !reasserted {
		t.Errorf("member access was not re-asserted on existing channel %q", guidanceChannel.Name)
	}
}

func TestMemberJoinedIgnoresSameNameOutsideCategory(t *testing.T) {
	session := newFakeSession()
	warden, _ := newTestWarden(t, session, testEnv())

	guild := guildID(t, testGuildID)
	member := newcomer(t)

	// A channel with the guidance name but outside the new-member
	// category must not be mistaken for the guidance channel.
	session.addChannel(messaging.Channel{
		ID:       channelID(t, "610000000000000001"),
		GuildID:  guild,
		Name:     guidanceChannelName(member.Username),
		Kind:     messaging.ChannelKindText,
		ParentID: channelID(t, "390000000000000009"),
	})

	warden.handleMemberJoined(context.Background(), trigger{
		kind:    triggerMemberJoined,
		guildID: guild,
		member:  member,
	})

	if len(session.created) != 1 {
		t.Fatalf("expected a fresh guidance channel, got %d creations", len(session.created))
	}
}

// --- name sanitization ---

func TestGuidanceChannelName(t *testing.T) {
	tests := []struct {
		handle string
		want   string
	}{
		{"Newcomer_99", "welcome-newcomer_99"},
		{"some user!", "welcome-someuser"},
		{"ALL-CAPS", "welcome-all-caps"},
		{"日本語のみ", "welcome-member"},
		{"", "welcome-member"},
		{strings.Repeat("a", 120), "welcome-" + strings.Repeat("a", 80)},
	}
	for _, test := range tests {
		if got := guidanceChannelName(test.handle); got != test.want {
			t.Errorf("guidanceChannelName(%q) = %q, want %q", test.handle, got, test.want)
		}
	}
}
