// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"

	"github.com/guildwarden/guildwarden/lib/ref"
)

// Session is the platform capability surface the bot's workflows
// consume. [Discord] is the production implementation; tests substitute
// a fake that records calls.
//
// Every method takes a context because every call crosses the network
// and may be delayed by platform rate limits. Failures are returned,
// never retried.
type Session interface {
	// SendMessage posts a message to a channel and returns a ref for
	// later editing.
	SendMessage(ctx context.Context, channelID ref.ChannelID, message Message) (MessageRef, error)

	// EditMessage replaces the content, embeds, and buttons of a
	// previously sent message.
	EditMessage(ctx context.Context, message MessageRef, update Message) error

	// CreateChannel creates a guild channel with the given overwrites
	// already applied.
	CreateChannel(ctx context.Context, guildID ref.GuildID, request CreateChannelRequest) (Channel, error)

	// SetChannelOverwrite applies one permission overwrite to an
	// existing channel, replacing any prior overwrite for the same
	// target.
	SetChannelOverwrite(ctx context.Context, channelID ref.ChannelID, overwrite Overwrite) error

	// Channel fetches a channel by ID.
	Channel(ctx context.Context, channelID ref.ChannelID) (Channel, error)

	// GuildChannels lists all channels in the guild.
	GuildChannels(ctx context.Context, guildID ref.GuildID) ([]Channel, error)

	// Role fetches a role by ID.
	Role(ctx context.Context, guildID ref.GuildID, roleID ref.RoleID) (Role, error)

	// Member fetches a guild member by user ID.
	Member(ctx context.Context, guildID ref.GuildID, userID ref.UserID) (Member, error)

	// User fetches a platform account by ID.
	User(ctx context.Context, userID ref.UserID) (User, error)

	// ShowModal opens a modal form in response to an interaction.
	ShowModal(ctx context.Context, interaction Interaction, modal Modal) error

	// Respond sends the interaction reply. Each interaction receives
	// exactly one Respond or ShowModal.
	Respond(ctx context.Context, interaction Interaction, response Response) error

	// SetPresence sets the bot's "Watching …" activity text.
	SetPresence(ctx context.Context, watching string) error

	// RegisterCommands replaces the registered command set with the
	// given specs. A zero guild ID registers globally.
	RegisterCommands(ctx context.Context, guildID ref.GuildID, commands []CommandSpec) error

	// BotUser returns the connected bot account's user ID, needed
	// when a channel overwrite must grant the bot its own access.
	// Valid once the session is connected.
	BotUser() ref.UserID
}

// Handlers are the gateway event callbacks the bot registers before
// connecting. Each callback runs on its own goroutine per event, so
// implementations must synchronize shared state. A nil callback
// ignores that event kind.
type Handlers struct {
	// ChannelCreated fires for every guild channel creation.
	ChannelCreated func(ctx context.Context, channel Channel)

	// MemberJoined fires when a member joins the guild.
	MemberJoined func(ctx context.Context, guildID ref.GuildID, member Member)

	// InteractionCreated fires for commands, button presses, and
	// modal submissions.
	InteractionCreated func(ctx context.Context, interaction Interaction)
}
