// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"time"

	"github.com/guildwarden/guildwarden/lib/ref"
)

// ChannelKind classifies the channel types the bot distinguishes.
// Everything that is neither a text channel nor a category is
// ChannelKindOther — the bot only ever operates on the first two.
type ChannelKind int

const (
	ChannelKindText ChannelKind = iota
	ChannelKindCategory
	ChannelKindOther
)

// Channel is a guild channel as seen by the bot.
type Channel struct {
	ID      ref.ChannelID
	GuildID ref.GuildID
	Name    string
	Kind    ChannelKind

	// ParentID is the category the channel sits under; zero for
	// top-level channels and for categories themselves.
	ParentID ref.ChannelID
}

// Role is a guild role.
type Role struct {
	ID   ref.RoleID
	Name string
}

// User identifies a platform account.
type User struct {
	ID ref.UserID

	// Username is the account handle (unique, lowercase-ish).
	Username string

	// DisplayName is the name shown in the guild; falls back to the
	// username when the user set no nickname.
	DisplayName string

	// AvatarURL is the resolvable avatar image URL; may be empty.
	AvatarURL string
}

// Member is a user's membership in the guild.
type Member struct {
	User
	RoleIDs []ref.RoleID
}

// MessageRef identifies a sent message for later editing.
type MessageRef struct {
	ChannelID ref.ChannelID
	MessageID string
}

// IsZero reports whether the ref identifies no message.
func (m MessageRef) IsZero() bool { return m.MessageID == "" }

// EmbedField is one name/value pair inside an embed.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is a rich message block.
type Embed struct {
	Title       string
	Description string

	// Color is the accent color as 0xRRGGBB; zero means platform
	// default.
	Color int

	Fields       []EmbedField
	FooterText   string
	ThumbnailURL string

	// Timestamp is rendered in the embed footer area when non-zero.
	Timestamp time.Time
}

// Accent colors used across the bot's embeds.
const (
	ColorPending = 0xE67E22 // orange: awaiting human action
	ColorSuccess = 0x2ECC71 // green: completed
	ColorError   = 0xE74C3C // red: configuration or permission problem
)

// ButtonStyle selects the platform's button rendering.
type ButtonStyle int

const (
	ButtonStylePrimary ButtonStyle = iota
	ButtonStyleSecondary
)

// Button is an interactive message component. CustomID routes the
// resulting interaction back to the handler that owns it.
type Button struct {
	Label    string
	CustomID string
	Style    ButtonStyle
	Disabled bool
}

// Message is the neutral outbound message shape: plain content, rich
// embeds, interactive buttons, in any combination.
type Message struct {
	Content string
	Embeds  []Embed
	Buttons []Button
}

// TextInputStyle selects single-line or paragraph form inputs.
type TextInputStyle int

const (
	TextInputShort TextInputStyle = iota
	TextInputParagraph
)

// TextInput is one field of a modal form.
type TextInput struct {
	CustomID    string
	Label       string
	Placeholder string
	Style       TextInputStyle
	Required    bool
	MaxLength   int
}

// Modal is a form shown in response to an interaction. Required-field
// and length constraints are enforced platform-side before submission
// reaches the bot.
type Modal struct {
	CustomID string
	Title    string
	Inputs   []TextInput
}

// InteractionKind classifies incoming interactions.
type InteractionKind int

const (
	InteractionCommand InteractionKind = iota
	InteractionButton
	InteractionModalSubmit
)

// Interaction is a user-initiated interaction (slash command, button
// press, or modal submission) translated to neutral form. ID, Token,
// and AppID are the opaque handles the adapter needs to respond.
type Interaction struct {
	ID    string
	Token string
	AppID string

	Kind      InteractionKind
	GuildID   ref.GuildID
	ChannelID ref.ChannelID

	// User is the invoker. MemberRoleIDs are the invoker's guild
	// roles; IsAdmin reports the invoker's administrator permission
	// as evaluated by the platform.
	User          User
	MemberRoleIDs []ref.RoleID
	IsAdmin       bool

	// Command is the invoked command name (InteractionCommand only).
	Command string

	// CustomID identifies the pressed button or submitted modal.
	CustomID string

	// FieldValues holds modal input values keyed by input CustomID
	// (InteractionModalSubmit only).
	FieldValues map[string]string

	// ChannelOption and UserOption carry typed command options when
	// the command defines them.
	ChannelOption ref.ChannelID
	UserOption    ref.UserID
}

// Response is an interaction reply. Ephemeral responses are visible
// only to the invoker.
type Response struct {
	Content   string
	Embeds    []Embed
	Ephemeral bool
}

// CreateChannelRequest describes a channel to create.
type CreateChannelRequest struct {
	Name       string
	Kind       ChannelKind
	ParentID   ref.ChannelID
	Topic      string
	Overwrites []Overwrite
}

// CommandOptionKind is the type of a command option.
type CommandOptionKind int

const (
	CommandOptionChannel CommandOptionKind = iota
	CommandOptionUser
)

// CommandOption is one typed parameter of a command.
type CommandOption struct {
	Name        string
	Description string
	Kind        CommandOptionKind
	Required    bool
}

// CommandSpec declares one operator-facing command for registration.
// AdminOnly commands are hidden from members without the administrator
// permission; finer authorization (support role, category scoping) is
// the handler's job.
type CommandSpec struct {
	Name        string
	Description string
	AdminOnly   bool
	Options     []CommandOption
}
