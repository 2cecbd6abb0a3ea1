// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/guildwarden/guildwarden/lib/ref"
)

// Discord implements [Session] over the discordgo client and owns the
// gateway connection. Construct with [NewDiscord], then [Connect] with
// the event handlers, and [Close] on shutdown.
type Discord struct {
	dg      *discordgo.Session
	logger  *slog.Logger
	botUser ref.UserID
}

var _ Session = (*Discord)(nil)

// NewDiscord creates an unconnected Discord session for the given bot
// token. The token is validated at Connect time, not here.
func NewDiscord(token string, logger *slog.Logger) (*Discord, error) {
	if token == "" {
		return nil, fmt.Errorf("messaging: bot token is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("messaging: creating session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers
	return &Discord{dg: dg, logger: logger}, nil
}

// Connect validates the credential, registers the gateway handlers,
// and opens the websocket. The context is the base context passed to
// every handler callback; canceling it does not close the connection
// (call Close for that), it cancels in-flight handler work.
//
// A rejected credential surfaces as an [*APIError] matching
// [IsUnauthorized], checked before the websocket is attempted so the
// failure mode is deterministic.
func (d *Discord) Connect(ctx context.Context, handlers Handlers) error {
	me, err := d.dg.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("validating bot credential: %w", mapError(err))
	}
	botUser, err := ref.ParseUserID(me.ID)
	if err != nil {
		return fmt.Errorf("bot account ID: %w", err)
	}
	d.botUser = botUser

	d.dg.AddHandler(func(_ *discordgo.Session, ready *discordgo.Ready) {
		d.logger.Info("gateway ready",
			"user", ready.User.Username,
			"user_id", ready.User.ID,
			"guilds", len(ready.Guilds),
		)
	})

	if handlers.ChannelCreated != nil {
		handler := handlers.ChannelCreated
		d.dg.AddHandler(func(_ *discordgo.Session, event *discordgo.ChannelCreate) {
			channel, err := channelFromDiscord(event.Channel)
			if err != nil {
				d.logger.Warn("dropping channel-create event", "error", err)
				return
			}
			handler(ctx, channel)
		})
	}

	if handlers.MemberJoined != nil {
		handler := handlers.MemberJoined
		d.dg.AddHandler(func(_ *discordgo.Session, event *discordgo.GuildMemberAdd) {
			guildID, err := ref.ParseGuildID(event.GuildID)
			if err != nil {
				d.logger.Warn("dropping member-join event", "error", err)
				return
			}
			member, err := memberFromDiscord(event.Member)
			if err != nil {
				d.logger.Warn("dropping member-join event", "error", err)
				return
			}
			handler(ctx, guildID, member)
		})
	}

	if handlers.InteractionCreated != nil {
		handler := handlers.InteractionCreated
		d.dg.AddHandler(func(_ *discordgo.Session, event *discordgo.InteractionCreate) {
			interaction, err := interactionFromDiscord(event.Interaction)
			if err != nil {
				d.logger.Warn("dropping interaction", "error", err)
				return
			}
			handler(ctx, interaction)
		})
	}

	if err := d.dg.Open(); err != nil {
		return fmt.Errorf("opening gateway connection: %w", mapError(err))
	}
	return nil
}

// Close closes the gateway connection.
func (d *Discord) Close() error {
	return d.dg.Close()
}

// BotUser returns the bot account's user ID, resolved during Connect.
func (d *Discord) BotUser() ref.UserID {
	return d.botUser
}

// --- Session implementation ---

func (d *Discord) SendMessage(ctx context.Context, channelID ref.ChannelID, message Message) (MessageRef, error) {
	sent, err := d.dg.ChannelMessageSendComplex(channelID.String(), &discordgo.MessageSend{
		Content:    message.Content,
		Embeds:     embedsToDiscord(message.Embeds),
		Components: buttonsToComponents(message.Buttons),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return MessageRef{}, mapError(err)
	}
	return MessageRef{ChannelID: channelID, MessageID: sent.ID}, nil
}

func (d *Discord) EditMessage(ctx context.Context, message MessageRef, update Message) error {
	content := update.Content
	embeds := embedsToDiscord(update.Embeds)
	components := buttonsToComponents(update.Buttons)
	edit := &discordgo.MessageEdit{
		Channel:    message.ChannelID.String(),
		ID:         message.MessageID,
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	}
	if _, err := d.dg.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		return mapError(err)
	}
	return nil
}

func (d *Discord) CreateChannel(ctx context.Context, guildID ref.GuildID, request CreateChannelRequest) (Channel, error) {
	overwrites := make([]*discordgo.PermissionOverwrite, 0, len(request.Overwrites))
	for _, overwrite := range request.Overwrites {
		translated, err := overwriteToDiscord(overwrite)
		if err != nil {
			return Channel{}, err
		}
		overwrites = append(overwrites, translated)
	}

	data := discordgo.GuildChannelCreateData{
		Name:                 request.Name,
		Type:                 channelKindToDiscord(request.Kind),
		Topic:                request.Topic,
		PermissionOverwrites: overwrites,
	}
	if !request.ParentID.IsZero() {
		data.ParentID = request.ParentID.String()
	}

	created, err := d.dg.GuildChannelCreateComplex(guildID.String(), data, discordgo.WithContext(ctx))
	if err != nil {
		return Channel{}, mapError(err)
	}
	return channelFromDiscord(created)
}

func (d *Discord) SetChannelOverwrite(ctx context.Context, channelID ref.ChannelID, overwrite Overwrite) error {
	translated, err := overwriteToDiscord(overwrite)
	if err != nil {
		return err
	}
	err = d.dg.ChannelPermissionSet(channelID.String(), translated.ID, translated.Type,
		translated.Allow, translated.Deny, discordgo.WithContext(ctx))
	if err != nil {
		return mapError(err)
	}
	return nil
}

func (d *Discord) Channel(ctx context.Context, channelID ref.ChannelID) (Channel, error) {
	channel, err := d.dg.Channel(channelID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return Channel{}, mapError(err)
	}
	return channelFromDiscord(channel)
}

func (d *Discord) GuildChannels(ctx context.Context, guildID ref.GuildID) ([]Channel, error) {
	channels, err := d.dg.GuildChannels(guildID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	result := make([]Channel, 0, len(channels))
	for _, channel := range channels {
		translated, err := channelFromDiscord(channel)
		if err != nil {
			d.logger.Warn("skipping channel with malformed identifiers", "error", err)
			continue
		}
		result = append(result, translated)
	}
	return result, nil
}

// Role fetches a role by listing the guild's roles. The platform has
// no single-role fetch endpoint; role counts are small enough that the
// list call is fine.
func (d *Discord) Role(ctx context.Context, guildID ref.GuildID, roleID ref.RoleID) (Role, error) {
	roles, err := d.dg.GuildRoles(guildID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return Role{}, mapError(err)
	}
	for _, role := range roles {
		if role.ID == roleID.String() {
			return Role{ID: roleID, Name: role.Name}, nil
		}
	}
	return Role{}, &APIError{StatusCode: 404, Code: errCodeUnknownRole,
		Message: fmt.Sprintf("role %s not found in guild %s", roleID, guildID)}
}

func (d *Discord) Member(ctx context.Context, guildID ref.GuildID, userID ref.UserID) (Member, error) {
	member, err := d.dg.GuildMember(guildID.String(), userID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return Member{}, mapError(err)
	}
	return memberFromDiscord(member)
}

func (d *Discord) User(ctx context.Context, userID ref.UserID) (User, error) {
	user, err := d.dg.User(userID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return User{}, mapError(err)
	}
	return userFromDiscord(user), nil
}

func (d *Discord) ShowModal(ctx context.Context, interaction Interaction, modal Modal) error {
	components := make([]discordgo.MessageComponent, 0, len(modal.Inputs))
	for _, input := range modal.Inputs {
		style := discordgo.TextInputShort
		if input.Style == TextInputParagraph {
			style = discordgo.TextInputParagraph
		}
		components = append(components, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    input.CustomID,
					Label:       input.Label,
					Style:       style,
					Placeholder: input.Placeholder,
					Required:    input.Required,
					MaxLength:   input.MaxLength,
				},
			},
		})
	}

	err := d.dg.InteractionRespond(interactionToDiscord(interaction), &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   modal.CustomID,
			Title:      modal.Title,
			Components: components,
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return mapError(err)
	}
	return nil
}

func (d *Discord) Respond(ctx context.Context, interaction Interaction, response Response) error {
	data := &discordgo.InteractionResponseData{
		Content: response.Content,
		Embeds:  embedsToDiscord(response.Embeds),
	}
	if response.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := d.dg.InteractionRespond(interactionToDiscord(interaction), &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return mapError(err)
	}
	return nil
}

func (d *Discord) SetPresence(_ context.Context, watching string) error {
	if err := d.dg.UpdateWatchStatus(0, watching); err != nil {
		return fmt.Errorf("updating presence: %w", err)
	}
	return nil
}

func (d *Discord) RegisterCommands(ctx context.Context, guildID ref.GuildID, commands []CommandSpec) error {
	appID := d.dg.State.User.ID
	scope := ""
	if !guildID.IsZero() {
		scope = guildID.String()
	}
	specs := make([]*discordgo.ApplicationCommand, 0, len(commands))
	for _, command := range commands {
		spec := &discordgo.ApplicationCommand{
			Name:        command.Name,
			Description: command.Description,
		}
		if command.AdminOnly {
			adminPermission := int64(discordgo.PermissionAdministrator)
			spec.DefaultMemberPermissions = &adminPermission
		}
		for _, option := range command.Options {
			optionType := discordgo.ApplicationCommandOptionChannel
			if option.Kind == CommandOptionUser {
				optionType = discordgo.ApplicationCommandOptionUser
			}
			spec.Options = append(spec.Options, &discordgo.ApplicationCommandOption{
				Type:        optionType,
				Name:        option.Name,
				Description: option.Description,
				Required:    option.Required,
			})
		}
		specs = append(specs, spec)
	}

	if _, err := d.dg.ApplicationCommandBulkOverwrite(appID, scope, specs, discordgo.WithContext(ctx)); err != nil {
		return mapError(err)
	}
	return nil
}

// --- capability mapping ---

// capabilityBits is the adapter-private mapping from declarative
// capabilities to Discord permission bit flags.
var capabilityBits = map[Capability]int64{
	CapabilityView:           discordgo.PermissionViewChannel,
	CapabilitySend:           discordgo.PermissionSendMessages,
	CapabilityReadHistory:    discordgo.PermissionReadMessageHistory,
	CapabilityEmbedLinks:     discordgo.PermissionEmbedLinks,
	CapabilityAttachFiles:    discordgo.PermissionAttachFiles,
	CapabilityManageMessages: discordgo.PermissionManageMessages,
	CapabilityManageChannels: discordgo.PermissionManageChannels,
	CapabilityManageRoles:    discordgo.PermissionManageRoles,
}

// permissionBits renders a capability set as a Discord permission
// bitmask.
func permissionBits(set CapabilitySet) int64 {
	var bits int64
	for capability, bit := range capabilityBits {
		if set.Has(capability) {
			bits |= bit
		}
	}
	return bits
}

// overwriteToDiscord translates a declarative overwrite. Exactly one
// of Role or Member must be set.
func overwriteToDiscord(overwrite Overwrite) (*discordgo.PermissionOverwrite, error) {
	var id string
	var overwriteType discordgo.PermissionOverwriteType
	switch {
	case !overwrite.Role.IsZero() && !overwrite.Member.IsZero():
		return nil, fmt.Errorf("messaging: overwrite targets both a role and a member")
	case !overwrite.Role.IsZero():
		id = overwrite.Role.String()
		overwriteType = discordgo.PermissionOverwriteTypeRole
	case !overwrite.Member.IsZero():
		id = overwrite.Member.String()
		overwriteType = discordgo.PermissionOverwriteTypeMember
	default:
		return nil, fmt.Errorf("messaging: overwrite has no target")
	}
	return &discordgo.PermissionOverwrite{
		ID:    id,
		Type:  overwriteType,
		Allow: permissionBits(overwrite.Allow),
		Deny:  permissionBits(overwrite.Deny),
	}, nil
}

// --- type translation ---

func channelKindToDiscord(kind ChannelKind) discordgo.ChannelType {
	if kind == ChannelKindCategory {
		return discordgo.ChannelTypeGuildCategory
	}
	return discordgo.ChannelTypeGuildText
}

func channelKindFromDiscord(channelType discordgo.ChannelType) ChannelKind {
	switch channelType {
	case discordgo.ChannelTypeGuildText:
		return ChannelKindText
	case discordgo.ChannelTypeGuildCategory:
		return ChannelKindCategory
	default:
		return ChannelKindOther
	}
}

func channelFromDiscord(channel *discordgo.Channel) (Channel, error) {
	channelID, err := ref.ParseChannelID(channel.ID)
	if err != nil {
		return Channel{}, fmt.Errorf("channel ID: %w", err)
	}
	result := Channel{
		ID:   channelID,
		Name: channel.Name,
		Kind: channelKindFromDiscord(channel.Type),
	}
	if channel.GuildID != "" {
		guildID, err := ref.ParseGuildID(channel.GuildID)
		if err != nil {
			return Channel{}, fmt.Errorf("channel guild ID: %w", err)
		}
		result.GuildID = guildID
	}
	if channel.ParentID != "" {
		parentID, err := ref.ParseChannelID(channel.ParentID)
		if err != nil {
			return Channel{}, fmt.Errorf("channel parent ID: %w", err)
		}
		result.ParentID = parentID
	}
	return result, nil
}

func userFromDiscord(user *discordgo.User) User {
	userID, err := ref.ParseUserID(user.ID)
	if err != nil {
		// The platform supplied this ID; an unparseable one is a
		// protocol violation, not a recoverable state.
		panic("messaging: platform supplied invalid user ID: " + user.ID)
	}
	displayName := user.GlobalName
	if displayName == "" {
		displayName = user.Username
	}
	return User{
		ID:          userID,
		Username:    user.Username,
		DisplayName: displayName,
		AvatarURL:   user.AvatarURL(""),
	}
}

func memberFromDiscord(member *discordgo.Member) (Member, error) {
	if member.User == nil {
		return Member{}, fmt.Errorf("member payload missing user")
	}
	result := Member{User: userFromDiscord(member.User)}
	if member.Nick != "" {
		result.DisplayName = member.Nick
	}
	roleIDs, err := roleIDsFromStrings(member.Roles)
	if err != nil {
		return Member{}, err
	}
	result.RoleIDs = roleIDs
	return result, nil
}

func roleIDsFromStrings(raw []string) ([]ref.RoleID, error) {
	roleIDs := make([]ref.RoleID, 0, len(raw))
	for _, id := range raw {
		roleID, err := ref.ParseRoleID(id)
		if err != nil {
			return nil, fmt.Errorf("member role ID: %w", err)
		}
		roleIDs = append(roleIDs, roleID)
	}
	return roleIDs, nil
}

func interactionFromDiscord(interaction *discordgo.Interaction) (Interaction, error) {
	result := Interaction{
		ID:    interaction.ID,
		Token: interaction.Token,
		AppID: interaction.AppID,
	}

	if interaction.GuildID != "" {
		guildID, err := ref.ParseGuildID(interaction.GuildID)
		if err != nil {
			return Interaction{}, fmt.Errorf("interaction guild ID: %w", err)
		}
		result.GuildID = guildID
	}
	if interaction.ChannelID != "" {
		channelID, err := ref.ParseChannelID(interaction.ChannelID)
		if err != nil {
			return Interaction{}, fmt.Errorf("interaction channel ID: %w", err)
		}
		result.ChannelID = channelID
	}

	switch {
	case interaction.Member != nil && interaction.Member.User != nil:
		result.User = userFromDiscord(interaction.Member.User)
		if interaction.Member.Nick != "" {
			result.User.DisplayName = interaction.Member.Nick
		}
		roleIDs, err := roleIDsFromStrings(interaction.Member.Roles)
		if err != nil {
			return Interaction{}, err
		}
		result.MemberRoleIDs = roleIDs
		result.IsAdmin = interaction.Member.Permissions&discordgo.PermissionAdministrator != 0
	case interaction.User != nil:
		result.User = userFromDiscord(interaction.User)
	default:
		return Interaction{}, fmt.Errorf("interaction carries no invoker")
	}

	switch interaction.Type {
	case discordgo.InteractionApplicationCommand:
		result.Kind = InteractionCommand
		data := interaction.ApplicationCommandData()
		result.Command = data.Name
		for _, option := range data.Options {
			raw, ok := option.Value.(string)
			if !ok {
				continue
			}
			switch option.Type {
			case discordgo.ApplicationCommandOptionChannel:
				channelID, err := ref.ParseChannelID(raw)
				if err != nil {
					return Interaction{}, fmt.Errorf("command channel option: %w", err)
				}
				result.ChannelOption = channelID
			case discordgo.ApplicationCommandOptionUser:
				userID, err := ref.ParseUserID(raw)
				if err != nil {
					return Interaction{}, fmt.Errorf("command user option: %w", err)
				}
				result.UserOption = userID
			}
		}
	case discordgo.InteractionMessageComponent:
		result.Kind = InteractionButton
		result.CustomID = interaction.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		result.Kind = InteractionModalSubmit
		data := interaction.ModalSubmitData()
		result.CustomID = data.CustomID
		result.FieldValues = modalFieldValues(data.Components)
	default:
		return Interaction{}, fmt.Errorf("unsupported interaction type %d", interaction.Type)
	}

	return result, nil
}

// modalFieldValues flattens the submitted modal component tree into a
// CustomID → value map.
func modalFieldValues(components []discordgo.MessageComponent) map[string]string {
	values := make(map[string]string)
	var visit func([]discordgo.MessageComponent)
	visit = func(components []discordgo.MessageComponent) {
		for _, component := range components {
			switch c := component.(type) {
			case *discordgo.ActionsRow:
				visit(c.Components)
			case discordgo.ActionsRow:
				visit(c.Components)
			case *discordgo.TextInput:
				values[c.CustomID] = c.Value
			case discordgo.TextInput:
				values[c.CustomID] = c.Value
			}
		}
	}
	visit(components)
	return values
}

// interactionToDiscord rebuilds the minimal discordgo.Interaction the
// respond endpoints need (ID, token, application ID).
func interactionToDiscord(interaction Interaction) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:    interaction.ID,
		Token: interaction.Token,
		AppID: interaction.AppID,
	}
}

func embedsToDiscord(embeds []Embed) []*discordgo.MessageEmbed {
	if len(embeds) == 0 {
		return nil
	}
	result := make([]*discordgo.MessageEmbed, 0, len(embeds))
	for _, embed := range embeds {
		translated := &discordgo.MessageEmbed{
			Title:       embed.Title,
			Description: embed.Description,
			Color:       embed.Color,
		}
		for _, field := range embed.Fields {
			translated.Fields = append(translated.Fields, &discordgo.MessageEmbedField{
				Name:   field.Name,
				Value:  field.Value,
				Inline: field.Inline,
			})
		}
		if embed.FooterText != "" {
			translated.Footer = &discordgo.MessageEmbedFooter{Text: embed.FooterText}
		}
		if embed.ThumbnailURL != "" {
			translated.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: embed.ThumbnailURL}
		}
		if !embed.Timestamp.IsZero() {
			translated.Timestamp = embed.Timestamp.UTC().Format(time.RFC3339)
		}
		result = append(result, translated)
	}
	return result
}

func buttonsToComponents(buttons []Button) []discordgo.MessageComponent {
	if len(buttons) == 0 {
		return nil
	}
	row := discordgo.ActionsRow{}
	for _, button := range buttons {
		style := discordgo.PrimaryButton
		if button.Style == ButtonStyleSecondary {
			style = discordgo.SecondaryButton
		}
		row.Components = append(row.Components, discordgo.Button{
			Label:    button.Label,
			CustomID: button.CustomID,
			Style:    style,
			Disabled: button.Disabled,
		})
	}
	return []discordgo.MessageComponent{row}
}

// mapError converts discordgo REST errors into *APIError, leaving
// other errors (context cancellation, transport failures) untouched.
func mapError(err error) error {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return err
	}
	apiErr := &APIError{}
	if restErr.Response != nil {
		apiErr.StatusCode = restErr.Response.StatusCode
	}
	if restErr.Message != nil {
		apiErr.Code = restErr.Message.Code
		apiErr.Message = restErr.Message.Message
	}
	return apiErr
}
