// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/guildwarden/guildwarden/lib/clock"
	"github.com/guildwarden/guildwarden/lib/config"
	"github.com/guildwarden/guildwarden/lib/intake"
	"github.com/guildwarden/guildwarden/lib/ref"
	"github.com/guildwarden/guildwarden/messaging"
)

// defaultSettleDelay is how long the warden waits after a ticket
// channel appears before touching it. The external ticket tool applies
// its own overwrites right after creation; acting immediately races it.
const defaultSettleDelay = time.Second

// Warden owns the ticket and member-verification workflows. All shared
// mutable state (the intake store, the log channel override) is
// synchronized because gateway events are dispatched concurrently.
type Warden struct {
	session  messaging.Session
	config   *config.Config
	messages config.Messages
	store    *intake.Store
	clock    clock.Clock
	logger   *slog.Logger

	settleDelay time.Duration

	mu           sync.Mutex
	logChannelID ref.ChannelID
}

// newWarden wires a Warden from its collaborators. The log channel
// starts at the configured default and may be overwritten at runtime by
// the set-log-channel command.
func newWarden(session messaging.Session, cfg *config.Config, messages config.Messages,
	store *intake.Store, clk clock.Clock, logger *slog.Logger) *Warden {
	return &Warden{
		session:      session,
		config:       cfg,
		messages:     messages,
		store:        store,
		clock:        clk,
		logger:       logger,
		settleDelay:  defaultSettleDelay,
		logChannelID: cfg.LogChannelID,
	}
}

// logChannel returns the current verification log channel; zero means
// unset.
func (w *Warden) logChannel() ref.ChannelID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.logChannelID
}

// setLogChannel replaces the verification log channel. The override
// lives in memory only and does not survive restart.
func (w *Warden) setLogChannel(channelID ref.ChannelID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.logChannelID = channelID
}

// triggerKind enumerates the closed set of external triggers the
// warden reacts to. Everything the bot does starts as one of these.
type triggerKind int

const (
	triggerChannelCreated triggerKind = iota
	triggerMemberJoined
	triggerIntakeOpened
	triggerIntakeSubmitted
	triggerCommandInvoked
)

// trigger is one dispatched external event with its payload. Exactly
// the fields implied by Kind are set.
type trigger struct {
	kind        triggerKind
	channel     messaging.Channel     // triggerChannelCreated
	guildID     ref.GuildID           // triggerMemberJoined
	member      messaging.Member      // triggerMemberJoined
	interaction messaging.Interaction // intake and command triggers
}

// triggerHandlers is the dispatch table. Kept as data rather than a
// switch so the set of triggers and the set of handlers cannot drift
// apart silently.
var triggerHandlers = map[triggerKind]func(*Warden, context.Context, trigger){
	triggerChannelCreated:  (*Warden).handleChannelCreated,
	triggerMemberJoined:    (*Warden).handleMemberJoined,
	triggerIntakeOpened:    (*Warden).handleIntakeOpened,
	triggerIntakeSubmitted: (*Warden).handleIntakeSubmitted,
	triggerCommandInvoked:  (*Warden).handleCommand,
}

// dispatch routes a trigger to its handler. Handlers never return
// errors: every failure is either reported to the invoking user or
// logged, and never crashes the process.
func (w *Warden) dispatch(ctx context.Context, t trigger) {
	handler, ok := triggerHandlers[t.kind]
	if !ok {
		w.logger.Error("no handler for trigger", "kind", t.kind)
		return
	}
	handler(w, ctx, t)
}

// handlers adapts gateway callbacks into triggers. Interactions are
// classified here: the intake button opens the form, the intake modal
// submission records it, and everything else is a command.
func (w *Warden) handlers() messaging.Handlers {
	return messaging.Handlers{
		ChannelCreated: func(ctx context.Context, channel messaging.Channel) {
			w.dispatch(ctx, trigger{kind: triggerChannelCreated, channel: channel})
		},
		MemberJoined: func(ctx context.Context, guildID ref.GuildID, member messaging.Member) {
			w.dispatch(ctx, trigger{kind: triggerMemberJoined, guildID: guildID, member: member})
		},
		InteractionCreated: func(ctx context.Context, interaction messaging.Interaction) {
			switch {
			case interaction.Kind == messaging.InteractionButton && interaction.CustomID == intakeButtonID:
				w.dispatch(ctx, trigger{kind: triggerIntakeOpened, interaction: interaction})
			case interaction.Kind == messaging.InteractionModalSubmit && interaction.CustomID == intakeModalID:
				w.dispatch(ctx, trigger{kind: triggerIntakeSubmitted, interaction: interaction})
			case interaction.Kind == messaging.InteractionCommand:
				w.dispatch(ctx, trigger{kind: triggerCommandInvoked, interaction: interaction})
			default:
				w.logger.Warn("ignoring unrecognized interaction",
					"kind", interaction.Kind, "custom_id", interaction.CustomID)
			}
		},
	}
}

// respondEphemeral replies to an interaction with an invoker-only
// message, logging the failure if the reply itself cannot be sent.
func (w *Warden) respondEphemeral(ctx context.Context, interaction messaging.Interaction, content string) {
	err := w.session.Respond(ctx, interaction, messaging.Response{
		Content:   content,
		Ephemeral: true,
	})
	if err != nil {
		w.logger.Error("responding to interaction", "error", err)
	}
}
