// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

// Package messaging wraps the Discord API for guildwarden's event
// handling and channel management needs.
//
// The package has two halves. The neutral half defines the capability
// surface the bot's handlers consume: [Session] is the set of platform
// operations the workflows need (send message/embed, create
// channel, set permission overwrites, fetch role/member/user/channel,
// show a modal form, edit a sent message, respond to an interaction,
// set presence, register commands), together with platform-neutral
// value types ([Message], [Embed], [Button], [Modal], [Interaction],
// [Channel], [Role], [Member]) and a declarative permission
// [CapabilitySet]. Handlers and their tests never import discordgo.
//
// The adapter half, [Discord], implements Session over
// github.com/bwmarrin/discordgo and owns everything platform-specific:
// the mapping from capabilities to Discord permission bit flags,
// component and embed rendering, gateway intents, and the translation
// of gateway events into the neutral types via [Handlers] callbacks.
//
// discordgo dispatches each gateway event handler on its own goroutine,
// so Handlers callbacks run concurrently; shared state behind them must
// be synchronized.
//
// All API errors are returned as [*APIError] carrying the HTTP status
// and the Discord JSON error code. [IsPermissionDenied], [IsNotFound],
// and [IsUnauthorized] classify them. Failures are never retried here:
// the platform rate-limits aggressively, and blind retries make
// failures worse, so a failed call is reported to the caller and logged.
package messaging
