// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

// Guildwarden is a Discord bot that automates support-ticket intake and
// new-member verification for a single guild.
//
// It watches two things. When an external ticket tool creates a channel
// under the configured ticket category, guildwarden grants the support
// role access to the channel and posts an intake prompt: a button that
// opens a modal form collecting the requester's identity proof, reason
// for contact, and optional extras. Submissions are held in process
// memory until a support member runs /verifyticket in the channel,
// which forwards the submission to the verification log channel and
// purges it. When a member joins the guild without any of the
// configured verified roles, guildwarden creates a private guidance
// channel for them under the new-member category, pointing them at the
// ticket panel; /checkmember runs the same check on demand for any
// member.
//
// # Configuration
//
// All identifiers come from the environment (DISCORD_BOT_TOKEN,
// SUPPORT_ROLE_ID, TICKET_CATEGORY_ID, NEW_MEMBER_CATEGORY_ID required;
// LOG_CHANNEL_ID and VERIFIED_ROLE_IDS optional), validated together at
// startup: the process refuses to start and lists every missing or
// invalid field at once. Operator-editable message text lives in an
// optional YAML file passed with --messages.
//
// # State
//
// Intake submissions live only in memory. A restart loses them, and
// /verifyticket on a channel whose submission is gone reports a
// recoverable error asking the requester to submit again. The log
// channel set by /setlogchannel is equally non-persistent.
//
// # Commands
//
// /setlogchannel (administrator only), /verifyticket (support role,
// ticket category only), /checkmember (support role).
package main
