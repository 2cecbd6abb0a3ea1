// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock parameter (or holds one in a struct
// field) instead of calling the time package directly. [Real] returns a
// Clock backed by the time package; [NewFake] returns a deterministic
// Clock whose time only moves when the test calls Advance.
//
// The bot uses the clock in three places: stamping intake submissions,
// expiring the intake prompt button after its timeout window, and the
// short settle delay after a ticket channel appears. All three are
// exercised with the fake clock in tests without real waiting.
package clock
