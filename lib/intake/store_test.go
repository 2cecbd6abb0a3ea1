// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package intake

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/guildwarden/guildwarden/lib/ref"
)

var submittedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// testChannelID parses a raw channel snowflake, panicking if invalid.
// Use in test setup where the input is a known-good constant.
func testChannelID(raw string) ref.ChannelID {
	channelID, err := ref.ParseChannelID(raw)
	if err != nil {
		panic(fmt.Sprintf("testChannelID(%q): %v", raw, err))
	}
	return channelID
}

// makeRecord returns a valid Record for the given channel with sensible
// defaults. Override fields after construction as needed.
func makeRecord(channelID ref.ChannelID, identifier string) Record {
	userID, _ := ref.ParseUserID("123456789012345678")
	return Record{
		ChannelID:       channelID,
		UserID:          userID,
		UserDisplayName: "applicant#0001",
		Identifier:      identifier,
		Reason:          "apply for membership",
		KillCount:       DefaultKillCount,
		Notes:           DefaultNotes,
		SubmittedAt:     submittedAt,
	}
}

// --- Put / Get ---

func TestPutAndGet(t *testing.T) {
	store := NewStore()
	channelID := testChannelID("1000000000000000001")
	record := makeRecord(channelID, "Role#1234")

	store.Put(record)

	got, exists := store.Get(channelID)
	if !exists {
		t.Fatal("Get after Put reported absent")
	}
	if got != record {
		t.Fatalf("Get = %+v, want %+v", got, record)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestGetAbsent(t *testing.T) {
	store := NewStore()
	if _, exists := store.Get(testChannelID("1000000000000000001")); exists {
		t.Fatal("Get on empty store reported present")
	}
}

func TestPutOverwritesLastWriteWins(t *testing.T) {
	store := NewStore()
	channelID := testChannelID("1000000000000000001")

	store.Put(makeRecord(channelID, "first"))
	store.Put(makeRecord(channelID, "second"))

	got, exists := store.Get(channelID)
	if !exists {
		t.Fatal("record absent after second Put")
	}
	if got.Identifier != "second" {
		t.Errorf("Identifier = %q, want the later submission", got.Identifier)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (overwrite, not append)", store.Len())
	}
}

// --- Remove ---

func TestRemove(t *testing.T) {
	store := NewStore()
	channelID := testChannelID("1000000000000000001")
	store.Put(makeRecord(channelID, "Role#1234"))

	store.Remove(channelID)

	if _, exists := store.Get(channelID); exists {
		t.Fatal("record still present after Remove")
	}
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	store := NewStore()
	// Must not panic or affect other records.
	other := testChannelID("1000000000000000002")
	store.Put(makeRecord(other, "Role#1234"))

	store.Remove(testChannelID("1000000000000000001"))

	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

// --- concurrency ---

func TestConcurrentAccess(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			channelID := testChannelID(fmt.Sprintf("10000000000000%05d", n+1))
			for j := 0; j < 100; j++ {
				store.Put(makeRecord(channelID, "Role#1234"))
				store.Get(channelID)
				store.Remove(channelID)
			}
		}(i)
	}
	wg.Wait()

	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after all removes", store.Len())
	}
}

// --- NewRecord defaults ---

func TestNewRecordAppliesDefaults(t *testing.T) {
	channelID := testChannelID("1000000000000000001")
	userID, _ := ref.ParseUserID("123456789012345678")

	record := NewRecord(channelID, userID, "applicant#0001", Submission{
		Identifier: "Role#1234",
		Reason:     "apply for membership",
	}, submittedAt)

	if record.KillCount != DefaultKillCount {
		t.Errorf("KillCount = %q, want %q", record.KillCount, DefaultKillCount)
	}
	if record.Notes != DefaultNotes {
		t.Errorf("Notes = %q, want %q", record.Notes, DefaultNotes)
	}
	if !record.SubmittedAt.Equal(submittedAt) {
		t.Errorf("SubmittedAt = %v, want %v", record.SubmittedAt, submittedAt)
	}
}

func TestNewRecordKeepsProvidedOptionals(t *testing.T) {
	channelID := testChannelID("1000000000000000001")
	userID, _ := ref.ParseUserID("123456789012345678")

	record := NewRecord(channelID, userID, "applicant#0001", Submission{
		Identifier: "Role#1234",
		Reason:     "apply for membership",
		KillCount:  "50+",
		Notes:      "previous member",
	}, submittedAt)

	if record.KillCount != "50+" {
		t.Errorf("KillCount = %q, want %q", record.KillCount, "50+")
	}
	if record.Notes != "previous member" {
		t.Errorf("Notes = %q, want %q", record.Notes, "previous member")
	}
}

func TestNewRecordTreatsWhitespaceAsBlank(t *testing.T) {
	channelID := testChannelID("1000000000000000001")
	userID, _ := ref.ParseUserID("123456789012345678")

	record := NewRecord(channelID, userID, "applicant#0001", Submission{
		Identifier: "Role#1234",
		Reason:     "apply",
		KillCount:  "   ",
		Notes:      "\t",
	}, submittedAt)

	if record.KillCount != DefaultKillCount {
		t.Errorf("KillCount = %q, want default for whitespace-only input", record.KillCount)
	}
	if record.Notes != DefaultNotes {
		t.Errorf("Notes = %q, want default for whitespace-only input", record.Notes)
	}
}
