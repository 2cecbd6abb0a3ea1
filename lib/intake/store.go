// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package intake

import (
	"sync"

	"github.com/guildwarden/guildwarden/lib/ref"
)

// Store is the in-memory mapping from ticket channel to its most recent
// intake record. At most one live record exists per channel at any
// time.
//
// Construct with [NewStore]. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	records map[ref.ChannelID]Record
}

// NewStore returns an empty store ready for use.
func NewStore() *Store {
	return &Store{records: make(map[ref.ChannelID]Record)}
}

// Put stores the record for its channel, overwriting any existing
// record. Unconditional upsert; there is no error condition.
func (s *Store) Put(record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ChannelID] = record
}

// Get returns the record for the channel and whether one exists.
func (s *Store) Get(channelID ref.ChannelID) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, exists := s.records[channelID]
	return record, exists
}

// Remove deletes the record for the channel if present. Removing an
// absent key is a no-op.
func (s *Store) Remove(channelID ref.ChannelID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, channelID)
}

// Len returns the number of live records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
