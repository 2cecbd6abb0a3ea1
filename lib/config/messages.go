// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Messages holds operator-editable text and timing used in bot-posted
// messages. Loaded from an optional YAML file; every field has a
// default so a missing file or a partial file is fine.
type Messages struct {
	// TicketPanelChannel is the human-readable name of the channel
	// hosting the ticket-creation panel, referenced verbatim in
	// guidance messages ("go to #… and press Create Ticket").
	TicketPanelChannel string

	// Presence is the activity text shown on the bot's profile.
	Presence string

	// PromptTimeout is how long the intake prompt button stays
	// active before it is visually disabled. Expiry is presentation
	// only — it never deletes an already-submitted record.
	PromptTimeout time.Duration
}

// messagesFile is the YAML shape of the messages file. Durations are
// written in Go duration syntax ("5m", "300s").
type messagesFile struct {
	TicketPanelChannel string `yaml:"ticket_panel_channel"`
	Presence           string `yaml:"presence"`
	PromptTimeout      string `yaml:"prompt_timeout"`
}

// DefaultMessages returns the built-in message configuration.
func DefaultMessages() Messages {
	return Messages{
		TicketPanelChannel: "#support-desk",
		Presence:           "new members & tickets",
		PromptTimeout:      5 * time.Minute,
	}
}

// LoadMessages reads the messages file at path, overlaying its values
// on the defaults. An empty path returns the defaults unchanged.
func LoadMessages(path string) (Messages, error) {
	messages := DefaultMessages()
	if path == "" {
		return messages, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Messages{}, fmt.Errorf("reading messages file: %w", err)
	}

	var file messagesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Messages{}, fmt.Errorf("parsing messages file %s: %w", path, err)
	}

	if file.TicketPanelChannel != "" {
		messages.TicketPanelChannel = file.TicketPanelChannel
	}
	if file.Presence != "" {
		messages.Presence = file.Presence
	}
	if file.PromptTimeout != "" {
		timeout, err := time.ParseDuration(file.PromptTimeout)
		if err != nil {
			return Messages{}, fmt.Errorf("messages file %s: invalid prompt_timeout %q: %w",
				path, file.PromptTimeout, err)
		}
		if timeout <= 0 {
			return Messages{}, fmt.Errorf("messages file %s: prompt_timeout must be positive", path)
		}
		messages.PromptTimeout = timeout
	}

	return messages, nil
}
