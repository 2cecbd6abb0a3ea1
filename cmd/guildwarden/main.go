// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/guildwarden/guildwarden/lib/clock"
	"github.com/guildwarden/guildwarden/lib/config"
	"github.com/guildwarden/guildwarden/lib/intake"
	"github.com/guildwarden/guildwarden/lib/ref"
	"github.com/guildwarden/guildwarden/messaging"
)

// version is overridden at build time via -ldflags.
var version = "devel"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		envFile      string
		messagesFile string
		logLevel     string
		showVersion  bool
	)

	pflag.StringVar(&envFile, "env-file", "", "optional .env file loaded before reading the environment")
	pflag.StringVar(&messagesFile, "messages", "", "optional YAML file overriding bot message text and timing")
	pflag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pflag.BoolVar(&showVersion, "version", false, "print version information and exit")
	pflag.Parse()

	if showVersion {
		fmt.Printf("guildwarden %s\n", version)
		return nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	cfg, err := config.FromEnv(os.LookupEnv)
	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			for _, field := range configErr.Fields {
				logger.Error("configuration field invalid",
					"field", field.Name, "reason", field.Reason)
			}
		}
		return fmt.Errorf("resolving configuration: %w", err)
	}
	for _, warning := range cfg.Warnings {
		logger.Warn("configuration warning", "warning", warning)
	}

	messages, err := config.LoadMessages(messagesFile)
	if err != nil {
		return fmt.Errorf("loading messages: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	discord, err := messaging.NewDiscord(cfg.Token, logger)
	if err != nil {
		return err
	}

	warden := newWarden(discord, cfg, messages, intake.NewStore(), clock.Real(), logger)

	if err := discord.Connect(ctx, warden.handlers()); err != nil {
		if messaging.IsUnauthorized(err) {
			return fmt.Errorf("the platform rejected %s: %w", config.EnvToken, err)
		}
		return fmt.Errorf("connecting: %w", err)
	}
	defer func() {
		if err := discord.Close(); err != nil {
			logger.Error("closing gateway connection", "error", err)
		}
	}()

	// Zero guild ID: the commands are registered globally so one
	// deployment can serve any guild the bot is invited to.
	if err := discord.RegisterCommands(ctx, ref.GuildID{}, commandSpecs()); err != nil {
		return fmt.Errorf("registering commands: %w", err)
	}
	if err := discord.SetPresence(ctx, messages.Presence); err != nil {
		logger.Warn("setting presence", "error", err)
	}

	logger.Info("guildwarden running",
		"version", version,
		"ticket_category", cfg.TicketCategoryID,
		"new_member_category", cfg.NewMemberCategoryID,
		"log_channel_configured", !cfg.LogChannelID.IsZero(),
	)

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}
