// Copyright 2026 The Guildwarden Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
	"strconv"
)

// parseSnowflake validates a raw Discord snowflake string. Snowflakes
// are positive 64-bit unsigned integers in base-10 decimal form with no
// sign, whitespace, or leading-plus tolerance.
func parseSnowflake(kind, raw string) (uint64, error) {
	if raw == "" {
		return 0, fmt.Errorf("empty %s ID", kind)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s ID must be a base-10 integer: %q", kind, raw)
	}
	if id == 0 {
		return 0, fmt.Errorf("%s ID must be non-zero", kind)
	}
	return id, nil
}

// formatSnowflake renders a snowflake in the decimal form the Discord
// API expects.
func formatSnowflake(id uint64) string {
	return strconv.FormatUint(id, 10)
}
