package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Lifetime is a duration that also accepts a whole-day suffix such as "7d".
type Lifetime time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Lifetime) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if days, ok := strings.CutSuffix(raw, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return fmt.Errorf("invalid day count %q: %w", raw, err)
		}
		*l = Lifetime(time.Duration(n) * 24 * time.Hour)
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*l = Lifetime(d)
	return nil
}

// Duration returns the lifetime as a time.Duration.
func (l Lifetime) Duration() time.Duration {
	return time.Duration(l)
}
