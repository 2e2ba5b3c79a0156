package scheduler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

var (
	cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

	// Human-readable interval format: "every 5m", "every 2h", "every 30s".
	intervalRegex = regexp.MustCompile(`^every\s+(\d+)\s*(s|sec|second|seconds|m|min|minute|minutes|h|hour|hours)$`)
)

// ParseSchedule parses a pass cadence expression and returns a cron.Schedule.
// Supports:
//   - standard 5-field cron expressions: "*/5 * * * *"
//   - descriptive shortcuts: "@hourly", "@daily"
//   - human-readable intervals: "every 5m", "every 2h"
func ParseSchedule(expr string) (cron.Schedule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("schedule expression cannot be empty")
	}

	if strings.HasPrefix(strings.ToLower(expr), "every ") {
		schedule, err := parseInterval(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid interval expression %q: %w", expr, err)
		}
		return schedule, nil
	}

	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return schedule, nil
}

// ValidateSchedule validates a cadence expression without scheduling it.
func ValidateSchedule(expr string) error {
	_, err := ParseSchedule(expr)
	return err
}

func parseInterval(expr string) (cron.Schedule, error) {
	matches := intervalRegex.FindStringSubmatch(strings.ToLower(expr))
	if len(matches) != 3 {
		return nil, fmt.Errorf("invalid format, expected 'every <number> <unit>' (e.g., 'every 5m')")
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil || value <= 0 {
		return nil, fmt.Errorf("invalid interval value: must be a positive integer")
	}

	var unit time.Duration
	switch matches[2] {
	case "s", "sec", "second", "seconds":
		unit = time.Second
	case "m", "min", "minute", "minutes":
		unit = time.Minute
	case "h", "hour", "hours":
		unit = time.Hour
	default:
		return nil, fmt.Errorf("unsupported time unit %q", matches[2])
	}

	duration := time.Duration(value) * unit
	if duration < time.Second {
		return nil, fmt.Errorf("interval must be at least 1 second")
	}

	return cron.Every(duration), nil
}
