package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
)

// CronSpec normalizes scheduler.at into a five-field cron spec.
//
// Accepted forms:
//   - "HH:MM"            daily at that local time
//   - "30 7 * * 1-5"     raw cron, passed through after validation
func CronSpec(at string) (string, error) {
	at = strings.TrimSpace(at)
	if at == "" {
		return "", fmt.Errorf("empty schedule")
	}

	if h, m, err := parseHHMM(at); err == nil {
		return fmt.Sprintf("%d %d * * *", m, h), nil
	}

	if _, err := cron.ParseStandard(at); err != nil {
		return "", fmt.Errorf("invalid schedule %q: %w", at, err)
	}
	return at, nil
}

func parseHHMM(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("not HH:MM")
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour %q", parts[0])
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute %q", parts[1])
	}
	return hour, minute, nil
}
