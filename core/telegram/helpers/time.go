package helpers

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClock parses a wall-clock time entered by a user and normalizes it to
// the canonical "HH:MM" form. Accepted inputs include "7:05", "07:05" and
// "7.05". It returns false when the input is not a valid 24h time.
func ParseClock(input string) (string, bool) {
	s := strings.TrimSpace(input)
	s = strings.ReplaceAll(s, ".", ":")
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return "", false
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || h < 0 || h > 23 {
		return "", false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || m < 0 || m > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, m), true
}
