package config

import (
	"fmt"
	"strings"
	"time"
)

// ResolveLocation maps the configured timezone name to a time.Location.
// An empty name selects the system local zone. All daily-time comparisons
// in the scheduler use the returned location.
func ResolveLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule.timezone %q: %w", name, err)
	}
	return loc, nil
}
