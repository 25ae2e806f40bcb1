package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reLocation = regexp.MustCompile(`^[A-Za-z0-9 .'\-]{1,50}$`)
	reZIP      = regexp.MustCompile(`^[0-9]{5}$`)
)

// Amount parses a non-negative numeric bound; empty means 0 (unconstrained).
func Amount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// Count parses a non-negative integer bound; empty means 0 (unconstrained).
func Count(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Location validates the free-text city/state filter: trims, enforces allowed
// characters and max length. Empty is valid and means unconstrained.
func Location(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	return s, reLocation.MatchString(s)
}

// ID parses a positive row identity from a path segment.
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 50 {
		return "", false
	}
	return s, true
}

func ZIP(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reZIP.MatchString(s)
}
