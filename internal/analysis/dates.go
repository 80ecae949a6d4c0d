package analysis

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the day-month-year layout used across the engine for display
// and for parsing due dates.
const DateLayout = "02-01-2006"

// UnknownDate is the label emitted when a file name carries no date token.
const UnknownDate = "Unknown"

var digitRunRe = regexp.MustCompile(`[0-9]+`)

// dateToken finds the first run of exactly eight digits in the name, after
// stripping any filename extension. Runs longer than eight digits never match:
// they are not a DDMMYYYY token.
func dateToken(name string) (string, bool) {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	for _, run := range digitRunRe.FindAllString(name, -1) {
		if len(run) == 8 {
			return run, true
		}
	}
	return "", false
}

// ExtractDate derives the effective date from a file identifier. The token is
// parsed as DDMMYYYY; when no token exists or it is not a valid calendar date,
// the supplied fallback is returned. The function never fails: callers always
// get a usable date.
func ExtractDate(name string, fallback time.Time, logger *slog.Logger) time.Time {
	token, ok := dateToken(name)
	if !ok {
		return fallback
	}
	t, err := time.Parse("02012006", token)
	if err != nil {
		if logger != nil {
			logger.Debug("date token did not parse, using fallback",
				slog.String("name", name),
				slog.String("token", token),
				slog.String("error", err.Error()))
		}
		return fallback
	}
	return t
}

// ExtractDateLabel formats the date token of a file identifier as DD-MM-YYYY
// for display, or returns UnknownDate when the name carries no token. The
// token is formatted as found, without calendar validation, matching how the
// label is surfaced to users.
func ExtractDateLabel(name string) string {
	token, ok := dateToken(name)
	if !ok {
		return UnknownDate
	}
	return fmt.Sprintf("%s-%s-%s", token[0:2], token[2:4], token[4:8])
}

// ParseDueDate parses a due-date cell with the fixed day-month-year layout.
// Values that do not parse are treated as missing; missing due dates never
// classify as overdue.
func ParseDueDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{DateLayout, "2-1-2006", "02/01/2006", "2/1/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
