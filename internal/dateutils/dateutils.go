// Package dateutils provides common date and time operations used throughout the application.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"fjacquet/ledgerdash/internal/currencyutils"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutFull     = "2006-01-02 15:04:05"
	DateLayoutMinutes  = "2006-01-02 15:04"
	DateLayoutSlash    = "2006/01/02"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutDisplay  = "2006-01-02 15:04"
)

// dayLayouts carry no time of day. A range end parsed with one of them
// covers the whole day.
var dayLayouts = []string{
	DateLayoutISO,
	DateLayoutSlash,
	DateLayoutEuropean,
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	DateLayoutFull,
	DateLayoutMinutes,
}

var spaces = regexp.MustCompile(`\s+`)

// ParseDate parses a timestamp or calendar day. Persian digits are accepted.
// Inputs without a zone are read in loc (UTC when nil). The second result
// reports whether the input named a whole day.
func ParseDate(dateStr string, loc *time.Location) (time.Time, bool, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := CleanDateString(dateStr)
	if s == "" {
		return time.Time{}, false, fmt.Errorf("date is empty")
	}

	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, false, nil
		}
	}
	for _, layout := range dayLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true, nil
		}
	}

	return time.Time{}, false, fmt.Errorf("unable to parse date: %s", dateStr)
}

// ParseRangeStart parses the lower bound of a date range.
func ParseRangeStart(dateStr string, loc *time.Location) (time.Time, error) {
	t, _, err := ParseDate(dateStr, loc)
	return t, err
}

// ParseRangeEnd parses the upper bound of a date range. A calendar day is
// widened to its last instant so the whole day is included.
func ParseRangeEnd(dateStr string, loc *time.Location) (time.Time, error) {
	t, wholeDay, err := ParseDate(dateStr, loc)
	if err != nil {
		return time.Time{}, err
	}
	if wholeDay {
		return EndOfDay(t), nil
	}
	return t, nil
}

// StartOfDay returns midnight of the day containing date.
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// EndOfDay returns 23:59:59.999999999 of the day containing date.
func EndOfDay(date time.Time) time.Time {
	return StartOfDay(date).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// FormatDate formats a time.Time value according to the specified layout
// If no layout is provided, DateLayoutDisplay is used
func FormatDate(date time.Time, layout string) string {
	if date.IsZero() {
		return ""
	}
	if layout == "" {
		layout = DateLayoutDisplay
	}
	return date.Format(layout)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// FileStamp formats date for use in file names.
func FileStamp(date time.Time) string {
	return date.UTC().Format("2006-01-02T15-04-05Z")
}

// CleanDateString trims, collapses whitespace and converts Persian digits.
func CleanDateString(dateStr string) string {
	dateStr = strings.TrimSpace(currencyutils.ToEnglishDigits(dateStr))
	return spaces.ReplaceAllString(dateStr, " ")
}
