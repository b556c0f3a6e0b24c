// Package timeofday provides the clock arithmetic shared by the punch
// normalizer, the duration calculator and the aggregator.
package timeofday

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Day is the length of one wraparound.
const Day = 24 * time.Hour

// Layout is the punch token format.
const Layout = "15:04"

var (
	// ErrInvalidTime indicates a punch token that is not a valid HH:MM time of day.
	ErrInvalidTime = errors.New("invalid time of day")
	// ErrInvalidDuration indicates a duration string that is not HH:MM.
	ErrInvalidDuration = errors.New("invalid duration")
)

// Time is a time of day expressed in minutes since midnight.
type Time int

// Parse parses an HH:MM token. Single-digit hours are accepted.
func Parse(s string) (Time, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return Time(t.Hour()*60 + t.Minute()), nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Offset returns the time of day as a duration since midnight.
func (t Time) Offset() time.Duration {
	return time.Duration(t) * time.Minute
}

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Distance is the absolute difference between two times of day on the same
// day, without wraparound.
func Distance(a, b Time) time.Duration {
	d := a.Offset() - b.Offset()
	if d < 0 {
		d = -d
	}
	return d
}

// Span returns the elapsed time from "from" to "to". When "to" is not after
// "from" the span crosses midnight and a full day is added.
func Span(from, to Time) time.Duration {
	d := to.Offset() - from.Offset()
	if d <= 0 {
		d += Day
	}
	return d
}

// FormatDuration renders a non-negative duration as HH:MM, truncated to the
// minute. Hours are not bounded by 24.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int64(d / time.Minute)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDuration parses an HH:MM duration. Hours may exceed 24.
func ParseDuration(s string) (time.Duration, error) {
	hours, minutes, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	h, err := strconv.Atoi(hours)
	if err != nil || h < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	m, err := strconv.Atoi(minutes)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}
