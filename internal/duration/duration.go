// Package duration parses the human duration strings used by moderation commands
// ("30d", "1d12h", "2w") into expiry instants.
//
// Months and years are fixed approximations (30 and 365 days). Expiries are not
// calendar accurate and are not meant to be.
package duration

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
	secondsPerWeek   = 7 * secondsPerDay
	secondsPerMonth  = 30 * secondsPerDay
	secondsPerYear   = 365 * secondsPerDay
)

// tokenPattern matches a single "<integer><unit>" pair. "mo" is listed before "m"
// so that months win over minutes.
var tokenPattern = regexp.MustCompile(`(?i)(\d+)\s*(mo|y|w|d|h|m|s)`)

// Duration is a parsed duration split by unit. The zero value is a zero-length
// duration, which callers must treat as a likely input error.
type Duration struct {
	Years     int64
	Months    int64
	Weeks     int64
	Days      int64
	Hours     int64
	Minutes   int64
	Seconds   int64
	permanent bool
	raw       string
}

// Parse scans the input for "<integer><unit>" pairs and sums them. Repeated units
// add up, text that does not match is ignored and an input with no match at all
// yields a zero duration. Parse never fails.
func Parse(s string) Duration {
	d := Duration{raw: strings.ToLower(strings.TrimSpace(s))}

	for _, match := range tokenPattern.FindAllStringSubmatch(d.raw, -1) {
		value, err := strconv.ParseInt(match[1], 10, 64)
		if err != nil {
			// Out of range numbers stop the scan, keeping what was parsed so far
			return d
		}

		switch match[2] {
		case "y":
			d.Years = saturatingAdd(d.Years, value)
		case "mo":
			d.Months = saturatingAdd(d.Months, value)
		case "w":
			d.Weeks = saturatingAdd(d.Weeks, value)
		case "d":
			d.Days = saturatingAdd(d.Days, value)
		case "h":
			d.Hours = saturatingAdd(d.Hours, value)
		case "m":
			d.Minutes = saturatingAdd(d.Minutes, value)
		case "s":
			d.Seconds = saturatingAdd(d.Seconds, value)
		}
	}

	return d
}

// Permanent returns a duration that never expires.
func Permanent() Duration {
	return Duration{permanent: true}
}

// IsPermanent reports whether the duration never expires.
func (d Duration) IsPermanent() bool {
	return d.permanent
}

// IsZero reports whether a non-permanent duration adds up to nothing.
func (d Duration) IsZero() bool {
	return !d.permanent && d.TotalSeconds() == 0
}

// MaxDuration is the longest expiry a duration resolves to, about 292 years.
// Longer inputs saturate here so a larger sum never lands earlier.
const MaxDuration = time.Duration(math.MaxInt64)

// maxSeconds is MaxDuration in whole seconds.
const maxSeconds = int64(MaxDuration / time.Second)

// TotalSeconds returns the sum of all units in seconds, saturating at math.MaxInt64.
func (d Duration) TotalSeconds() int64 {
	total := d.Seconds
	for _, unit := range [...]struct{ value, seconds int64 }{
		{d.Minutes, secondsPerMinute},
		{d.Hours, secondsPerHour},
		{d.Days, secondsPerDay},
		{d.Weeks, secondsPerWeek},
		{d.Months, secondsPerMonth},
		{d.Years, secondsPerYear},
	} {
		total = saturatingAdd(total, saturatingMul(unit.value, unit.seconds))
	}
	return total
}

// ToDuration converts the parsed value into a time.Duration, capped at MaxDuration.
func (d Duration) ToDuration() time.Duration {
	secs := d.TotalSeconds()
	if secs > maxSeconds {
		return MaxDuration
	}
	return time.Duration(secs) * time.Second
}

// saturatingMul multiplies non-negative values, capping at math.MaxInt64.
func saturatingMul(value, factor int64) int64 {
	if value != 0 && value > math.MaxInt64/factor {
		return math.MaxInt64
	}
	return value * factor
}

// saturatingAdd adds non-negative values, capping at math.MaxInt64.
func saturatingAdd(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// ExpiryFrom returns the instant the duration ends when started at now.
// Returns nil for permanent durations.
func (d Duration) ExpiryFrom(now time.Time) *time.Time {
	if d.permanent {
		return nil
	}

	expiry := now.Add(d.ToDuration())
	return &expiry
}

// Expiry returns the instant the duration ends when started now.
func (d Duration) Expiry() *time.Time {
	return d.ExpiryFrom(time.Now())
}

// Raw returns the lowercased input the duration was parsed from.
func (d Duration) Raw() string {
	return d.raw
}

// String renders the duration in a normalized form such as "1d 12h".
func (d Duration) String() string {
	if d.permanent {
		return "permanent"
	}

	units := []struct {
		value  int64
		suffix string
	}{
		{d.Years, "y"},
		{d.Months, "mo"},
		{d.Weeks, "w"},
		{d.Days, "d"},
		{d.Hours, "h"},
		{d.Minutes, "m"},
		{d.Seconds, "s"},
	}

	parts := make([]string, 0, len(units))
	for _, unit := range units {
		if unit.value > 0 {
			parts = append(parts, strconv.FormatInt(unit.value, 10)+unit.suffix)
		}
	}

	if len(parts) == 0 {
		return "0s"
	}

	return strings.Join(parts, " ")
}
