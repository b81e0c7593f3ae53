package core

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	timestampPattern   = regexp.MustCompile(`^(\d+):(\d+)$`)
	isoDurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)
)

// ToSeconds parses an "MM:SS" display timestamp into an offset in seconds.
// Minutes are unbounded; seconds must be in [0, 59]. Anything that is not
// two colon-separated non-negative integers fails with ErrMalformedTimestamp.
func ToSeconds(timestamp string) (int, error) {
	m := timestampPattern.FindStringSubmatch(timestamp)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, timestamp)
	}
	minutes, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, timestamp)
	}
	seconds, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, timestamp)
	}
	if seconds > 59 {
		return 0, fmt.Errorf("%w: seconds out of range in %q", ErrMalformedTimestamp, timestamp)
	}
	return minutes*60 + seconds, nil
}

// FromSeconds renders an offset in seconds as a zero-padded "MM:SS"
// display timestamp. Minutes may exceed 59. Negative offsets are
// clamped to zero.
//
// For all n >= 0, ToSeconds(FromSeconds(n)) == n.
func FromSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ParseISODuration converts an ISO-8601 duration of the form "PT#H#M#S"
// (the form the catalog reports) into seconds. Fails with
// ErrInvalidDuration on anything else.
func ParseISODuration(duration string) (int, error) {
	m := isoDurationPattern.FindStringSubmatch(duration)
	if m == nil || duration == "PT" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, duration)
	}
	total := 0
	for i, multiplier := range []int{3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, duration)
		}
		total += n * multiplier
	}
	return total, nil
}

// FormatDuration renders a duration in seconds for display:
// "1:02:10" when at least an hour, "5:30" otherwise.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
