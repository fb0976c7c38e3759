package api

import (
	"regexp"
	"strconv"
	"time"

	"shift-tracker/internal/errors"
)

var shorthandRegex = regexp.MustCompile(`^(\d+)(m|h|d|w|mo|y)$`)

var shorthandUnits = map[string]time.Duration{
	"m":  time.Minute,
	"h":  time.Hour,
	"d":  24 * time.Hour,
	"w":  7 * 24 * time.Hour,
	"mo": 30 * 24 * time.Hour,
	"y":  365 * 24 * time.Hour,
}

// maxWindow keeps now minus a window well inside time.Duration
const maxWindow = int64(100 * 365 * 24 * time.Hour)

// ParseTimeShorthand parses time shorthand like "30m", "2h", "1d", "2w", "3mo", "1y".
func ParseTimeShorthand(shorthand string) (time.Duration, error) {
	matches := shorthandRegex.FindStringSubmatch(shorthand)
	if matches == nil {
		return 0, errors.NewInvalidInputError("time range", shorthand, "expected a number followed by m, h, d, w, mo or y")
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, errors.NewInvalidInputError("time range", shorthand, "number out of range")
	}

	unit := shorthandUnits[matches[2]]
	if int64(value) > maxWindow/int64(unit) {
		return 0, errors.NewInvalidInputError("time range", shorthand, "window longer than 100 years")
	}

	return time.Duration(value) * unit, nil
}
