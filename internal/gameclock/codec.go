package gameclock

import (
	"strconv"
	"strings"
)

// FormatSeconds renders a non-negative second count as "M:SS" with the
// minutes unpadded. A negative input yields the empty string, which is what
// optional-time displays render for "no value".
func FormatSeconds(sec int) string {
	if sec < 0 {
		return ""
	}
	return strconv.Itoa(sec/60) + ":" + pad2(sec%60)
}

// FormatOptional renders a possibly-absent second count; nil yields "".
func FormatOptional(sec *int) string {
	if sec == nil {
		return ""
	}
	return FormatSeconds(*sec)
}

// ParseClock parses "M:SS" or "MM:SS" into seconds. The second return is
// false for malformed text; callers show inline validation rather than
// handling an error, since the input comes from incremental typing.
func ParseClock(text string) (int, bool) {
	minStr, secStr, found := strings.Cut(strings.TrimSpace(text), ":")
	if !found || len(secStr) != 2 {
		return 0, false
	}
	minutes, err := strconv.Atoi(minStr)
	if err != nil || minutes < 0 || strings.HasPrefix(minStr, "+") || strings.HasPrefix(minStr, "-") {
		return 0, false
	}
	// Atoi tolerates a sign, which a two-character SS slot must not.
	if secStr[0] < '0' || secStr[0] > '9' || secStr[1] < '0' || secStr[1] > '9' {
		return 0, false
	}
	seconds, _ := strconv.Atoi(secStr)
	if seconds > 59 {
		return 0, false
	}
	return minutes*60 + seconds, true
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
