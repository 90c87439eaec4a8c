package gameclock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSeconds(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{59, "0:59"},
		{60, "1:00"},
		{65, "1:05"},
		{600, "10:00"},
		{1200, "20:00"},
		{1199, "19:59"},
		{-1, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatSeconds(tc.in), "FormatSeconds(%d)", tc.in)
	}
}

func TestFormatOptional(t *testing.T) {
	assert.Equal(t, "", FormatOptional(nil))
	v := 95
	assert.Equal(t, "1:35", FormatOptional(&v))
}

func TestParseClock(t *testing.T) {
	valid := map[string]int{
		"0:00":  0,
		"0:05":  5,
		"1:05":  65,
		"10:00": 600,
		"20:00": 1200,
		"19:59": 1199,
		" 8:45": 525, // stray whitespace from a text input
	}
	for in, want := range valid {
		got, ok := ParseClock(in)
		require.True(t, ok, "ParseClock(%q)", in)
		assert.Equal(t, want, got, "ParseClock(%q)", in)
	}

	invalid := []string{"", ":", "10", "10:", ":30", "10:60", "10:5", "10:345", "-1:30", "+1:30", "1:+9", "1:-5", "a:bc", "1:3x", "1.5:30"}
	for _, in := range invalid {
		_, ok := ParseClock(in)
		assert.False(t, ok, "ParseClock(%q) should be invalid", in)
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	// Round-trip over every second of the longest period.
	for s := 0; s <= 1200; s++ {
		got, ok := ParseClock(FormatSeconds(s))
		require.True(t, ok, "second %d", s)
		require.Equal(t, s, got, "second %d", s)
	}
}
