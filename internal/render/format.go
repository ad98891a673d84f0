package render

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const missing = "-"

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime reads the timestamp formats the backend emits. Timestamps
// without a zone are UTC.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

const (
	day   = 24 * time.Hour
	month = 30 * day
	year  = 365 * day
)

var relMagnitudes = []humanize.RelTimeMagnitude{
	{D: 45 * time.Second, Format: "just now", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "a minute %s", DivBy: time.Minute},
	{D: 45 * time.Minute, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "an hour %s", DivBy: time.Hour},
	{D: 22 * time.Hour, Format: "%d hours %s", DivBy: time.Hour},
	{D: 2 * day, Format: "a day %s", DivBy: day},
	{D: 26 * day, Format: "%d days %s", DivBy: day},
	{D: 2 * month, Format: "a month %s", DivBy: month},
	{D: 320 * day, Format: "%d months %s", DivBy: month},
	{D: 2 * year, Format: "a year %s", DivBy: year},
	{D: math.MaxInt64, Format: "%d years %s", DivBy: year},
}

// RelativeTime renders ts relative to now, such as "5 minutes ago". Missing,
// unreadable and future timestamps count as now.
func RelativeTime(ts string, now time.Time) string {
	t, ok := ParseTime(ts)
	if !ok || t.After(now) {
		return "just now"
	}
	return humanize.CustomRelTime(t, now, "ago", "from now", relMagnitudes)
}

// Date renders the date part of ts as YYYY-MM-DD.
func Date(ts string) string {
	if t, ok := ParseTime(ts); ok {
		return t.Format("2006-01-02")
	}
	if ts == "" {
		return missing
	}
	return ts
}

func num(v *float64) string {
	if v == nil {
		return missing
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func num1(v *float64) string {
	if v == nil {
		return missing
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

func integer(v *int) string {
	if v == nil {
		return missing
	}
	return strconv.Itoa(*v)
}

func text(s string) string {
	if strings.TrimSpace(s) == "" {
		return missing
	}
	return s
}

func initial(name string) string {
	for _, r := range strings.TrimSpace(name) {
		return strings.ToUpper(string(r))
	}
	return "?"
}
