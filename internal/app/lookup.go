package app

import (
	"math"
	"strconv"
	"strings"
	"time"
)

/********** payload lookup helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func lookupMap(m map[string]any, path string) map[string]any {
	if v, ok := lookupAny(m, path).(map[string]any); ok {
		return v
	}
	return nil
}

func lookupSlice(m map[string]any, path string) []any {
	if v, ok := lookupAny(m, path).([]any); ok {
		return v
	}
	return nil
}

// firstEntry returns the first element of a payload collection as a map.
func firstEntry(s []any) map[string]any {
	for _, it := range s {
		if m, ok := it.(map[string]any); ok {
			return m
		}
	}
	return nil
}

// getFloat: number at any of the paths (float64/int/string like "8,0").
func getFloat(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, sep)
}

/********** money helpers **********/

// cents converts a major-unit amount to integer minor units, rounding half
// away from zero so repeated runs on identical input never drift.
func cents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// centsAt reads a major-unit amount at path and converts it, reporting
// whether the field was present.
func centsAt(m map[string]any, path string) (int64, bool) {
	if f := getFloat(m, path); f != nil {
		return cents(*f), true
	}
	return 0, false
}

/********** date/time helpers **********/

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
}

func parseWhen(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range dateTimeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateOnly normalizes a payload date or datetime to YYYY-MM-DD.
func dateOnly(s string) string {
	if t, ok := parseWhen(s); ok {
		return t.Format("2006-01-02")
	}
	return ""
}

// dateTime normalizes to "YYYY-MM-DD HH:MM:SS", falling back to the raw
// value when the upstream format is unrecognized.
func dateTime(s string) string {
	if t, ok := parseWhen(s); ok {
		return t.Format("2006-01-02 15:04:05")
	}
	return strings.TrimSpace(s)
}

// timeOnly extracts HH:MM:SS from a datetime or a bare clock value such as
// the hotel policy "3:00 PM". Nil when absent or unparseable.
func timeOnly(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, ok := parseWhen(s); ok {
		v := t.Format("15:04:05")
		return &v
	}
	for _, l := range clockLayouts {
		if t, err := time.Parse(l, strings.ToUpper(s)); err == nil {
			v := t.Format("15:04:05")
			return &v
		}
	}
	return nil
}
