package astro

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/soniakeys/unit"
)

// sexaSeparators are the characters accepted between sexagesimal fields.
const sexaSeparators = ":dhms'\" °"

// sexa splits a non-negative value into whole units, minutes and seconds.
func sexa(v float64) (whole, minutes, seconds int) {
	v = math.Abs(v)
	whole = int(math.Floor(v))
	m := (v - math.Floor(v)) * 60
	minutes = int(math.Floor(m))
	seconds = int(math.Floor((m - math.Floor(m)) * 60))
	return whole, minutes, seconds
}

func sign(v float64) string {
	if v < 0 {
		return "-"
	}
	return ""
}

// FormatDMS formats degrees as dd:mm:ss.
func FormatDMS(deg float64) string {
	d, m, s := sexa(deg)
	return fmt.Sprintf("%s%02d:%02d:%02d", sign(deg), d, m, s)
}

// FormatDMSSign formats degrees as ±dd:mm:ss, always carrying a sign.
func FormatDMSSign(deg float64) string {
	d, m, s := sexa(deg)
	prefix := "+"
	if deg < 0 {
		prefix = "-"
	}
	return fmt.Sprintf("%s%02d:%02d:%02d", prefix, d, m, s)
}

// FormatDMSWide formats degrees as dd : mm : ss.
func FormatDMSWide(deg float64) string {
	d, m, s := sexa(deg)
	return fmt.Sprintf("%s%02d : %02d : %02d", sign(deg), d, m, s)
}

// FormatHMS formats hours as 00h00m00s.
func FormatHMS(hours float64) string {
	h, m, s := sexa(hours)
	return fmt.Sprintf("%s%02dh%02dm%02ds", sign(hours), h, m, s)
}

// FormatHMSWide formats hours as hh : mm : ss.
func FormatHMSWide(hours float64) string {
	h, m, s := sexa(hours)
	return fmt.Sprintf("%s%02d : %02d : %02d", sign(hours), h, m, s)
}

// Parse reads a sexagesimal or decimal value such as "12:30:00",
// "-5d 30m", "12h 30m 15s" or "42.5". Free-text input is accepted
// leniently: anything that cannot be read yields 0.
func Parse(s string) float64 {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	for _, sep := range []string{"d ", "h ", "m ", "s ", "' ", "\" ", "° "} {
		s = strings.ReplaceAll(s, sep, strings.TrimSpace(sep))
	}

	if !strings.ContainsAny(s, sexaSeparators) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	}

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(sexaSeparators, r)
	})
	// FieldsFunc drops a leading empty field; keep positions for input like ":30".
	if strings.ContainsRune(sexaSeparators, []rune(s)[0]) {
		parts = append([]string{""}, parts...)
	}

	var fields [3]float64
	for i := 0; i < len(parts) && i < 3; i++ {
		if parts[i] == "" {
			continue
		}
		v, err := strconv.ParseFloat(parts[i], 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		fields[i] = math.Abs(v)
	}

	var neg byte = ' '
	if len(parts) > 0 && strings.Contains(parts[0], "-") {
		neg = '-'
	}

	whole, minutes := fields[0], fields[1]
	seconds := fields[2] + (whole-math.Trunc(whole))*3600 + (minutes-math.Trunc(minutes))*60
	return unit.FromSexa(neg, int(whole), int(minutes), seconds)
}

// ParseRA reads a right ascension and returns hours clamped to [0, 24].
// Input containing "d" or "°" is read as degrees, input containing "h" or
// ":" as hours; otherwise the degrees argument decides.
func ParseRA(s string, degrees bool) float64 {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.ContainsAny(s, "d°") {
		degrees = true
	}
	if strings.ContainsAny(s, "h:") {
		degrees = false
	}

	ra := Parse(s)
	if degrees {
		ra /= 15
	}
	return clamp(ra, 0, 24)
}

// ParseDec reads a declination and returns degrees clamped to [-90, 90].
func ParseDec(s string) float64 {
	return clamp(Parse(s), -90, 90)
}
