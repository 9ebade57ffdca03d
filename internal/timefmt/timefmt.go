// Package timefmt compiles strptime-style time formats ("%Y%m%d%H",
// "%Y-%m-%d_%H:%M:%S") into fixed-width layouts.
//
// Model output filenames embed timestamps as fixed-width digit fields, so a
// Layout parses and formats exactly Width() characters and can report where
// each field sits inside a formatted value.
package timefmt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// widths of the supported directives
var widths = map[byte]int{
	'Y': 4,
	'y': 2,
	'm': 2,
	'd': 2,
	'j': 3,
	'H': 2,
	'M': 2,
	'S': 2,
}

type token struct {
	literal string
	verb    byte
	width   int
	offset  int
}

// Layout is a compiled time format
type Layout struct {
	pattern string
	tokens  []token
	width   int
}

// Compile parses a strptime-style pattern.
// Only fixed-width numeric directives and %% are accepted.
func Compile(pattern string) (*Layout, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty time format")
	}

	l := &Layout{pattern: pattern}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			l.tokens = append(l.tokens, token{literal: lit.String(), width: lit.Len(), offset: l.width})
			l.width += lit.Len()
			lit.Reset()
		}
	}

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' {
			lit.WriteByte(c)
			continue
		}
		if i+1 >= len(pattern) {
			return nil, fmt.Errorf("time format %q ends with a bare %%", pattern)
		}
		i++
		verb := pattern[i]
		if verb == '%' {
			lit.WriteByte('%')
			continue
		}
		w, ok := widths[verb]
		if !ok {
			return nil, fmt.Errorf("time format %q: unsupported directive %%%c", pattern, verb)
		}
		flush()
		l.tokens = append(l.tokens, token{verb: verb, width: w, offset: l.width})
		l.width += w
	}
	flush()

	return l, nil
}

// MustCompile is like Compile but panics on error
func MustCompile(pattern string) *Layout {
	l, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return l
}

// Pattern returns the source pattern
func (l *Layout) Pattern() string {
	return l.pattern
}

// Width returns the length of every formatted value
func (l *Layout) Width() int {
	return l.width
}

// Offset returns the character offset of a directive inside a formatted value.
// verb is the directive letter, e.g. 'Y' or 'H'.
func (l *Layout) Offset(verb byte) (int, bool) {
	for _, t := range l.tokens {
		if t.verb == verb {
			return t.offset, true
		}
	}
	return 0, false
}

// Field extracts the text of a directive from a formatted value
func (l *Layout) Field(value string, verb byte) (string, bool) {
	for _, t := range l.tokens {
		if t.verb != verb {
			continue
		}
		if t.offset+t.width > len(value) {
			return "", false
		}
		return value[t.offset : t.offset+t.width], true
	}
	return "", false
}

// Parse reads a formatted value into a UTC time.
func (l *Layout) Parse(value string) (time.Time, error) {
	if len(value) != l.width {
		return time.Time{}, fmt.Errorf("parse %q with %q: want %d characters, got %d", value, l.pattern, l.width, len(value))
	}

	year, month, day, yday := 1900, 1, 1, 0
	hour, minute, second := 0, 0, 0

	for _, t := range l.tokens {
		text := value[t.offset : t.offset+t.width]
		if t.literal != "" {
			if text != t.literal {
				return time.Time{}, fmt.Errorf("parse %q with %q: expected %q at offset %d", value, l.pattern, t.literal, t.offset)
			}
			continue
		}
		n, err := atoi(text)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse %q with %q: %%%c field %q is not numeric", value, l.pattern, t.verb, text)
		}
		switch t.verb {
		case 'Y':
			year = n
		case 'y':
			// POSIX: 69-99 are 1969-1999, 00-68 are 2000-2068
			if n < 69 {
				year = 2000 + n
			} else {
				year = 1900 + n
			}
		case 'm':
			month = n
		case 'd':
			day = n
		case 'j':
			yday = n
		case 'H':
			hour = n
		case 'M':
			minute = n
		case 'S':
			second = n
		}
	}

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("parse %q with %q: month %d out of range", value, l.pattern, month)
	}
	if hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, fmt.Errorf("parse %q with %q: clock %02d:%02d:%02d out of range", value, l.pattern, hour, minute, second)
	}

	if yday > 0 {
		t := time.Date(year, time.January, 1, hour, minute, second, 0, time.UTC).AddDate(0, 0, yday-1)
		if t.Year() != year {
			return time.Time{}, fmt.Errorf("parse %q with %q: day of year %d out of range", value, l.pattern, yday)
		}
		return t, nil
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	if day < 1 || t.Day() != day {
		return time.Time{}, fmt.Errorf("parse %q with %q: day %d out of range", value, l.pattern, day)
	}
	return t, nil
}

// Format renders t with the layout
func (l *Layout) Format(t time.Time) string {
	var sb strings.Builder
	sb.Grow(l.width)
	for _, tok := range l.tokens {
		if tok.literal != "" {
			sb.WriteString(tok.literal)
			continue
		}
		var n int
		switch tok.verb {
		case 'Y':
			n = t.Year()
		case 'y':
			n = t.Year() % 100
		case 'm':
			n = int(t.Month())
		case 'd':
			n = t.Day()
		case 'j':
			n = t.YearDay()
		case 'H':
			n = t.Hour()
		case 'M':
			n = t.Minute()
		case 'S':
			n = t.Second()
		}
		sb.WriteString(fmt.Sprintf("%0*d", tok.width, n))
	}
	return sb.String()
}

func atoi(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("not a digit: %q", s[i])
		}
	}
	return strconv.Atoi(s)
}
