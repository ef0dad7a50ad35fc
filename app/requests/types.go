// Package requests decodes admin payloads and turns them into sanitized
// models. Admin forms post numbers as strings and leave fields blank, so the
// field types here accept both and never fail to decode.
package requests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shashiranjanraj/agromart/pkg/validate"
)

// ValidationError carries the field->message map returned to the client.
type ValidationError struct {
	Fields validate.Errors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

func invalid(errs validate.Errors) error {
	if !validate.HasErrors(errs) {
		return nil
	}
	return &ValidationError{Fields: errs}
}

func fieldError(field, msg string) error {
	return &ValidationError{Fields: validate.Errors{field: msg}}
}

// Number accepts a JSON number or a numeric string. Anything else,
// including "abc", null and booleans, decodes as 0.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = 0
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == 'n' || b[0] == 't' || b[0] == 'f' || b[0] == '[' || b[0] == '{' {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		*n = Number(leadingNumber(s))
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		*n = Number(f)
	}
	return nil
}

// Int truncates toward zero.
func (n Number) Int() int { return int(math.Trunc(float64(n))) }

func (n Number) Float() float64 { return float64(n) }

// leadingNumber reads the longest numeric prefix of s: "250 Rs" is 250,
// "1,200" is 1.
func leadingNumber(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	seenDot, seenDigit := false, false
scan:
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			end = i + 1
		case r == '.' && !seenDot:
			seenDot = true
		case (r == '-' || r == '+') && i == 0:
		default:
			break scan
		}
	}
	if !seenDigit {
		return 0
	}
	f, _ := strconv.ParseFloat(s[:end], 64)
	return f
}

// Text accepts a JSON string, number or boolean and keeps its text form.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	*t = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == 'n' || b[0] == '[' || b[0] == '{' {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		*t = Text(s)
		return nil
	}
	*t = Text(b)
	return nil
}

func (t Text) String() string { return strings.TrimSpace(string(t)) }

// Flag is true for JSON true, "true"/"TRUE" and non-zero numbers.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	*f = false
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		*f = true
	default:
		if v, err := strconv.ParseFloat(s, 64); err == nil && v != 0 {
			*f = true
		}
	}
	return nil
}

// truncate caps s at n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
