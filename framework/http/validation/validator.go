package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ── Messages ─────────────────────────────────────────────────────────────────

const (
	MsgRequired = "This field is required"
	MsgEmail    = "Please enter a valid email address"
	MsgPhone    = "Please enter a valid phone number"
)

// MsgMinLength returns the minimum-length message for n characters.
func MsgMinLength(n int) string {
	return fmt.Sprintf("Minimum %d characters required", n)
}

// minPhoneDigits is the number of digits a phone number must contain.
const minPhoneDigits = 10

// whitespace is the browser's \s class: RE2's \s is ASCII only and omits \v.
const whitespace = `\s\v\x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`

// isSpace reports whether r is in the whitespace class above.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r',
		'\u00a0', '\u1680', '\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}

var (
	emailPattern = regexp.MustCompile(`^[^` + whitespace + `@]+@[^` + whitespace + `@]+\.[^` + whitespace + `@]+$`)
	phonePattern = regexp.MustCompile(`^[\d` + whitespace + `\-+()]+$`)
)

// ── Types ────────────────────────────────────────────────────────────────────

// Type is the input type tag of a field.
type Type string

const (
	TypeText  Type = "text"
	TypeEmail Type = "email"
	TypeTel   Type = "tel"
	TypeOther Type = "other"
)

// ParseType maps an HTML input type onto a Type.
// textarea and an empty type are treated as text.
func ParseType(s string) Type {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "textarea":
		return TypeText
	case "email":
		return TypeEmail
	case "tel":
		return TypeTel
	default:
		return TypeOther
	}
}

// Field is a named input and the constraints it declares.
// MinLength of zero means no minimum-length constraint.
type Field struct {
	Name      string `json:"name"`
	Type      Type   `json:"type"`
	Value     string `json:"value"`
	Required  bool   `json:"required"`
	MinLength int    `json:"minlength,omitempty"`
}

// Result is the outcome of one field check.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

func pass() Result              { return Result{Valid: true} }
func failure(msg string) Result { return Result{Message: msg} }

// ── Rule set ─────────────────────────────────────────────────────────────────

// rule checks a trimmed value; ok is false when the rule fails.
type rule func(f Field, value string) (msg string, ok bool)

// rules run in order; the first failure stops evaluation.
var rules = []rule{
	requiredRule,
	emailRule,
	phoneRule,
	minLengthRule,
}

func requiredRule(f Field, value string) (string, bool) {
	if f.Required && value == "" {
		return MsgRequired, false
	}
	return "", true
}

func emailRule(f Field, value string) (string, bool) {
	if f.Type == TypeEmail && value != "" && !emailPattern.MatchString(value) {
		return MsgEmail, false
	}
	return "", true
}

func phoneRule(f Field, value string) (string, bool) {
	if f.Type != TypeTel || value == "" {
		return "", true
	}
	if !phonePattern.MatchString(value) || countDigits(value) < minPhoneDigits {
		return MsgPhone, false
	}
	return "", true
}

func minLengthRule(f Field, value string) (string, bool) {
	if f.MinLength > 0 && utf8.RuneCountInString(value) < f.MinLength {
		return MsgMinLength(f.MinLength), false
	}
	return "", true
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// ValidateField checks a field's value against its declared constraints.
// It has no side effects; the same field always yields the same Result.
func ValidateField(f Field) Result {
	value := strings.TrimFunc(f.Value, isSpace)
	for _, r := range rules {
		if msg, ok := r(f, value); !ok {
			return failure(msg)
		}
	}
	return pass()
}

// ValidateForm validates every required field and reports whether all of
// them passed. Fields without the required flag are not checked.
func ValidateForm(fields []Field) (bool, map[string]Result) {
	valid := true
	results := make(map[string]Result, len(fields))
	for _, f := range fields {
		if !f.Required {
			continue
		}
		res := ValidateField(f)
		results[f.Name] = res
		if !res.Valid {
			valid = false
		}
	}
	return valid, results
}
