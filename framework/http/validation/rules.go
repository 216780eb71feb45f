package validation

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrUnknownRule is returned by ParseRules for an unrecognised rule name.
	ErrUnknownRule = errors.New("validation: unknown rule")

	// ErrInvalidParam is returned by ParseRules for a malformed rule parameter.
	ErrInvalidParam = errors.New("validation: invalid rule parameter")
)

// Rules is a map of field → pipe-separated rule string.
// e.g. Rules{"email": "required|email", "message": "required|min:10"}
type Rules map[string]string

// ParseRules builds a Field declaration from a rule string such as
// "required|email" or "tel|min:12". The returned Field has no value.
func ParseRules(name, ruleStr string) (Field, error) {
	f := Field{Name: name, Type: TypeText}

	for _, r := range strings.Split(ruleStr, "|") {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}

		// min:3 → name=min, param=3
		ruleName, param, hasParam := strings.Cut(r, ":")

		switch ruleName {
		case "required":
			f.Required = true
		case "text":
			f.Type = TypeText
		case "email":
			f.Type = TypeEmail
		case "tel":
			f.Type = TypeTel
		case "min":
			n, err := strconv.Atoi(strings.TrimSpace(param))
			if !hasParam || err != nil || n < 0 {
				return Field{}, fmt.Errorf("%w: %s: %q", ErrInvalidParam, name, r)
			}
			f.MinLength = n
		default:
			return Field{}, fmt.Errorf("%w: %s: %q", ErrUnknownRule, name, ruleName)
		}
	}

	return f, nil
}

// Fields parses every entry of rs. The result is ordered by field name.
func (rs Rules) Fields() ([]Field, error) {
	names := make([]string, 0, len(rs))
	for name := range rs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Field, 0, len(names))
	for _, name := range names {
		f, err := ParseRules(name, rs[name])
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// String renders f back into rule syntax.
func (f Field) String() string {
	var parts []string
	if f.Required {
		parts = append(parts, "required")
	}
	switch f.Type {
	case TypeEmail, TypeTel:
		parts = append(parts, string(f.Type))
	}
	if f.MinLength > 0 {
		parts = append(parts, "min:"+strconv.Itoa(f.MinLength))
	}
	return strings.Join(parts, "|")
}
