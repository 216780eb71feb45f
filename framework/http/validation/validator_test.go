package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/km-arc/nexus-site/framework/http/validation"
)

// ── helpers ──────────────────────────────────────────────────────────────────

// pass asserts the field validates.
func pass(t *testing.T, label string, f validation.Field) {
	t.Helper()
	t.Run(label, func(t *testing.T) {
		res := validation.ValidateField(f)
		assert.True(t, res.Valid, "expected PASS, got %q", res.Message)
		assert.Empty(t, res.Message)
	})
}

// fail asserts the field fails with the given message.
func fail(t *testing.T, label, msg string, f validation.Field) {
	t.Helper()
	t.Run(label, func(t *testing.T) {
		res := validation.ValidateField(f)
		assert.False(t, res.Valid, "expected FAIL for %q", f.Value)
		assert.Equal(t, msg, res.Message)
	})
}

func email(v string) validation.Field {
	return validation.Field{Name: "email", Type: validation.TypeEmail, Value: v}
}

func tel(v string) validation.Field {
	return validation.Field{Name: "phone", Type: validation.TypeTel, Value: v}
}

// ── required ─────────────────────────────────────────────────────────────────

func TestValidateField_Required(t *testing.T) {
	f := validation.Field{Name: "name", Type: validation.TypeText, Required: true}

	fail(t, "empty string", validation.MsgRequired, f)
	f.Value = "   \t"
	fail(t, "whitespace only", validation.MsgRequired, f)
	f.Value = "\u00a0\u3000\ufeff\v"
	fail(t, "unicode whitespace only", validation.MsgRequired, f)
	f.Value = "Alice"
	pass(t, "non-empty value", f)
}

func TestValidateField_NotRequiredEmpty(t *testing.T) {
	pass(t, "empty text", validation.Field{Name: "name"})
	pass(t, "empty email", email(""))
	pass(t, "empty tel", tel(""))
}

// ── email ────────────────────────────────────────────────────────────────────

func TestValidateField_Email(t *testing.T) {
	pass(t, "minimal", email("a@b.c"))
	pass(t, "typical", email("user@example.com"))
	pass(t, "subdomain", email("user@mail.example.co.uk"))
	pass(t, "surrounding spaces trimmed", email("  user@example.com  "))

	fail(t, "no @ sign", validation.MsgEmail, email("notanemail"))
	fail(t, "no tld", validation.MsgEmail, email("user@example"))
	fail(t, "no domain", validation.MsgEmail, email("user@"))
	fail(t, "no local part", validation.MsgEmail, email("@example.com"))
	fail(t, "two @ signs", validation.MsgEmail, email("a@b@c.com"))
	fail(t, "inner whitespace", validation.MsgEmail, email("us er@example.com"))
	fail(t, "no-break space in local part", validation.MsgEmail, email("user\u00a0name@example.com"))
	fail(t, "em space in domain", validation.MsgEmail, email("user@exa\u2003mple.com"))
	fail(t, "byte order mark", validation.MsgEmail, email("user@example.\ufeffcom"))
	pass(t, "no-break spaces trimmed", email("\u00a0user@example.com\u00a0"))
}

// ── tel ──────────────────────────────────────────────────────────────────────

func TestValidateField_Phone(t *testing.T) {
	pass(t, "ten digits", tel("0123456789"))
	pass(t, "formatted", tel("+1 (555) 123-4567"))
	pass(t, "more than ten digits", tel("+44 20 7946 0958 12"))
	pass(t, "no-break space separators", tel("555\u00a0123\u00a04567"))
	pass(t, "ideographic space separators", tel("555\u3000123\u30004567"))

	fail(t, "nine digits", validation.MsgPhone, tel("123456789"))
	fail(t, "letters", validation.MsgPhone, tel("555-CALL-NOW-1234"))
	fail(t, "punctuation only", validation.MsgPhone, tel("()-+"))
	fail(t, "dot separators", validation.MsgPhone, tel("555.123.4567"))
}

// ── min length ───────────────────────────────────────────────────────────────

func TestValidateField_MinLength(t *testing.T) {
	f := validation.Field{Name: "message", MinLength: 5}

	fail(t, "empty", validation.MsgMinLength(5), f)
	f.Value = "abcd"
	fail(t, "one short", "Minimum 5 characters required", f)
	f.Value = "  abcd  "
	fail(t, "padding does not count", validation.MsgMinLength(5), f)
	f.Value = "abcde"
	pass(t, "exactly five", f)
	f.Value = "日本語です"
	pass(t, "counts runes", f)
}

func TestValidateField_MinLengthRegardlessOfOtherRules(t *testing.T) {
	f := email("a@b.c")
	f.MinLength = 10
	fail(t, "valid email too short", validation.MsgMinLength(10), f)
}

// ── ordering ─────────────────────────────────────────────────────────────────

func TestValidateField_FirstFailureWins(t *testing.T) {
	f := validation.Field{Name: "email", Type: validation.TypeEmail, Required: true, MinLength: 8}

	fail(t, "required beats min length", validation.MsgRequired, f)
	f.Value = "x@y"
	fail(t, "format beats min length", validation.MsgEmail, f)

	p := tel("12")
	p.MinLength = 20
	fail(t, "phone beats min length", validation.MsgPhone, p)
}

func TestValidateField_Idempotent(t *testing.T) {
	for _, f := range []validation.Field{
		email("user@example"),
		email("user@example.com"),
		tel("123"),
		{Name: "n", Required: true},
	} {
		assert.Equal(t, validation.ValidateField(f), validation.ValidateField(f))
	}
}

// ── form ─────────────────────────────────────────────────────────────────────

func TestValidateForm(t *testing.T) {
	fields := []validation.Field{
		{Name: "email", Type: validation.TypeEmail, Required: true},
		{Name: "phone", Type: validation.TypeTel, Value: "bad"},
	}

	ok, results := validation.ValidateForm(fields)
	assert.False(t, ok)
	assert.Equal(t, validation.MsgRequired, results["email"].Message)
	_, checked := results["phone"]
	assert.False(t, checked, "optional fields are not checked on submit")

	fields[0].Value = "user@example.com"
	ok, results = validation.ValidateForm(fields)
	assert.True(t, ok)
	assert.True(t, results["email"].Valid)
}

// ── types ────────────────────────────────────────────────────────────────────

func TestParseType(t *testing.T) {
	tests := map[string]validation.Type{
		"":         validation.TypeText,
		"text":     validation.TypeText,
		"textarea": validation.TypeText,
		"EMAIL":    validation.TypeEmail,
		"tel":      validation.TypeTel,
		"number":   validation.TypeOther,
		"select":   validation.TypeOther,
	}
	for in, want := range tests {
		assert.Equal(t, want, validation.ParseType(in), "ParseType(%q)", in)
	}
}
