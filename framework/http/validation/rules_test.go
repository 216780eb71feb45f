package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/nexus-site/framework/http/validation"
)

func TestParseRules(t *testing.T) {
	tests := []struct {
		rules string
		want  validation.Field
	}{
		{"", validation.Field{Name: "f", Type: validation.TypeText}},
		{"required", validation.Field{Name: "f", Type: validation.TypeText, Required: true}},
		{"required|email", validation.Field{Name: "f", Type: validation.TypeEmail, Required: true}},
		{" tel | min:12 ", validation.Field{Name: "f", Type: validation.TypeTel, MinLength: 12}},
		{"email|text", validation.Field{Name: "f", Type: validation.TypeText}},
	}

	for _, tt := range tests {
		t.Run(tt.rules, func(t *testing.T) {
			got, err := validation.ParseRules("f", tt.rules)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRules_Errors(t *testing.T) {
	_, err := validation.ParseRules("f", "required|numeric")
	assert.ErrorIs(t, err, validation.ErrUnknownRule)

	for _, r := range []string{"min", "min:", "min:x", "min:-1"} {
		_, err := validation.ParseRules("f", r)
		assert.ErrorIs(t, err, validation.ErrInvalidParam, r)
	}
}

func TestRules_Fields(t *testing.T) {
	fields, err := validation.Rules{
		"phone": "tel",
		"email": "required|email",
	}.Fields()
	require.NoError(t, err)

	want := []validation.Field{
		{Name: "email", Type: validation.TypeEmail, Required: true},
		{Name: "phone", Type: validation.TypeTel},
	}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("Fields() mismatch (-want +got):\n%s", diff)
	}

	_, err = validation.Rules{"x": "bogus"}.Fields()
	assert.ErrorIs(t, err, validation.ErrUnknownRule)
}

func TestField_String(t *testing.T) {
	f, err := validation.ParseRules("email", "required|email|min:6")
	require.NoError(t, err)
	assert.Equal(t, "required|email|min:6", f.String())
	assert.Equal(t, "", validation.Field{Name: "n", Type: validation.TypeText}.String())
}
