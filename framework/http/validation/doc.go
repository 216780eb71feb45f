// Package validation provides the field validation rule set used by the
// site's forms.
//
// # Overview
//
// A Field is one form input: a name, a type tag, its current value and the
// constraints it declares. ValidateField checks the value against those
// constraints and returns a Result.
//
//	res := validation.ValidateField(validation.Field{
//	    Name:     "email",
//	    Type:     validation.TypeEmail,
//	    Value:    "user@example.com",
//	    Required: true,
//	})
//
//	if !res.Valid {
//	    // res.Message is the user-facing hint, e.g. "Please enter a valid email address"
//	}
//
// # Rule Order
//
// Rules run in a fixed order and the first failing rule wins:
//
//  1. required  trimmed value must not be empty
//  2. email     email fields with a value look like local@domain.tld, no whitespace
//  3. tel       tel fields with a value hold digits, spaces and -+() only, at least 10 digits
//  4. min:n     trimmed value must be at least n characters
//
// The value is trimmed before any rule sees it.
//
// # Rule Strings
//
// Fields can also be declared with pipe-separated rule strings:
//
//	f, err := validation.ParseRules("phone", "required|tel|min:10")
//
// Available rules: required, text, email, tel, min:n.
package validation
