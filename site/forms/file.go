package forms

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/km-arc/nexus-site/framework/http/validation"
)

// formsFile is the on-disk layout of a forms file:
//
//	forms:
//	  - name: newsletter
//	    submit: Subscribe
//	    fields:
//	      - name: email
//	        rules: required|email
//	      - name: phone
//	        type: tel
//	        minlength: 12
//	    rules:
//	      company: min:2
//
// The TOML layout mirrors it with [[forms]] and [[forms.fields]] tables.
type formsFile struct {
	Forms []fileForm `yaml:"forms" toml:"forms"`
}

type fileForm struct {
	Name   string           `yaml:"name" toml:"name"`
	Submit string           `yaml:"submit" toml:"submit"`
	Fields []fileField      `yaml:"fields" toml:"fields"`
	Rules  validation.Rules `yaml:"rules" toml:"rules"`
}

// fileField declares a field with explicit keys, or with Rules which then
// replaces them entirely.
type fileField struct {
	Name      string `yaml:"name" toml:"name"`
	Type      string `yaml:"type" toml:"type"`
	Required  bool   `yaml:"required" toml:"required"`
	MinLength int    `yaml:"minlength" toml:"minlength"`
	Rules     string `yaml:"rules" toml:"rules"`
}

// ErrUnsupportedFormat is returned by LoadFile for an unknown file extension.
var ErrUnsupportedFormat = errors.New("forms: unsupported file format")

// LoadFile reads form declarations from path. The format is chosen by the
// extension: .yaml, .yml or .toml.
func LoadFile(path string) ([]Form, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("forms: open %s: %w", path, err)
	}
	defer f.Close()

	var out []Form
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		out, err = LoadYAML(f)
	case ".toml":
		out, err = LoadTOML(f)
	default:
		return nil, fmt.Errorf("%w: %s (supported: yaml, toml)", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// LoadYAML decodes form declarations from r. An empty document yields no forms.
func LoadYAML(r io.Reader) ([]Form, error) {
	var doc formsFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("forms: decode yaml: %w", err)
	}
	return doc.forms()
}

// LoadTOML decodes form declarations in the TOML layout.
func LoadTOML(r io.Reader) ([]Form, error) {
	var doc formsFile
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&doc); err != nil {
		return nil, fmt.Errorf("forms: decode toml: %w", err)
	}
	return doc.forms()
}

func (doc formsFile) forms() ([]Form, error) {
	out := make([]Form, 0, len(doc.Forms))
	for _, ff := range doc.Forms {
		f, err := ff.form()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (ff fileForm) form() (Form, error) {
	f := Form{Name: ff.Name, SubmitLabel: ff.Submit}
	if f.SubmitLabel == "" {
		f.SubmitLabel = DefaultSubmitLabel
	}

	for _, ffd := range ff.Fields {
		fd, err := ffd.field()
		if err != nil {
			return Form{}, fmt.Errorf("%w: %s: %w", ErrInvalidDefinition, ff.Name, err)
		}
		f.Fields = append(f.Fields, fd)
	}

	extra, err := ff.Rules.Fields()
	if err != nil {
		return Form{}, fmt.Errorf("%w: %s: %w", ErrInvalidDefinition, ff.Name, err)
	}
	f.Fields = append(f.Fields, extra...)

	if err := f.check(); err != nil {
		return Form{}, err
	}
	return f, nil
}

func (ffd fileField) field() (validation.Field, error) {
	if ffd.Rules != "" {
		return validation.ParseRules(ffd.Name, ffd.Rules)
	}
	if ffd.MinLength < 0 {
		return validation.Field{}, fmt.Errorf("%s: negative minlength", ffd.Name)
	}
	return validation.Field{
		Name:      ffd.Name,
		Type:      validation.ParseType(ffd.Type),
		Required:  ffd.Required,
		MinLength: ffd.MinLength,
	}, nil
}
