package forms

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/km-arc/nexus-site/framework/http/validation"
)

// Markup contract for validated forms.
const (
	attrValidate = "data-validate"
	classControl = "form-control"
)

// LoadHTML scans the pages of fsys matching patterns and returns every form
// that opts in with a data-validate attribute, in page order.
//
// A form is named by its id, then its name attribute, then "<page>-<n>".
// Its fields are the .form-control inputs, textareas and selects carrying a
// name (or id); required, minlength and type attributes declare the rules.
// The text of the form's button[type=submit] is the submit label.
func LoadHTML(fsys fs.FS, patterns ...string) ([]Form, error) {
	var pages []string
	seen := make(map[string]bool)
	for _, p := range patterns {
		matches, err := fs.Glob(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("forms: glob %q: %w", p, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				pages = append(pages, m)
			}
		}
	}
	sort.Strings(pages)

	var out []Form
	for _, page := range pages {
		forms, err := loadPage(fsys, page)
		if err != nil {
			return nil, err
		}
		out = append(out, forms...)
	}
	return out, nil
}

func loadPage(fsys fs.FS, page string) ([]Form, error) {
	f, err := fsys.Open(page)
	if err != nil {
		return nil, fmt.Errorf("forms: open %s: %w", page, err)
	}
	defer f.Close()

	forms, err := parseHTML(f, strings.TrimSuffix(path.Base(page), path.Ext(page)))
	if err != nil {
		return nil, fmt.Errorf("forms: parse %s: %w", page, err)
	}
	return forms, nil
}

func parseHTML(r io.Reader, stem string) ([]Form, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var out []Form
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Form {
			if _, ok := attr(n, attrValidate); ok {
				out = append(out, formFromNode(n, fmt.Sprintf("%s-%d", stem, len(out)+1)))
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}

func formFromNode(n *html.Node, fallback string) Form {
	f := Form{
		Name:        firstAttr(n, fallback, "id", "name"),
		SubmitLabel: DefaultSubmitLabel,
	}
	labelled := false

	var walk func(c *html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode {
			switch c.DataAtom {
			case atom.Input, atom.Textarea, atom.Select:
				if fd, ok := fieldFromNode(c); ok {
					f.Fields = append(f.Fields, fd)
				}
			case atom.Button:
				if t, _ := attr(c, "type"); !labelled && strings.EqualFold(t, "submit") {
					if label := strings.Join(strings.Fields(textContent(c)), " "); label != "" {
						f.SubmitLabel = label
					}
					labelled = true
				}
			}
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return f
}

func fieldFromNode(n *html.Node) (validation.Field, bool) {
	if !hasClass(n, classControl) {
		return validation.Field{}, false
	}
	name := firstAttr(n, "", "name", "id")
	if name == "" {
		return validation.Field{}, false
	}

	typ := n.Data
	if n.DataAtom == atom.Input {
		typ, _ = attr(n, "type")
	}

	fd := validation.Field{Name: name, Type: validation.ParseType(typ)}
	_, fd.Required = attr(n, "required")
	if v, ok := attr(n, "minlength"); ok {
		// Unparseable values declare no constraint, as in the browser.
		if minLen, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && minLen > 0 {
			fd.MinLength = minLen
		}
	}
	return fd, true
}

// ── node helpers ─────────────────────────────────────────────────────────────

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func firstAttr(n *html.Node, fallback string, keys ...string) string {
	for _, k := range keys {
		if v, _ := attr(n, k); strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return fallback
}

func hasClass(n *html.Node, class string) bool {
	v, _ := attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	walk(n)
	return b.String()
}
