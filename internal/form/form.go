// Package form extracts form and field structure from rendered HTML. It
// works on a page's HTML snapshot rather than live element handles, so a
// broken field can never disturb the browser session.
package form

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxLabelLen = 200

// Option is one entry of a select field, in document order.
type Option struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// Field describes a single input, textarea or select inside a form.
type Field struct {
	Tag         string   `json:"tag"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	Placeholder string   `json:"placeholder"`
	Label       string   `json:"label"`
	Required    bool     `json:"required"`
	Options     []Option `json:"options,omitempty"`
}

// Descriptor describes one form on a page, in document order.
type Descriptor struct {
	FormIndex int     `json:"form_index"`
	Action    string  `json:"action"`
	Method    string  `json:"method"`
	Fields    []Field `json:"fields"`
}

// Extract parses html and returns a descriptor per <form>. base resolves
// relative action URLs; it may be empty. Parse errors on the document fail
// the whole extraction, anything at field level only skips that field.
func Extract(html, base string) ([]Descriptor, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	var baseURL *url.URL
	if base != "" {
		baseURL, _ = url.Parse(base)
	}

	var forms []Descriptor
	doc.Find("form").Each(func(idx int, f *goquery.Selection) {
		action := strings.TrimSpace(f.AttrOr("action", ""))
		if baseURL != nil && action != "" {
			if ref, err := url.Parse(action); err == nil {
				action = baseURL.ResolveReference(ref).String()
			}
		}

		method := strings.ToUpper(strings.TrimSpace(f.AttrOr("method", "")))
		if method == "" {
			method = "GET"
		}

		d := Descriptor{FormIndex: idx, Action: action, Method: method}
		f.Find("input, textarea, select").Each(func(_ int, el *goquery.Selection) {
			if fld, ok := extractField(doc, el); ok {
				d.Fields = append(d.Fields, fld)
			}
		})
		forms = append(forms, d)
	})

	return forms, nil
}

func extractField(doc *goquery.Document, el *goquery.Selection) (Field, bool) {
	if el.Length() == 0 || el.Nodes[0].Data == "" {
		return Field{}, false
	}
	tag := strings.ToLower(el.Nodes[0].Data)

	typ := el.AttrOr("type", "")
	if typ == "" {
		// an untyped input behaves as a text field, other tags report
		// themselves
		if tag == "input" {
			typ = "text"
		} else {
			typ = tag
		}
	}

	fld := Field{
		Tag:         tag,
		Type:        typ,
		Name:        el.AttrOr("name", ""),
		ID:          el.AttrOr("id", ""),
		Placeholder: el.AttrOr("placeholder", ""),
		Label:       fieldLabel(doc, el),
	}
	_, fld.Required = el.Attr("required")

	if tag == "select" {
		el.Find("option").Each(func(_ int, o *goquery.Selection) {
			text := strings.TrimSpace(o.Text())
			value, ok := o.Attr("value")
			if !ok {
				// option without a value attribute submits its text
				value = text
			}
			fld.Options = append(fld.Options, Option{Value: value, Text: text})
		})
	}

	return fld, true
}

// fieldLabel resolves a field's label: an explicit label-for binding first,
// then the nearest ancestor label. Trimmed and capped at 200 characters.
func fieldLabel(doc *goquery.Document, el *goquery.Selection) string {
	label := ""
	if id := el.AttrOr("id", ""); id != "" {
		sel := fmt.Sprintf("label[for=%q]", id)
		if bound := doc.Find(sel).First(); bound.Length() > 0 {
			label = bound.Text()
		}
	}
	if label == "" {
		if anc := el.Closest("label"); anc.Length() > 0 {
			label = anc.Text()
		}
	}
	label = strings.TrimSpace(label)
	if r := []rune(label); len(r) > maxLabelLen {
		label = string(r[:maxLabelLen])
	}
	return label
}
