package dom

import (
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// RodPage adapts a rod page to Page.
type RodPage struct {
	page *rod.Page
}

func NewRodPage(page *rod.Page) *RodPage {
	return &RodPage{page: page}
}

func (p *RodPage) URL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (p *RodPage) ElementsByTag(tag string) []Element {
	els, err := p.page.Elements(tag)
	if err != nil {
		return nil
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &RodElement{el: el})
	}
	return out
}

// RodElement adapts a rod element handle to Element.
type RodElement struct {
	el *rod.Element
}

func (e *RodElement) Text() (string, error) {
	return e.el.Text()
}

func (e *RodElement) Attr(name string) (string, bool) {
	v, err := e.el.Attribute(name)
	if err != nil || v == nil {
		return "", false
	}
	return *v, true
}

func (e *RodElement) AncestorAnchor() (Element, bool) {
	a, err := e.el.ElementX("./ancestor::a[1]")
	if err != nil {
		return nil, false
	}
	return &RodElement{el: a}, true
}

func (e *RodElement) Click() error {
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}
