// Package collector finds "submit-like" elements on a rendered page: anchors,
// buttons, and generic containers whose text, href or attributes suggest they
// lead to a submission or add-listing form.
package collector

import (
	"net/url"
	"strings"

	"github.com/drivehoanmyareum-rgb/formscout/internal/dom"
	"github.com/drivehoanmyareum-rgb/formscout/internal/keyword"
)

// Target says how a candidate is followed: direct navigation or a click.
type Target interface {
	target()
}

// Href is a candidate reachable by navigating to an absolute URL.
type Href struct {
	URL string
}

// Click is a candidate that needs a simulated click on a live element.
type Click struct {
	Element dom.Element
}

func (Href) target()  {}
func (Click) target() {}

// Candidate is one submit-like element found during a collection pass. The
// element handle inside a Click target is only valid until the next
// navigation.
type Candidate struct {
	Text   string
	Target Target
}

// key is the deduplication identity: resolved URL for Href targets,
// "CLICK@"+text for Click targets, qualified by the follow method.
func (c Candidate) key() string {
	switch t := c.Target.(type) {
	case Href:
		return t.URL + "|href"
	default:
		return "CLICK@" + c.Text + "|click"
	}
}

// Collect scans the page and returns deduplicated candidates. Groups run in
// fixed priority: anchors, buttons, spans, divs, document order within each.
// The page is not modified.
func Collect(page dom.Page) []Candidate {
	base, err := url.Parse(page.URL())
	if err != nil {
		base = nil
	}

	var found []Candidate

	for _, a := range page.ElementsByTag("a") {
		txt, err := a.Text()
		if err != nil {
			continue
		}
		txt = strings.TrimSpace(txt)
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if !keyword.Match(txt, keyword.TextKeywords) && !keyword.Match(href, keyword.HrefKeywords) {
			continue
		}
		found = append(found, anchorCandidate(base, a, txt, href))
	}

	for _, b := range page.ElementsByTag("button") {
		txt, err := b.Text()
		if err != nil {
			continue
		}
		txt = strings.TrimSpace(txt)
		if !keyword.Match(txt, keyword.TextKeywords) {
			continue
		}
		found = append(found, Candidate{Text: txt, Target: Click{Element: b}})
	}

	for _, tag := range []string{"span", "div"} {
		for _, e := range page.ElementsByTag(tag) {
			if cand, ok := containerCandidate(base, e); ok {
				found = append(found, cand)
			}
		}
	}

	return dedupe(found)
}

// anchorCandidate builds a candidate from an anchor. Script-scheme and empty
// hrefs cannot be navigated, so those fall back to clicking the anchor.
func anchorCandidate(base *url.URL, a dom.Element, txt, href string) Candidate {
	if href == "" || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return Candidate{Text: txt, Target: Click{Element: a}}
	}
	abs, ok := resolve(base, href)
	if !ok {
		return Candidate{Text: txt, Target: Click{Element: a}}
	}
	return Candidate{Text: txt, Target: Href{URL: abs}}
}

// containerCandidate applies the span/div rules in priority order: a
// data-href attribute wins, then an explicit button role or inline click
// handler, then matching text under an ancestor anchor.
func containerCandidate(base *url.URL, e dom.Element) (Candidate, bool) {
	txt, err := e.Text()
	if err != nil {
		return Candidate{}, false
	}
	txt = strings.TrimSpace(txt)

	if dataHref, ok := e.Attr("data-href"); ok && strings.TrimSpace(dataHref) != "" {
		abs, ok := resolve(base, strings.TrimSpace(dataHref))
		if !ok {
			return Candidate{}, false
		}
		return Candidate{Text: txt, Target: Href{URL: abs}}, true
	}

	role, _ := e.Attr("role")
	onclick, _ := e.Attr("onclick")
	if strings.EqualFold(strings.TrimSpace(role), "button") || onclick != "" {
		return Candidate{Text: txt, Target: Click{Element: e}}, true
	}

	if keyword.Match(txt, keyword.TextKeywords) {
		if a, ok := e.AncestorAnchor(); ok {
			href, _ := a.Attr("href")
			return anchorCandidate(base, a, txt, strings.TrimSpace(href)), true
		}
	}

	return Candidate{}, false
}

func resolve(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if base == nil {
		return ref.String(), true
	}
	return base.ResolveReference(ref).String(), true
}

// dedupe keeps the first occurrence per key and drops candidates that carry
// nothing to act on.
func dedupe(cands []Candidate) []Candidate {
	seen := make(map[string]bool, len(cands))
	var out []Candidate
	for _, c := range cands {
		if !meaningful(c) {
			continue
		}
		k := c.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	return out
}

func meaningful(c Candidate) bool {
	switch t := c.Target.(type) {
	case Href:
		return t.URL != ""
	case Click:
		return t.Element != nil || c.Text != ""
	default:
		return false
	}
}
