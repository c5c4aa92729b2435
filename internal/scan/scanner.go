// Package scan drives the per-site workflow: open the main page, check it
// for a form, collect submit candidates, follow each one hop, fall back to
// conventional paths, and persist whatever was found.
package scan

import (
	"fmt"
	"net/url"
	"time"

	"github.com/drivehoanmyareum-rgb/formscout/internal/artifact"
	"github.com/drivehoanmyareum-rgb/formscout/internal/browser"
	"github.com/drivehoanmyareum-rgb/formscout/internal/collector"
	"github.com/drivehoanmyareum-rgb/formscout/internal/dom"
	"github.com/drivehoanmyareum-rgb/formscout/internal/form"
)

// fallbackSuffixes are tried in order against a followed candidate's
// resulting URL when that page has no form. First hit wins.
var fallbackSuffixes = []string{"/submit.php", "/add", "/suggest"}

// Session is the browser surface the scanner needs. *browser.Browser
// implements it; tests drive the scanner with fakes.
type Session interface {
	Open(url string, timeout time.Duration) bool
	WaitReady(timeout time.Duration) error
	CurrentURL() string
	HTML() string
	Screenshot() ([]byte, error)
	HasForm() bool
	DOM() dom.Page
}

// Options configures a Scanner.
type Options struct {
	// Timeout bounds each navigation.
	Timeout time.Duration
	// MaxCandidates caps how many candidates are followed per site.
	// 0 means unlimited.
	MaxCandidates int
	// Log receives progress lines; nil disables them.
	Log func(format string, args ...any)
}

// Scanner runs site scans over a shared browser session.
type Scanner struct {
	session Session
	store   *artifact.Store
	opts    Options
}

func New(session Session, store *artifact.Store, opts Options) *Scanner {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &Scanner{session: session, store: store, opts: opts}
}

func (s *Scanner) logf(format string, args ...any) {
	if s.opts.Log != nil {
		s.opts.Log(format, args...)
	}
}

// ScanSite scans one site and persists its artifacts. It always returns a
// result, partial on early aborts.
func (s *Scanner) ScanSite(siteURL string) Result {
	res := Result{URL: siteURL, FoundForms: []string{}, Notes: []string{}}

	dir, err := s.store.SiteDir(siteURL)
	if err != nil {
		s.logf("[%s] %v", siteURL, err)
		res.Notes = append(res.Notes, "output_dir_error:"+truncate(err.Error(), 120))
		return res
	}

	s.logf("[%s] opening main page", siteURL)
	if !s.session.Open(siteURL, s.opts.Timeout) {
		res.Notes = append(res.Notes, "cannot_open_main_page")
		_ = dir.WriteJSON("meta.json", res)
		_ = dir.WriteNote("note.txt", "could not open main page")
		return res
	}

	if browser.ContainsChallenge(s.session.HTML()) {
		res.Notes = append(res.Notes, "captcha_on_root")
		dir.Snapshot("captcha_root", s.session.HTML(), s.screenshot())
		_ = dir.WriteJSON("meta.json", res)
		return res
	}

	var links []string
	formsByURL := make(map[string][]form.Descriptor)

	if s.session.HasForm() {
		s.logf("[%s] form on main page", siteURL)
		s.recordForm(dir, "form_root", &links, formsByURL)
	}

	cands := collector.Collect(s.session.DOM())
	res.CandidatesFound = len(cands)
	if s.opts.MaxCandidates > 0 && len(cands) > s.opts.MaxCandidates {
		cands = cands[:s.opts.MaxCandidates]
		s.logf("[%s] found %d candidates, following first %d", siteURL, res.CandidatesFound, len(cands))
	} else {
		s.logf("[%s] found %d candidates", siteURL, res.CandidatesFound)
	}
	res.CandidatesFollowLimit = len(cands)

	for i, cand := range cands {
		s.followCandidate(dir, &res, i+1, len(cands), cand, &links, formsByURL)
	}

	if len(links) > 0 {
		res.FoundForms = links
		_ = dir.WriteJSON("form_links.json", links)
		meta := make([]SiteForms, 0, len(links))
		for _, u := range links {
			meta = append(meta, SiteForms{URL: u, Forms: formsByURL[u]})
		}
		_ = dir.WriteJSON("form_meta.json", meta)
	} else {
		dir.Snapshot("no_form", s.session.HTML(), s.screenshot())
		res.Notes = append(res.Notes, "no_form_found")
	}

	_ = dir.WriteJSON("meta.json", res)
	return res
}

// followCandidate is one hop: navigate or click, challenge check, form
// check, then fallback path guessing. Every fault is converted to a note or
// a skip; a panic from the driver layer never aborts the site scan.
func (s *Scanner) followCandidate(dir *artifact.SiteDir, res *Result, idx, total int, cand collector.Candidate, links *[]string, formsByURL map[string][]form.Descriptor) {
	defer func() {
		if r := recover(); r != nil {
			res.Notes = append(res.Notes, "candidate_error:"+truncate(fmt.Sprint(r), 120))
		}
	}()

	res.CandidatesFollowed++

	switch t := cand.Target.(type) {
	case collector.Href:
		s.logf("[%s] [%d/%d] GET %s", res.URL, idx, total, t.URL)
		if !s.session.Open(t.URL, s.opts.Timeout) {
			res.Notes = append(res.Notes, "cannot_open_candidate:"+t.URL)
			return
		}
	case collector.Click:
		s.logf("[%s] [%d/%d] CLICK %q", res.URL, idx, total, truncate(cand.Text, 60))
		if err := t.Element.Click(); err != nil {
			res.Notes = append(res.Notes, "click_failed_candidate")
			return
		}
		// a click whose page never settles counts as a failed click
		if err := s.session.WaitReady(s.opts.Timeout); err != nil {
			res.Notes = append(res.Notes, "click_failed_candidate")
			return
		}
	}

	if browser.ContainsChallenge(s.session.HTML()) {
		res.Notes = append(res.Notes, "captcha_on_candidate")
		dir.Snapshot(fmt.Sprintf("captcha_candidate_%d", idx), s.session.HTML(), s.screenshot())
		return
	}

	if s.session.HasForm() {
		s.recordForm(dir, fmt.Sprintf("form_candidate_%d", idx), links, formsByURL)
		return
	}

	current := s.session.CurrentURL()
	for _, suffix := range fallbackSuffixes {
		fb := joinURL(current, suffix)
		s.logf("[%s] [%d/%d] fallback %s", res.URL, idx, total, fb)
		if s.session.Open(fb, s.opts.Timeout) && s.session.HasForm() {
			s.recordForm(dir, fmt.Sprintf("form_fallback_%d", idx), links, formsByURL)
			break
		}
	}
}

// recordForm extracts the current page's forms under its resolved URL,
// unless that URL was already recorded, and promotes the first capture to
// the canonical page artifacts.
func (s *Scanner) recordForm(dir *artifact.SiteDir, prefix string, links *[]string, formsByURL map[string][]form.Descriptor) {
	u := s.session.CurrentURL()
	for _, known := range *links {
		if known == u {
			return
		}
	}

	html := s.session.HTML()
	descs, err := form.Extract(html, u)
	if err != nil {
		s.logf("extract forms at %s: %v", u, err)
		return
	}

	s.logf("  form at %s (%d forms)", u, len(descs))
	*links = append(*links, u)
	formsByURL[u] = descs

	snap := dir.Snapshot(prefix, html, s.screenshot())
	dir.PromoteCanonical(snap)
}

func (s *Scanner) screenshot() []byte {
	shot, err := s.session.Screenshot()
	if err != nil {
		return nil
	}
	return shot
}

func joinURL(base, suffix string) string {
	b, err := url.Parse(base)
	if err != nil {
		return suffix
	}
	ref, err := url.Parse(suffix)
	if err != nil {
		return base
	}
	return b.ResolveReference(ref).String()
}

func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}
