package scan

import "github.com/drivehoanmyareum-rgb/formscout/internal/form"

// Result is the persisted summary of one site scan, written to meta.json and
// aggregated into all_meta.json at the end of the run.
type Result struct {
	URL                   string   `json:"url"`
	FoundForms            []string `json:"found_forms"`
	Notes                 []string `json:"notes"`
	CandidatesFound       int      `json:"candidates_found"`
	CandidatesFollowed    int      `json:"candidates_followed"`
	CandidatesFollowLimit int      `json:"candidates_follow_limit"`
}

// SiteForms pairs a discovered form page URL with its extracted forms, one
// entry per URL in discovery order (form_meta.json).
type SiteForms struct {
	URL   string            `json:"url"`
	Forms []form.Descriptor `json:"forms"`
}
