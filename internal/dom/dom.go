// Package dom narrows a rendered page to the handful of element capabilities
// candidate discovery needs, so the discovery rules stay pure functions and
// tests can run against in-memory fakes.
package dom

// Element is a live interactive element on the current page.
type Element interface {
	// Text returns the element's visible text. An error means the element
	// went stale; callers skip it.
	Text() (string, error)
	// Attr returns the raw attribute value and whether the attribute exists.
	Attr(name string) (string, bool)
	// AncestorAnchor returns the nearest enclosing <a>, if any.
	AncestorAnchor() (Element, bool)
	// Click dispatches a real click on the element.
	Click() error
}

// Page is the read side of a rendered document.
type Page interface {
	// URL is the document's current address, used to resolve relative hrefs.
	URL() string
	// ElementsByTag returns all elements with the given tag in document order.
	ElementsByTag(tag string) []Element
}
