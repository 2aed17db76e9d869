// Package page defines the narrow page-handle capability the extraction core
// needs from a rendering engine. The production implementation wraps
// playwright; tests inject deterministic fakes.
package page

import (
	"time"
)

// WaitSignal names a page readiness signal.
type WaitSignal string

const (
	SignalNetworkIdle WaitSignal = "networkidle"
	SignalDOMReady    WaitSignal = "domcontentloaded"
)

// Handle is a live, script-rendered page. Any call may fail with a timeout or
// not-found condition; callers treat those as recoverable.
type Handle interface {
	// Navigate loads a URL and waits for the given readiness signal.
	Navigate(url string, signal WaitSignal, timeout time.Duration) error
	// Reload re-navigates to the current URL.
	Reload(signal WaitSignal, timeout time.Duration) error
	// WaitForSignal blocks until the page reaches the given readiness signal.
	WaitForSignal(signal WaitSignal, timeout time.Duration) error
	// Pause sleeps for a fixed duration within the page's clock.
	Pause(d time.Duration)
	// ScrollToBottom scrolls the viewport to the document bottom.
	ScrollToBottom() error
	// CurrentURL returns the page's current address.
	CurrentURL() string
	// Content returns the rendered HTML snapshot.
	Content() (string, error)
	// Find returns the elements matching a CSS selector.
	Find(selector string) Elements
	// FindByText returns the elements whose visible text matches exactly.
	FindByText(text string) Elements
}

// Elements is an ordered element collection.
type Elements interface {
	Count() int
	Nth(i int) Element
	First() Element
}

// Element is one DOM node. Find scopes a selector to the element's subtree,
// which is what makes per-container extraction possible.
type Element interface {
	Text() (string, error)
	Attribute(name string) (string, error)
	Click(timeout time.Duration) error
	Find(selector string) Elements
	Parent() Element
}
