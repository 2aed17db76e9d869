// Package pagetest provides deterministic in-memory implementations of the
// page.Handle capability for tests. Selectors are matched by exact string
// against registered child sets rather than by a CSS engine: tests wire the
// DOM shape they need.
package pagetest

import (
	"errors"
	"time"

	"github.com/bala-nullpointer/amznbsscraper/internal/page"
)

var ErrNotFound = errors.New("pagetest: element not found")

var (
	_ page.Handle   = (*Handle)(nil)
	_ page.Element  = (*Element)(nil)
	_ page.Elements = (*Elements)(nil)
)

// Element is a fake DOM node. Kids maps a selector string to the elements
// that selector yields within this node's subtree.
type Element struct {
	TextValue string
	TextErr   error
	Attrs     map[string]string
	Kids      map[string][]*Element
	ParentEl  *Element
	ClickErr  error
	Clicks    int
}

func (e *Element) Text() (string, error) {
	if e.TextErr != nil {
		return "", e.TextErr
	}
	return e.TextValue, nil
}

func (e *Element) Attribute(name string) (string, error) {
	if v, ok := e.Attrs[name]; ok {
		return v, nil
	}
	return "", ErrNotFound
}

func (e *Element) Click(time.Duration) error {
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.Clicks++
	return nil
}

func (e *Element) Find(selector string) page.Elements {
	return &Elements{List: e.Kids[selector]}
}

func (e *Element) Parent() page.Element {
	if e.ParentEl == nil {
		return &Element{TextErr: ErrNotFound}
	}
	return e.ParentEl
}

// Add registers children under a selector and returns the element for
// chained setup.
func (e *Element) Add(selector string, kids ...*Element) *Element {
	if e.Kids == nil {
		e.Kids = make(map[string][]*Element)
	}
	e.Kids[selector] = append(e.Kids[selector], kids...)
	return e
}

// Elements is a fake element collection.
type Elements struct {
	List []*Element
}

func (c *Elements) Count() int { return len(c.List) }

func (c *Elements) Nth(i int) page.Element {
	if i < 0 || i >= len(c.List) {
		return &Element{TextErr: ErrNotFound, ClickErr: ErrNotFound}
	}
	return c.List[i]
}

func (c *Elements) First() page.Element { return c.Nth(0) }

// Handle is a fake page. Root holds the selector-addressable DOM; hooks let
// tests script navigation, waits, and per-scroll content growth.
type Handle struct {
	URLValue    string
	HTMLContent string
	ContentErr  error
	Root        *Element

	// FindHook overrides Find entirely when set; used to model content that
	// changes across scroll or navigation.
	FindHook func(selector string) page.Elements
	// NavigateHook intercepts Navigate; when nil the fake just records the URL.
	NavigateHook func(url string, signal page.WaitSignal) error
	// WaitErr maps a signal to the error WaitForSignal reports for it.
	WaitErr map[page.WaitSignal]error
	// ByText maps exact visible text to elements for FindByText.
	ByText map[string][]*Element

	ReloadErr error
	Scrolls   int
	Reloads   int
	Paused    time.Duration
	Navigated []string
}

func NewHandle() *Handle {
	return &Handle{Root: &Element{}}
}

func (h *Handle) Navigate(url string, signal page.WaitSignal, _ time.Duration) error {
	if h.NavigateHook != nil {
		if err := h.NavigateHook(url, signal); err != nil {
			return err
		}
	}
	h.Navigated = append(h.Navigated, url)
	h.URLValue = url
	return nil
}

func (h *Handle) Reload(page.WaitSignal, time.Duration) error {
	h.Reloads++
	return h.ReloadErr
}

func (h *Handle) WaitForSignal(signal page.WaitSignal, _ time.Duration) error {
	return h.WaitErr[signal]
}

func (h *Handle) Pause(d time.Duration) { h.Paused += d }

func (h *Handle) ScrollToBottom() error {
	h.Scrolls++
	return nil
}

func (h *Handle) CurrentURL() string { return h.URLValue }

func (h *Handle) Content() (string, error) {
	if h.ContentErr != nil {
		return "", h.ContentErr
	}
	return h.HTMLContent, nil
}

func (h *Handle) Find(selector string) page.Elements {
	if h.FindHook != nil {
		return h.FindHook(selector)
	}
	return h.Root.Find(selector)
}

func (h *Handle) FindByText(text string) page.Elements {
	return &Elements{List: h.ByText[text]}
}
