package page

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// probeTimeoutMs bounds element reads so a missing node degrades to a
// strategy miss instead of stalling the whole extraction.
const probeTimeoutMs = 2000

// PlaywrightHandle adapts a playwright page to the Handle capability.
type PlaywrightHandle struct {
	page playwright.Page
}

var _ Handle = (*PlaywrightHandle)(nil)

func NewPlaywrightHandle(p playwright.Page) *PlaywrightHandle {
	return &PlaywrightHandle{page: p}
}

func (h *PlaywrightHandle) Navigate(url string, signal WaitSignal, timeout time.Duration) error {
	_, err := h.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: loadState(signal),
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	return err
}

func (h *PlaywrightHandle) Reload(signal WaitSignal, timeout time.Duration) error {
	_, err := h.page.Reload(playwright.PageReloadOptions{
		WaitUntil: loadState(signal),
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	return err
}

func (h *PlaywrightHandle) WaitForSignal(signal WaitSignal, timeout time.Duration) error {
	state := waitLoadState(signal)
	return h.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   state,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (h *PlaywrightHandle) Pause(d time.Duration) {
	h.page.WaitForTimeout(float64(d.Milliseconds()))
}

func (h *PlaywrightHandle) ScrollToBottom() error {
	_, err := h.page.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`)
	return err
}

func (h *PlaywrightHandle) CurrentURL() string {
	return h.page.URL()
}

func (h *PlaywrightHandle) Content() (string, error) {
	return h.page.Content()
}

func (h *PlaywrightHandle) Find(selector string) Elements {
	return &pwElements{locator: h.page.Locator(selector)}
}

func (h *PlaywrightHandle) FindByText(text string) Elements {
	return &pwElements{locator: h.page.GetByText(text)}
}

type pwElements struct {
	locator playwright.Locator
}

func (e *pwElements) Count() int {
	n, err := e.locator.Count()
	if err != nil {
		return 0
	}
	return n
}

func (e *pwElements) Nth(i int) Element {
	return &pwElement{locator: e.locator.Nth(i)}
}

func (e *pwElements) First() Element {
	return &pwElement{locator: e.locator.First()}
}

type pwElement struct {
	locator playwright.Locator
}

func (e *pwElement) Text() (string, error) {
	return e.locator.InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(probeTimeoutMs),
	})
}

func (e *pwElement) Attribute(name string) (string, error) {
	return e.locator.GetAttribute(name, playwright.LocatorGetAttributeOptions{
		Timeout: playwright.Float(probeTimeoutMs),
	})
}

func (e *pwElement) Click(timeout time.Duration) error {
	return e.locator.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (e *pwElement) Find(selector string) Elements {
	return &pwElements{locator: e.locator.Locator(selector)}
}

func (e *pwElement) Parent() Element {
	return &pwElement{locator: e.locator.Locator("xpath=..")}
}

func loadState(signal WaitSignal) *playwright.WaitUntilState {
	if signal == SignalNetworkIdle {
		return playwright.WaitUntilStateNetworkidle
	}
	return playwright.WaitUntilStateDomcontentloaded
}

func waitLoadState(signal WaitSignal) *playwright.LoadState {
	if signal == SignalNetworkIdle {
		return playwright.LoadStateNetworkidle
	}
	return playwright.LoadStateDomcontentloaded
}
