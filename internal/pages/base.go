// Package pages holds the page objects for the employee manager. Every page embeds
// Base, which wraps the browser primitives behind bounded waits. Page objects keep no
// state besides the page handle and re-query the DOM on every call.
package pages

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gotrs-io/emsuite/internal/browser"
	"github.com/gotrs-io/emsuite/internal/locator"
	"github.com/gotrs-io/emsuite/internal/logging"
	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// navMarker is set on window before a navigating click; a fresh document lacks it.
const navMarker = "__emsuiteNav"

// Timeouts bounds the waits a page performs.
type Timeouts struct {
	Default  time.Duration // element waits and actions
	Presence time.Duration // IsPresent
	Probe    time.Duration // quick existence checks (error labels, empty-table rows)
}

// DefaultTimeouts are 10s for waits, 5s for presence checks and 1s for probes.
var DefaultTimeouts = Timeouts{
	Default:  10 * time.Second,
	Presence: 5 * time.Second,
	Probe:    time.Second,
}

// Option adjusts a single call.
type Option func(*callOptions)

type callOptions struct {
	timeout time.Duration
}

// Timeout overrides the wait bound of one call.
func Timeout(d time.Duration) Option {
	return func(o *callOptions) { o.timeout = d }
}

// Base is the capability set shared by all page objects.
type Base struct {
	page     playwright.Page
	baseURL  string
	timeouts Timeouts
	log      logrus.FieldLogger
}

// NewBase binds a page to baseURL.
func NewBase(page playwright.Page, baseURL string, timeouts Timeouts, log logrus.FieldLogger) Base {
	return Base{
		page:     page,
		baseURL:  strings.TrimRight(baseURL, "/"),
		timeouts: timeouts,
		log:      logging.OrDiscard(log),
	}
}

// FromSession builds a Base from a browser session and its configuration.
func FromSession(s *browser.Session) Base {
	t := s.Config.Timeouts
	return NewBase(s.Page, s.Config.BaseURL, Timeouts{
		Default:  t.Default,
		Presence: t.Presence,
		Probe:    t.Probe,
	}, s.Log)
}

// Page exposes the underlying engine page for assertions the page objects do not cover.
func (b Base) Page() playwright.Page {
	return b.page
}

// BaseURL is the application root without trailing slash.
func (b Base) BaseURL() string {
	return b.baseURL
}

func (b Base) resolve(def time.Duration, opts []Option) time.Duration {
	o := callOptions{timeout: def}
	for _, opt := range opts {
		opt(&o)
	}
	return o.timeout
}

func ms(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

func (b Base) wrap(op string, loc locator.Locator, timeout time.Duration, err error) error {
	if errors.Is(err, playwright.ErrTimeout) {
		return &TimeoutError{Op: op, Locator: loc, Timeout: timeout, Cause: err}
	}
	return fmt.Errorf("%s %s: %w", op, loc, err)
}

func (b Base) trace(op string, loc locator.Locator, timeout time.Duration) {
	b.log.WithFields(logrus.Fields{
		"op":      op,
		"locator": loc.String(),
		"timeout": timeout,
	}).Debug("page action")
}

func (b Base) locate(loc locator.Locator) playwright.Locator {
	return b.page.Locator(loc.Selector())
}

func (b Base) waitFor(op string, loc locator.Locator, state *playwright.WaitForSelectorState, timeout time.Duration) (playwright.Locator, error) {
	b.trace(op, loc, timeout)
	el := b.locate(loc).First()
	if err := el.WaitFor(playwright.LocatorWaitForOptions{
		State:   state,
		Timeout: ms(timeout),
	}); err != nil {
		return nil, b.wrap(op, loc, timeout, err)
	}
	return el, nil
}

// Find waits until an element matching loc is attached to the DOM.
func (b Base) Find(loc locator.Locator, opts ...Option) (playwright.Locator, error) {
	return b.waitFor("find", loc, playwright.WaitForSelectorStateAttached, b.resolve(b.timeouts.Default, opts))
}

// FindAll waits for at least one match and returns every match.
func (b Base) FindAll(loc locator.Locator, opts ...Option) ([]playwright.Locator, error) {
	if _, err := b.waitFor("find-all", loc, playwright.WaitForSelectorStateAttached, b.resolve(b.timeouts.Default, opts)); err != nil {
		return nil, err
	}
	all, err := b.locate(loc).All()
	if err != nil {
		return nil, fmt.Errorf("find-all %s: %w", loc, err)
	}
	return all, nil
}

// Count returns how many elements match loc right now, without waiting.
func (b Base) Count(loc locator.Locator) (int, error) {
	n, err := b.locate(loc).Count()
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", loc, err)
	}
	return n, nil
}

// Click waits until the element is visible, stable and enabled, then clicks it.
func (b Base) Click(loc locator.Locator, opts ...Option) error {
	timeout := b.resolve(b.timeouts.Default, opts)
	b.trace("click", loc, timeout)
	if err := b.locate(loc).First().Click(playwright.LocatorClickOptions{Timeout: ms(timeout)}); err != nil {
		return b.wrap("click", loc, timeout, err)
	}
	return nil
}

// ClickAndWaitForNavigation clicks and waits until a new document has loaded. Form
// posts that re-render the same URL count as navigation too.
func (b Base) ClickAndWaitForNavigation(loc locator.Locator, opts ...Option) error {
	timeout := b.resolve(b.timeouts.Default, opts)
	if _, err := b.page.Evaluate(fmt.Sprintf("() => { window.%s = true }", navMarker)); err != nil {
		return fmt.Errorf("mark document before click: %w", err)
	}
	if err := b.Click(loc, opts...); err != nil {
		return err
	}

	b.trace("navigate", loc, timeout)
	_, err := b.page.WaitForFunction(fmt.Sprintf("() => window.%s !== true", navMarker), nil,
		playwright.PageWaitForFunctionOptions{Timeout: ms(timeout)})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return b.wrap("navigate", loc, timeout, err)
		}
		// The polling context dies with the old document; that is the navigation itself.
		b.log.WithError(err).Debug("navigation replaced polling context")
	}
	return b.WaitForLoad(Timeout(timeout))
}

// InputText clears the field, then types text into it.
func (b Base) InputText(loc locator.Locator, text string, opts ...Option) error {
	timeout := b.resolve(b.timeouts.Default, opts)
	el, err := b.Find(loc, opts...)
	if err != nil {
		return err
	}
	b.trace("input", loc, timeout)
	if err := el.Clear(playwright.LocatorClearOptions{Timeout: ms(timeout)}); err != nil {
		return b.wrap("clear", loc, timeout, err)
	}
	if err := el.Fill(text, playwright.LocatorFillOptions{Timeout: ms(timeout)}); err != nil {
		return b.wrap("input", loc, timeout, err)
	}
	return nil
}

// SelectByText picks the dropdown option whose visible text is optionText.
func (b Base) SelectByText(loc locator.Locator, optionText string, opts ...Option) error {
	timeout := b.resolve(b.timeouts.Default, opts)
	el, err := b.Find(loc, opts...)
	if err != nil {
		return err
	}
	b.trace("select", loc, timeout)
	if _, err := el.SelectOption(playwright.SelectOptionValues{
		Labels: &[]string{optionText},
	}, playwright.LocatorSelectOptionOptions{Timeout: ms(timeout)}); err != nil {
		return b.wrap("select "+optionText, loc, timeout, err)
	}
	return nil
}

// SelectedText returns the visible text of the selected option of a dropdown.
func (b Base) SelectedText(loc locator.Locator, opts ...Option) (string, error) {
	timeout := b.resolve(b.timeouts.Default, opts)
	el, err := b.Find(loc, opts...)
	if err != nil {
		return "", err
	}
	text, err := el.Locator("option:checked").First().InnerText(playwright.LocatorInnerTextOptions{Timeout: ms(timeout)})
	if err != nil {
		return "", b.wrap("selected-text", loc, timeout, err)
	}
	return strings.TrimSpace(text), nil
}

// Text returns the rendered text of the element, trimmed.
func (b Base) Text(loc locator.Locator, opts ...Option) (string, error) {
	timeout := b.resolve(b.timeouts.Default, opts)
	el, err := b.Find(loc, opts...)
	if err != nil {
		return "", err
	}
	text, err := el.InnerText(playwright.LocatorInnerTextOptions{Timeout: ms(timeout)})
	if err != nil {
		return "", b.wrap("text", loc, timeout, err)
	}
	return strings.TrimSpace(text), nil
}

// Value returns the current value of an input.
func (b Base) Value(loc locator.Locator, opts ...Option) (string, error) {
	timeout := b.resolve(b.timeouts.Default, opts)
	el, err := b.Find(loc, opts...)
	if err != nil {
		return "", err
	}
	v, err := el.InputValue(playwright.LocatorInputValueOptions{Timeout: ms(timeout)})
	if err != nil {
		return "", b.wrap("value", loc, timeout, err)
	}
	return v, nil
}

// IsChecked reports whether a checkbox or radio is checked.
func (b Base) IsChecked(loc locator.Locator, opts ...Option) (bool, error) {
	timeout := b.resolve(b.timeouts.Default, opts)
	el, err := b.Find(loc, opts...)
	if err != nil {
		return false, err
	}
	checked, err := el.IsChecked(playwright.LocatorIsCheckedOptions{Timeout: ms(timeout)})
	if err != nil {
		return false, b.wrap("checked", loc, timeout, err)
	}
	return checked, nil
}

// IsPresent waits up to the presence timeout (5s unless overridden) for loc. An
// expired wait is reported as false; any other failure is returned.
func (b Base) IsPresent(loc locator.Locator, opts ...Option) (bool, error) {
	_, err := b.waitFor("present", loc, playwright.WaitForSelectorStateAttached, b.resolve(b.timeouts.Presence, opts))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrTimeout) {
		return false, nil
	}
	return false, err
}

// WaitVisible waits until the element is visible.
func (b Base) WaitVisible(loc locator.Locator, opts ...Option) (playwright.Locator, error) {
	return b.waitFor("visible", loc, playwright.WaitForSelectorStateVisible, b.resolve(b.timeouts.Default, opts))
}

// WaitInvisible waits until the element is hidden or gone.
func (b Base) WaitInvisible(loc locator.Locator, opts ...Option) error {
	_, err := b.waitFor("invisible", loc, playwright.WaitForSelectorStateHidden, b.resolve(b.timeouts.Default, opts))
	return err
}

// ScrollTo brings the element into the viewport.
func (b Base) ScrollTo(loc locator.Locator, opts ...Option) error {
	timeout := b.resolve(b.timeouts.Default, opts)
	el, err := b.Find(loc, opts...)
	if err != nil {
		return err
	}
	if err := el.ScrollIntoViewIfNeeded(playwright.LocatorScrollIntoViewIfNeededOptions{Timeout: ms(timeout)}); err != nil {
		return b.wrap("scroll", loc, timeout, err)
	}
	return nil
}

// Title returns the document title.
func (b Base) Title() (string, error) {
	return b.page.Title()
}

// CurrentURL returns the page URL.
func (b Base) CurrentURL() string {
	return b.page.URL()
}

// CurrentPath returns the path component of the page URL.
func (b Base) CurrentPath() string {
	u, err := url.Parse(b.page.URL())
	if err != nil {
		return ""
	}
	return u.Path
}

// Open loads path relative to the base URL.
func (b Base) Open(path string) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	target := b.baseURL + path
	b.log.WithField("url", target).Debug("open")
	if _, err := b.page.Goto(target); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	return nil
}

// Refresh reloads the current page.
func (b Base) Refresh() error {
	if _, err := b.page.Reload(); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	return nil
}

// Back goes one entry back in history.
func (b Base) Back() error {
	if _, err := b.page.GoBack(); err != nil {
		return fmt.Errorf("back: %w", err)
	}
	return b.WaitForLoad()
}

// Forward goes one entry forward in history.
func (b Base) Forward() error {
	if _, err := b.page.GoForward(); err != nil {
		return fmt.Errorf("forward: %w", err)
	}
	return b.WaitForLoad()
}

// WaitForLoad waits for the load event of the current document.
func (b Base) WaitForLoad(opts ...Option) error {
	timeout := b.resolve(b.timeouts.Default, opts)
	if err := b.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateLoad,
		Timeout: ms(timeout),
	}); err != nil {
		return fmt.Errorf("wait for load: %w", err)
	}
	return nil
}

// expectPath checks that the browser is on a page under segment, e.g. "/employees/".
func (b Base) expectPath(segment string, exclude ...string) error {
	path := b.CurrentPath()
	if !strings.Contains(path, segment) {
		return &UnexpectedPageError{Want: segment, Got: b.CurrentURL()}
	}
	for _, x := range exclude {
		if strings.Contains(path, x) {
			return &UnexpectedPageError{Want: segment, Got: b.CurrentURL()}
		}
	}
	return nil
}

// normalizeSpace collapses runs of whitespace the way XPath normalize-space does.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
