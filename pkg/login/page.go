package login

import "time"

// Page is the slice of browser behavior the login flow needs. The real
// implementation drives a rod page; tests script it.
type Page interface {
	// Navigate opens the URL and waits for the load event.
	Navigate(url string, timeout time.Duration) error
	// WaitStable waits until the page stops mutating, best effort.
	WaitStable(timeout time.Duration) error
	URL() string
	Title() string
	// Content returns the full page HTML.
	Content() (string, error)
	// Fill locates the selector and types the value into it.
	Fill(selector, value string, timeout time.Duration) error
	// ClickVisible clicks the candidate if it resolves to a visible
	// element within the timeout, and errors otherwise.
	ClickVisible(c Candidate, timeout time.Duration) error
	// Visible reports whether the selector resolves to a visible element
	// within the timeout.
	Visible(selector string, timeout time.Duration) bool
	// Text returns the text of the selector's element when it is visible.
	Text(selector string, timeout time.Duration) (string, error)
	// Screenshot captures the viewport as PNG.
	Screenshot() ([]byte, error)
}

// Session owns the page plus the browser-level state that outlives it.
type Session interface {
	Page() Page
	Cookies() ([]Cookie, error)
	Close() error
}
