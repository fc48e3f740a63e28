package login

import (
	"context"
	"fmt"
	"time"
)

// fakePage scripts a browser page. URL transitions are driven by the
// actions taken against it: Navigate and ClickVisible consult their redirect
// maps, and tests that need a timed URL sequence install urlFn.
type fakePage struct {
	url   string
	urlFn func() string

	title   string
	content string

	// visible selectors / candidates, keyed by Candidate.String()
	visible map[string]bool
	// texts of visible elements, keyed by selector
	texts map[string]string

	// url → resulting URL after Navigate (default: the url itself)
	navRedirect map[string]string
	// url → error returned by Navigate
	navErr map[string]error
	// candidate key → resulting URL after a successful click
	clickRedirect map[string]string
	// selector → error returned by Fill
	fillErr map[string]error

	shotErr error

	navigated []string
	clicked   []string
	filled    map[string]string
	urlCalls  int
}

func newFakePage(url string) *fakePage {
	return &fakePage{
		url:           url,
		visible:       map[string]bool{},
		texts:         map[string]string{},
		navRedirect:   map[string]string{},
		navErr:        map[string]error{},
		clickRedirect: map[string]string{},
		fillErr:       map[string]error{},
		filled:        map[string]string{},
	}
}

func (p *fakePage) Navigate(url string, _ time.Duration) error {
	p.navigated = append(p.navigated, url)
	if err := p.navErr[url]; err != nil {
		return err
	}
	if next, ok := p.navRedirect[url]; ok {
		p.url = next
	} else {
		p.url = url
	}
	return nil
}

func (p *fakePage) WaitStable(time.Duration) error { return nil }

func (p *fakePage) URL() string {
	p.urlCalls++
	if p.urlFn != nil {
		return p.urlFn()
	}
	return p.url
}

func (p *fakePage) Title() string { return p.title }

func (p *fakePage) Content() (string, error) { return p.content, nil }

func (p *fakePage) Fill(selector, value string, _ time.Duration) error {
	if err := p.fillErr[selector]; err != nil {
		return err
	}
	p.filled[selector] = value
	return nil
}

func (p *fakePage) ClickVisible(c Candidate, _ time.Duration) error {
	key := c.String()
	if !p.visible[key] {
		return fmt.Errorf("element %s is not visible", key)
	}
	p.clicked = append(p.clicked, key)
	if next, ok := p.clickRedirect[key]; ok {
		p.url = next
	}
	return nil
}

func (p *fakePage) Visible(selector string, _ time.Duration) bool {
	return p.visible[selector]
}

func (p *fakePage) Text(selector string, _ time.Duration) (string, error) {
	if !p.visible[selector] {
		return "", fmt.Errorf("element %s is not visible", selector)
	}
	return p.texts[selector], nil
}

func (p *fakePage) Screenshot() ([]byte, error) {
	if p.shotErr != nil {
		return nil, p.shotErr
	}
	return []byte("png"), nil
}

type fakeSession struct {
	page      *fakePage
	cookies   []Cookie
	cookieErr error
	closed    bool
}

func (s *fakeSession) Page() Page { return s.page }

func (s *fakeSession) Cookies() ([]Cookie, error) {
	if s.cookieErr != nil {
		return nil, s.cookieErr
	}
	return s.cookies, nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

// fakeNotifier records delivered messages and photos.
type fakeNotifier struct {
	enabled  bool
	messages []string
	photos   []string
	captions []string
	sendErr  error
}

func (n *fakeNotifier) Enabled() bool { return n.enabled }

func (n *fakeNotifier) SendMessage(_ context.Context, text string) error {
	if n.sendErr != nil {
		return n.sendErr
	}
	n.messages = append(n.messages, text)
	return nil
}

func (n *fakeNotifier) SendPhoto(_ context.Context, path, caption string) error {
	if n.sendErr != nil {
		return n.sendErr
	}
	n.photos = append(n.photos, path)
	n.captions = append(n.captions, caption)
	return nil
}
