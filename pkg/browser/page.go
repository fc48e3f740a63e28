package browser

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"

	"github.com/clawkeep/clawkeep/pkg/login"
)

const screenshotTimeout = 30 * time.Second

// Clickable elements considered when a candidate matches by text.
const clickableSelector = `button, a, input[type="submit"]`

// rodPage adapts a rod page to the login.Page surface. Each call clones the
// page with its own timeout so one slow operation never poisons the rest of
// the run.
type rodPage struct {
	page   *rod.Page
	logger zerolog.Logger
}

func (p *rodPage) Navigate(url string, timeout time.Duration) error {
	page := p.page.Timeout(timeout)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("error navigating to %s: %w", url, err)
	}
	return page.WaitLoad()
}

func (p *rodPage) WaitStable(timeout time.Duration) error {
	return p.page.Timeout(timeout).WaitStable(time.Second)
}

func (p *rodPage) URL() string {
	info, err := p.page.Info()
	if err != nil {
		p.logger.Debug().Err(err).Msg("could not read the page URL")
		return ""
	}
	return info.URL
}

func (p *rodPage) Title() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.Title
}

func (p *rodPage) Content() (string, error) {
	return p.page.HTML()
}

func (p *rodPage) Fill(selector, value string, timeout time.Duration) error {
	el, err := p.page.Timeout(timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("element %s not found: %w", selector, err)
	}
	if err := el.SelectAllText(); err != nil {
		p.logger.Debug().Err(err).Str("selector", selector).Msg("could not clear the field, typing anyway")
	}
	return el.Input(value)
}

func (p *rodPage) ClickVisible(c login.Candidate, timeout time.Duration) error {
	el, err := p.find(c, timeout)
	if err != nil {
		return err
	}

	visible, err := el.Visible()
	if err != nil {
		return err
	}
	if !visible {
		return fmt.Errorf("element %s is not visible", c.String())
	}

	if err := el.ScrollIntoView(); err != nil {
		p.logger.Debug().Err(err).Str("candidate", c.String()).Msg("could not scroll into view, clicking anyway")
	}
	return el.Timeout(timeout).Click(proto.InputMouseButtonLeft, 1)
}

func (p *rodPage) find(c login.Candidate, timeout time.Duration) (*rod.Element, error) {
	page := p.page.Timeout(timeout)
	if c.Selector != "" {
		el, err := page.Element(c.Selector)
		if err != nil {
			return nil, fmt.Errorf("element %s not found: %w", c.Selector, err)
		}
		return el, nil
	}

	el, err := page.ElementR(clickableSelector, "/"+regexp.QuoteMeta(c.Text)+"/i")
	if err != nil {
		return nil, fmt.Errorf("no clickable element with text %q: %w", c.Text, err)
	}
	return el, nil
}

func (p *rodPage) Visible(selector string, timeout time.Duration) bool {
	el, err := p.page.Timeout(timeout).Element(selector)
	if err != nil {
		return false
	}
	visible, err := el.Visible()
	return err == nil && visible
}

func (p *rodPage) Text(selector string, timeout time.Duration) (string, error) {
	el, err := p.page.Timeout(timeout).Element(selector)
	if err != nil {
		return "", fmt.Errorf("element %s not found: %w", selector, err)
	}
	visible, err := el.Visible()
	if err != nil {
		return "", err
	}
	if !visible {
		return "", fmt.Errorf("element %s is not visible", selector)
	}
	return el.Text()
}

func (p *rodPage) Screenshot() ([]byte, error) {
	return p.page.Timeout(screenshotTimeout).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}
