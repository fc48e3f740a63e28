package login

import (
	"strings"
	"time"
)

const classifyTimeout = 2 * time.Second

// LoginFailure distinguishes the reasons a submission can leave the browser
// sitting on GitHub's credential form.
type LoginFailure int

const (
	// FailureNone means the page is most likely still loading.
	FailureNone LoginFailure = iota
	FailureBadCredentials
	FailureRateLimited
)

// Classifier answers "what page is the browser looking at" from the rule
// tables. All methods are heuristics over URL and markup; none of them are
// authoritative.
type Classifier struct {
	rules Rules
}

func NewClassifier(rules Rules) *Classifier {
	return &Classifier{rules: rules}
}

// ErrorBanner returns the text of a visible error banner, or empty when no
// banner region is found.
func (c *Classifier) ErrorBanner(page Page) string {
	for _, sel := range c.rules.ErrorBannerSelectors {
		text, err := page.Text(sel, classifyTimeout)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			return text
		}
	}
	return ""
}

func (c *Classifier) DeviceVerification(page Page) bool {
	u := strings.ToLower(page.URL())
	for _, marker := range c.rules.DeviceVerification.URLMarkers {
		if strings.Contains(u, marker) {
			return true
		}
	}

	content, err := page.Content()
	if err != nil {
		return false
	}
	content = strings.ToLower(content)
	for _, kw := range c.rules.DeviceVerification.ContentKeywords {
		if strings.Contains(content, kw) {
			return true
		}
	}
	return false
}

func (c *Classifier) TwoFactor(page Page) bool {
	u := strings.ToLower(page.URL())
	for _, marker := range c.rules.TwoFactor.URLMarkers {
		if strings.Contains(u, marker) {
			return true
		}
	}
	for _, sel := range c.rules.TwoFactor.OTPSelectors {
		if page.Visible(sel, classifyTimeout) {
			return true
		}
	}
	return false
}

// OnLoginPage reports whether the URL is still on GitHub's credential or
// session paths.
func (c *Classifier) OnLoginPage(u string) bool {
	for _, marker := range c.rules.LoginPage.URLMarkers {
		if strings.Contains(u, marker) {
			return true
		}
	}
	return false
}

// OnOAuthPage reports whether the URL is GitHub's OAuth authorization prompt.
func (c *Classifier) OnOAuthPage(u string) bool {
	for _, marker := range c.rules.OAuthURLMarkers {
		if strings.Contains(u, marker) {
			return true
		}
	}
	return false
}

// LoginFailure inspects the page content after a submission that stayed on
// the credential form.
func (c *Classifier) LoginFailure(content string) LoginFailure {
	content = strings.ToLower(content)
	for _, phrase := range c.rules.LoginPage.BadCredentialPhrases {
		if strings.Contains(content, phrase) {
			return FailureBadCredentials
		}
	}
	for _, phrase := range c.rules.LoginPage.RateLimitPhrases {
		if strings.Contains(content, phrase) {
			return FailureRateLimited
		}
	}
	return FailureNone
}
