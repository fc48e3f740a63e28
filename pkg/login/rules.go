package login

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Candidate describes one way to find a control: either a CSS selector or a
// case-insensitive text match over clickable elements. Lists of candidates
// are ordered by preference, not correctness.
type Candidate struct {
	Selector string `yaml:"selector,omitempty"`
	Text     string `yaml:"text,omitempty"`
}

func (c Candidate) String() string {
	if c.Selector != "" {
		return c.Selector
	}
	return "text:" + c.Text
}

// Rules are the page-state heuristics. They match unversioned third-party
// markup and copy, so they live in data rather than control flow and can be
// replaced from disk when GitHub or the console changes.
type Rules struct {
	ErrorBannerSelectors []string `yaml:"error_banner_selectors"`

	DeviceVerification struct {
		URLMarkers      []string `yaml:"url_markers"`
		ContentKeywords []string `yaml:"content_keywords"`
	} `yaml:"device_verification"`

	TwoFactor struct {
		URLMarkers   []string `yaml:"url_markers"`
		OTPSelectors []string `yaml:"otp_selectors"`
	} `yaml:"two_factor"`

	LoginPage struct {
		URLMarkers           []string `yaml:"url_markers"`
		BadCredentialPhrases []string `yaml:"bad_credential_phrases"`
		RateLimitPhrases     []string `yaml:"rate_limit_phrases"`
	} `yaml:"login_page"`

	OAuthURLMarkers []string `yaml:"oauth_url_markers"`

	Target struct {
		SigninPathMarker string `yaml:"signin_path_marker"`
	} `yaml:"target"`

	Selectors struct {
		GithubButton []Candidate `yaml:"github_button"`
		Username     []string    `yaml:"username"`
		Password     []string    `yaml:"password"`
		Submit       []Candidate `yaml:"submit"`
		Authorize    []Candidate `yaml:"authorize"`
	} `yaml:"selectors"`
}

// DefaultRules returns the embedded rule set.
func DefaultRules() Rules {
	var r Rules
	if err := yaml.Unmarshal(defaultRulesYAML, &r); err != nil {
		// The embedded document ships with the binary; failing to parse
		// it is a build defect, not a runtime condition.
		panic(fmt.Sprintf("embedded rules.yaml is invalid: %v", err))
	}
	return r
}

// LoadRules reads a rule file from disk, falling back to the embedded
// defaults when path is empty.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("could not read rules file: %w", err)
	}

	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Rules{}, fmt.Errorf("could not parse rules file %s: %w", path, err)
	}
	if err := r.validate(); err != nil {
		return Rules{}, fmt.Errorf("rules file %s: %w", path, err)
	}
	return r, nil
}

func (r Rules) validate() error {
	switch {
	case len(r.Selectors.GithubButton) == 0:
		return fmt.Errorf("selectors.github_button is empty")
	case len(r.Selectors.Username) == 0:
		return fmt.Errorf("selectors.username is empty")
	case len(r.Selectors.Password) == 0:
		return fmt.Errorf("selectors.password is empty")
	case len(r.Selectors.Submit) == 0:
		return fmt.Errorf("selectors.submit is empty")
	case len(r.LoginPage.URLMarkers) == 0:
		return fmt.Errorf("login_page.url_markers is empty")
	case r.Target.SigninPathMarker == "":
		return fmt.Errorf("target.signin_path_marker is empty")
	}
	return nil
}
