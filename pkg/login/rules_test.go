package login

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRules(t *testing.T) {
	r := DefaultRules()

	assert.NotEmpty(t, r.ErrorBannerSelectors)
	assert.NotEmpty(t, r.DeviceVerification.ContentKeywords)
	assert.NotEmpty(t, r.TwoFactor.OTPSelectors)
	assert.NotEmpty(t, r.LoginPage.URLMarkers)
	assert.NotEmpty(t, r.OAuthURLMarkers)
	assert.NotEmpty(t, r.Selectors.GithubButton)
	assert.Equal(t, "signin", r.Target.SigninPathMarker)
}

func TestDefaultGithubButtonPrefersTextMatches(t *testing.T) {
	r := DefaultRules()
	got := r.Selectors.GithubButton
	require.NotEmpty(t, got)

	// Text candidates come first; the data-provider attribute is the
	// fallback of last resort.
	assert.Equal(t, Candidate{Text: "GitHub"}, got[0])
	assert.Equal(t, Candidate{Selector: `[data-provider="github"]`}, got[len(got)-1])
	for _, c := range got[:len(got)-1] {
		assert.NotEmpty(t, c.Text)
	}
}

func TestLoadRulesFallsBackToDefaults(t *testing.T) {
	r, err := LoadRules("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), r)
}

func TestLoadRulesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	custom := `
error_banner_selectors: [".custom-error"]
login_page:
  url_markers: ["github.com/login"]
target:
  signin_path_marker: "login"
selectors:
  github_button:
    - selector: "#gh"
  username: ["#user"]
  password: ["#pass"]
  submit:
    - selector: "#go"
`
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o644))

	r, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, []string{".custom-error"}, r.ErrorBannerSelectors)
	assert.Equal(t, "login", r.Target.SigninPathMarker)
	assert.Equal(t, []Candidate{{Selector: "#gh"}}, r.Selectors.GithubButton)
}

func TestLoadRulesRejectsIncompleteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`error_banner_selectors: [".x"]`), 0o644))

	_, err := LoadRules(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "github_button")
}

func TestLoadRulesMissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestCandidateString(t *testing.T) {
	assert.Equal(t, "#btn", Candidate{Selector: "#btn"}.String())
	assert.Equal(t, "text:Authorize", Candidate{Text: "Authorize"}.String())
}
