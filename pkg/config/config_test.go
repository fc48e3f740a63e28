package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCredentials(t *testing.T, username, password string) {
	t.Helper()
	t.Setenv("GH_USERNAME", username)
	t.Setenv("GH_PASSWORD", password)
}

func TestValidateRequiresBothCredentials(t *testing.T) {
	cases := []struct {
		name     string
		username string
		password string
		wantErr  string
	}{
		{"neither", "", "", "GH_USERNAME"},
		{"username only", "octocat", "", "GH_PASSWORD"},
		{"password only", "", "hunter2", "GH_USERNAME"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setCredentials(t, tc.username, tc.password)

			cfg, err := Load()
			require.NoError(t, err)

			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidatePassesWithBothCredentials(t *testing.T) {
	setCredentials(t, "octocat", "hunter2")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "octocat", cfg.GithubUsername)
}

func TestDefaults(t *testing.T) {
	setCredentials(t, "octocat", "hunter2")
	for _, key := range []string{"CLAW_CLOUD_URL", "CLAWKEEP_COOKIE_FILE", "CLAWKEEP_LOG_LEVEL", "CLAWKEEP_HEADLESS"} {
		// t.Setenv cannot unset, but it restores whatever was there.
		t.Setenv(key, "unused")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://eu-central-1.run.claw.cloud", cfg.ConsoleURL)
	assert.Equal(t, "cookies.json", cfg.CookieFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Headless)
}

func TestSigninURL(t *testing.T) {
	cfg := Config{ConsoleURL: "https://eu-central-1.run.claw.cloud"}
	assert.Equal(t, "https://eu-central-1.run.claw.cloud/signin", cfg.SigninURL())

	cfg.ConsoleURL = "https://eu-central-1.run.claw.cloud/"
	assert.Equal(t, "https://eu-central-1.run.claw.cloud/signin", cfg.SigninURL())
}
