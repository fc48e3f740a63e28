package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds everything a run needs from the environment. The GitHub
// credential pair is required; the Telegram pair merely enables
// notifications when present.
type Config struct {
	GithubUsername string `envconfig:"GH_USERNAME"`
	GithubPassword string `envconfig:"GH_PASSWORD"`

	TelegramBotToken string `envconfig:"TG_BOT_TOKEN"`
	TelegramChatID   string `envconfig:"TG_CHAT_ID"`

	ConsoleURL string `envconfig:"CLAW_CLOUD_URL" default:"https://eu-central-1.run.claw.cloud"`

	// When set, connect to an already running Chromium over CDP instead of
	// launching one.
	ChromeURL string `envconfig:"CLAWKEEP_CHROME_URL"`

	CookieFile    string `envconfig:"CLAWKEEP_COOKIE_FILE" default:"cookies.json"`
	ScreenshotDir string `envconfig:"CLAWKEEP_SCREENSHOT_DIR" default:"."`
	RulesFile     string `envconfig:"CLAWKEEP_RULES_FILE"`
	LogLevel      string `envconfig:"CLAWKEEP_LOG_LEVEL" default:"info"`
	Headless      bool   `envconfig:"CLAWKEEP_HEADLESS" default:"true"`
}

func Load() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate fails fast on a missing credential, naming the variable so the
// notification and the exit message say exactly what to fix.
func (c Config) Validate() error {
	if c.GithubUsername == "" {
		return fmt.Errorf("GH_USERNAME is not set")
	}
	if c.GithubPassword == "" {
		return fmt.Errorf("GH_PASSWORD is not set")
	}
	return nil
}

func (c Config) SigninURL() string {
	return strings.TrimRight(c.ConsoleURL, "/") + "/signin"
}
