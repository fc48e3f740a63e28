// Package browser owns the rod-driven Chromium session: launching (or
// attaching to) the browser, adapting one page to the login.Page surface,
// and exposing the context cookies. One browser, one page, one run.
package browser

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"

	"github.com/clawkeep/clawkeep/pkg/config"
	"github.com/clawkeep/clawkeep/pkg/login"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

type session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	logger   zerolog.Logger
}

// Open launches a headless Chromium, or attaches to an existing one when
// the Chrome URL is configured, and prepares a single page for the run.
func Open(cfg config.Config, logger zerolog.Logger) (login.Session, error) {
	var (
		b *rod.Browser
		l *launcher.Launcher
	)

	if cfg.ChromeURL != "" {
		logger.Info().Str("chrome_url", cfg.ChromeURL).Msg("attaching to an existing browser")
		b = rod.New().ControlURL(cfg.ChromeURL)
	} else {
		l = launcher.New().
			Headless(cfg.Headless).
			NoSandbox(true)
		controlURL, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("error launching browser: %w", err)
		}
		b = rod.New().ControlURL(controlURL)
	}

	if err := b.Connect(); err != nil {
		if l != nil {
			l.Kill()
		}
		return nil, fmt.Errorf("error connecting to browser: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = b.Close()
		if l != nil {
			l.Cleanup()
		}
		return nil, fmt.Errorf("error creating page: %w", err)
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: userAgent}); err != nil {
		logger.Warn().Err(err).Msg("could not override the user agent")
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1920,
		Height:            1080,
		DeviceScaleFactor: 1,
	}); err != nil {
		logger.Warn().Err(err).Msg("could not set the viewport")
	}

	return &session{
		browser:  b,
		launcher: l,
		page:     page,
		logger:   logger,
	}, nil
}

func (s *session) Page() login.Page {
	return &rodPage{page: s.page, logger: s.logger}
}

func (s *session) Cookies() ([]login.Cookie, error) {
	cookies, err := s.browser.GetCookies()
	if err != nil {
		return nil, fmt.Errorf("error reading cookies: %w", err)
	}

	out := make([]login.Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, login.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  float64(c.Expires),
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		})
	}
	return out, nil
}

func (s *session) Close() error {
	err := s.browser.Close()
	if s.launcher != nil {
		s.launcher.Cleanup()
	}
	return err
}
