// Package login drives one ClawCloud sign-in through GitHub OAuth: click the
// provider button, submit credentials, ride the redirect back to the console,
// persist the session cookies and confirm the session sticks. Everything is
// a fixed linear sequence; the only stateful part is the redirect wait loop.
package login

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clawkeep/clawkeep/pkg/config"
	"github.com/clawkeep/clawkeep/pkg/notify"
	"github.com/clawkeep/clawkeep/pkg/runlog"
)

const (
	navigationTimeout = 60 * time.Second
	pageLoadTimeout   = 30 * time.Second
	clickTimeout      = 3 * time.Second
	fillTimeout       = 5 * time.Second

	// How many of the most recent log lines the notification carries.
	notifyLogTail = 8
)

// Notifier is the outbound reporting surface the runner needs.
type Notifier interface {
	Enabled() bool
	SendMessage(ctx context.Context, text string) error
	SendPhoto(ctx context.Context, path, caption string) error
}

type Runner struct {
	cfg        config.Config
	rules      Rules
	classifier *Classifier
	log        *runlog.Log
	shooter    *Shooter
	notifier   Notifier
	logger     zerolog.Logger

	// target is the registrable domain of the console, e.g. "claw.cloud".
	target string

	maxPolls int
	sleep    func(time.Duration)
}

func NewRunner(cfg config.Config, rules Rules, log *runlog.Log, shooter *Shooter, notifier Notifier, logger zerolog.Logger) *Runner {
	return &Runner{
		cfg:        cfg,
		rules:      rules,
		classifier: NewClassifier(rules),
		log:        log,
		shooter:    shooter,
		notifier:   notifier,
		logger:     logger,
		target:     targetDomain(cfg.ConsoleURL),
		maxPolls:   redirectMaxPolls,
		sleep:      time.Sleep,
	}
}

// Run performs one complete login/keepalive cycle. All failure branches have
// already notified and logged by the time an error is returned; the caller
// only translates the error into the exit code.
func (r *Runner) Run(ctx context.Context, session Session) (err error) {
	page := session.Page()

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().Str("stack", string(debug.Stack())).Msgf("run panicked: %v", rec)
			r.log.Error("unexpected error: %v", rec)
			r.shooter.Capture(page, "crash")
			r.notify(ctx, false, fmt.Sprint(rec))
			err = fmt.Errorf("run panicked: %v", rec)
		}
	}()

	r.log.Step("step 1: opening %s", r.cfg.SigninURL())
	if err := page.Navigate(r.cfg.SigninURL(), navigationTimeout); err != nil {
		r.log.Error("could not open the sign-in page: %v", err)
		r.shooter.Capture(page, "signin_unreachable")
		r.notify(ctx, false, err.Error())
		return fmt.Errorf("could not open the sign-in page: %w", err)
	}
	if werr := page.WaitStable(pageLoadTimeout); werr != nil {
		r.logger.Debug().Err(werr).Msg("page did not settle, continuing")
	}
	r.sleep(2 * time.Second)
	r.shooter.Capture(page, "clawcloud_home")

	if !r.onSigninPath(page.URL()) {
		r.log.Success("already signed in")
		if err := r.verify(session, page); err == nil {
			r.log.Step("step 6: keepalive")
			if !r.keepalive(page) {
				r.log.Warn("keepalive did not confirm the session")
			}
			r.notify(ctx, true, "")
			return nil
		}
		// The signed-in heuristic misfired; fall through to the
		// normal sign-in flow.
		r.log.Warn("existing session did not verify, signing in again")
	}

	r.log.Step("step 2: clicking the GitHub sign-in button")
	if !r.findAndClick(page, r.rules.Selectors.GithubButton, "GitHub button") {
		r.log.Error("could not find the GitHub sign-in button")
		r.shooter.Capture(page, "github_button_missing")
		r.notify(ctx, false, "could not find the GitHub sign-in button")
		return errors.New("github sign-in button not found")
	}
	r.sleep(3 * time.Second)
	if werr := page.WaitStable(pageLoadTimeout); werr != nil {
		r.logger.Debug().Err(werr).Msg("page did not settle, continuing")
	}
	r.shooter.Capture(page, "after_github_click")

	r.log.Step("step 3: signing in to GitHub")
	if r.classifier.OnLoginPage(page.URL()) {
		if err := r.loginGitHub(page); err != nil {
			r.shooter.Capture(page, "github_login_failed")
			r.notify(ctx, false, err.Error())
			return fmt.Errorf("github login failed: %w", err)
		}
	}

	r.log.Step("step 4: waiting for the redirect")
	if !r.waitRedirect(page) {
		r.shooter.Capture(page, "redirect_failed")
		r.notify(ctx, false, "redirect to "+r.target+" failed")
		return errors.New("redirect failed")
	}
	r.shooter.Capture(page, "redirect_ok")

	return r.finish(ctx, session, page)
}

// finish runs verification and keepalive after a fresh login.
func (r *Runner) finish(ctx context.Context, session Session, page Page) error {
	r.log.Step("step 5: verifying the session")
	if err := r.verify(session, page); err != nil {
		r.shooter.Capture(page, "verify_failed")
		r.notify(ctx, false, err.Error())
		return fmt.Errorf("login verification failed: %w", err)
	}

	r.log.Step("step 6: keepalive")
	if !r.keepalive(page) {
		r.log.Warn("keepalive did not confirm the session")
	}

	r.notify(ctx, true, "")
	return nil
}

// ReportFailure notifies about a failure that happened before the flow could
// start, e.g. the browser refusing to launch.
func (r *Runner) ReportFailure(ctx context.Context, msg string) {
	r.notify(ctx, false, msg)
}

// findAndClick tries each candidate in order and clicks the first one that
// is visible within its timeout. Exhausting the list is reported, not fatal.
func (r *Runner) findAndClick(page Page, candidates []Candidate, label string) bool {
	for _, cand := range candidates {
		if err := page.ClickVisible(cand, clickTimeout); err != nil {
			r.logger.Debug().Err(err).Str("candidate", cand.String()).Msgf("%s candidate did not match", label)
			continue
		}
		r.log.Success("clicked %s (%s)", label, cand.String())
		return true
	}
	return false
}

func (r *Runner) fillFirst(page Page, selectors []string, value string) error {
	var lastErr error
	for _, sel := range selectors {
		if err := page.Fill(sel, value, fillTimeout); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("no selectors configured")
	}
	return lastErr
}

func (r *Runner) loginGitHub(page Page) error {
	r.log.Step("signing in to GitHub...")
	r.shooter.Capture(page, "github_login")

	if err := r.fillFirst(page, r.rules.Selectors.Username, r.cfg.GithubUsername); err != nil {
		r.log.Error("could not enter the username: %v", err)
		return fmt.Errorf("could not enter the username: %w", err)
	}
	r.log.Info("username entered")

	if err := r.fillFirst(page, r.rules.Selectors.Password, r.cfg.GithubPassword); err != nil {
		r.log.Error("could not enter the password: %v", err)
		return fmt.Errorf("could not enter the password: %w", err)
	}
	r.log.Info("password entered")
	r.shooter.Capture(page, "github_filled")

	if !r.findAndClick(page, r.rules.Selectors.Submit, "sign-in button") {
		r.log.Error("could not click the sign-in button")
		return errors.New("could not click the sign-in button")
	}

	r.sleep(3 * time.Second)
	if werr := page.WaitStable(pageLoadTimeout); werr != nil {
		r.logger.Debug().Err(werr).Msg("page did not settle, continuing")
	}
	r.shooter.Capture(page, "github_submitted")

	u := page.URL()
	r.log.Info("current page: %s", u)

	if banner := r.classifier.ErrorBanner(page); banner != "" {
		r.log.Error("GitHub error: %s", banner)
		return fmt.Errorf("github rejected the login: %s", banner)
	}

	if r.classifier.DeviceVerification(page) {
		r.log.Error("device verification required")
		r.log.Warn("GitHub flagged a new device and sent a verification email")
		r.log.Warn("sign in manually once to clear the challenge")
		r.shooter.Capture(page, "device_verification")
		return errors.New("device verification required")
	}

	if r.classifier.TwoFactor(page) {
		r.log.Error("two-factor authentication required")
		r.log.Warn("two-factor challenges are not handled")
		r.shooter.Capture(page, "two_factor")
		return errors.New("two-factor authentication required")
	}

	if r.classifier.OnLoginPage(u) {
		content, cerr := page.Content()
		if cerr == nil {
			switch r.classifier.LoginFailure(content) {
			case FailureBadCredentials:
				r.log.Error("incorrect username or password")
				return errors.New("incorrect username or password")
			case FailureRateLimited:
				r.log.Error("too many sign-in attempts, rate limited")
				return errors.New("rate limited by GitHub")
			}
		}
		r.log.Warn("still on the login page, waiting for the redirect...")
	}

	return nil
}

// verify confirms the browser really landed in the console and persists the
// console cookies, the run's only durable artifact.
func (r *Runner) verify(session Session, page Page) error {
	u := page.URL()
	r.log.Info("final page: %s", u)
	r.log.Info("page title: %s", page.Title())

	if !strings.Contains(u, r.target) {
		r.log.Error("not on %s", r.target)
		return fmt.Errorf("landed on %s instead of %s", u, r.target)
	}
	if r.onSigninPath(u) {
		r.log.Error("still on the sign-in page")
		return errors.New("still on the sign-in page")
	}

	cookies, err := session.Cookies()
	if err != nil {
		return fmt.Errorf("could not read cookies: %w", err)
	}

	kept := filterCookies(cookies, r.target)
	if len(kept) == 0 {
		r.log.Error("no cookies scoped to %s", r.target)
		return fmt.Errorf("no cookies scoped to %s", r.target)
	}
	r.log.Success("captured %d cookies", len(kept))

	if err := writeCookies(r.cfg.CookieFile, kept); err != nil {
		return err
	}
	return nil
}

func (r *Runner) onTarget(u string) bool {
	return strings.Contains(u, r.target) && !r.onSigninPath(u)
}

func (r *Runner) onSigninPath(u string) bool {
	return strings.Contains(strings.ToLower(u), r.rules.Target.SigninPathMarker)
}

func (r *Runner) notify(ctx context.Context, success bool, errMsg string) {
	if !r.notifier.Enabled() {
		return
	}

	summary := notify.Summary{
		Success: success,
		Account: r.cfg.GithubUsername,
		When:    time.Now(),
		Err:     errMsg,
		LogTail: r.log.Tail(notifyLogTail),
	}
	if err := r.notifier.SendMessage(ctx, summary.HTML()); err != nil {
		r.logger.Warn().Err(err).Msg("could not deliver the notification message")
	}

	shots := r.shooter.Shots()
	if len(shots) == 0 {
		return
	}
	if success {
		last := shots[len(shots)-1]
		if err := r.notifier.SendPhoto(ctx, last.File, "final screenshot"); err != nil {
			r.logger.Warn().Err(err).Str("file", last.File).Msg("could not deliver the screenshot")
		}
		return
	}
	for _, shot := range shots {
		if err := r.notifier.SendPhoto(ctx, shot.File, filepath.Base(shot.File)); err != nil {
			r.logger.Warn().Err(err).Str("file", shot.File).Msg("could not deliver the screenshot")
		}
	}
}

// targetDomain reduces the console URL to its registrable domain so URL and
// cookie checks survive region subdomains.
func targetDomain(consoleURL string) string {
	u, err := url.Parse(consoleURL)
	if err != nil || u.Hostname() == "" {
		return consoleURL
	}
	parts := strings.Split(u.Hostname(), ".")
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}
	return strings.Join(parts, ".")
}
