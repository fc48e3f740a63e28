package login

import "time"

const (
	// One poll per second, bounded.
	redirectMaxPolls     = 45
	redirectPollInterval = time.Second

	// Grace period before "still on GitHub" counts as stuck.
	redirectStuckAfter = 15
)

// waitRedirect polls the current URL until the browser lands on the console
// (success), sits on GitHub's login paths past the grace period (stuck), or
// the iteration budget runs out. An OAuth authorization prompt along the way
// is a transient state: authorize and keep polling.
func (r *Runner) waitRedirect(page Page) bool {
	r.log.Step("waiting for the redirect (up to %d seconds)...", r.maxPolls)

	for i := 0; i < r.maxPolls; i++ {
		u := page.URL()

		if r.onTarget(u) {
			r.log.Success("redirected to %s", r.target)
			return true
		}

		if i > redirectStuckAfter && r.classifier.OnLoginPage(u) {
			r.log.Error("stuck on the GitHub login page")
			return false
		}

		if r.classifier.OnOAuthPage(u) {
			r.handleOAuth(page)
		}

		r.sleep(redirectPollInterval)
		if i%10 == 0 {
			r.log.Info("still waiting... (%ds)", i)
		}
	}

	r.log.Error("redirect timed out")
	return false
}

// handleOAuth clicks through GitHub's authorization prompt. Missing the
// button is not fatal here: the poll loop keeps watching the URL either way.
func (r *Runner) handleOAuth(page Page) {
	r.log.Step("handling the OAuth authorization prompt...")
	r.shooter.Capture(page, "oauth_authorize")

	r.findAndClick(page, r.rules.Selectors.Authorize, "authorize button")

	r.sleep(3 * time.Second)
	if err := page.WaitStable(pageLoadTimeout); err != nil {
		r.logger.Debug().Err(err).Msg("page did not settle after authorizing")
	}
}
