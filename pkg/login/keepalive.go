package login

import (
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

const keepaliveStableTimeout = 15 * time.Second

// keepalive visits a couple of in-app pages to confirm the session survives
// navigation. Bouncing back to the sign-in page means the session did not
// stick; a page that simply fails to load is logged and skipped.
func (r *Runner) keepalive(page Page) bool {
	r.log.Step("visiting pages to keep the session warm...")

	base := strings.TrimRight(r.cfg.ConsoleURL, "/")
	targets := []struct {
		url  string
		name string
	}{
		{base + "/", "console"},
		{base + "/apps", "apps"},
	}

	for _, t := range targets {
		err := retry.Do(
			func() error { return page.Navigate(t.url, pageLoadTimeout) },
			retry.Attempts(2),
			retry.Delay(time.Second),
			retry.DelayType(retry.FixedDelay),
			retry.LastErrorOnly(true),
		)
		if err != nil {
			r.log.Warn("visiting %s failed: %v", t.name, err)
			continue
		}
		if werr := page.WaitStable(keepaliveStableTimeout); werr != nil {
			r.logger.Debug().Err(werr).Str("page", t.name).Msg("page did not settle")
		}

		if r.onSigninPath(page.URL()) {
			r.log.Error("visiting %s bounced back to the sign-in page", t.name)
			return false
		}

		r.log.Success("visited %s", t.name)
		r.sleep(2 * time.Second)
	}

	r.shooter.Capture(page, "keepalive_done")
	return true
}
