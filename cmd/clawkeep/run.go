package clawkeep

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/clawkeep/clawkeep/pkg/browser"
	"github.com/clawkeep/clawkeep/pkg/config"
	"github.com/clawkeep/clawkeep/pkg/login"
	"github.com/clawkeep/clawkeep/pkg/notify"
	"github.com/clawkeep/clawkeep/pkg/runlog"
)

func NewRunCmd() *cobra.Command {
	var (
		headless      bool
		cookieFile    string
		rulesFile     string
		screenshotDir string
	)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Sign in to the console once and keep the session alive",
		Long: `Drives a headless Chromium through the console's GitHub OAuth sign-in,
persists the session cookies and reports the outcome over Telegram.
Intended to be invoked from cron or a CI schedule.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("headless") {
				cfg.Headless = headless
			}
			if cmd.Flags().Changed("cookie-file") {
				cfg.CookieFile = cookieFile
			}
			if cmd.Flags().Changed("rules") {
				cfg.RulesFile = rulesFile
			}
			if cmd.Flags().Changed("screenshot-dir") {
				cfg.ScreenshotDir = screenshotDir
			}

			setupLogging(cfg.LogLevel)

			ctx := cmd.Context()
			logger := log.With().Str("run_id", uuid.NewString()).Logger()
			telegram := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID, logger)
			runLog := runlog.New(logger)

			if err := cfg.Validate(); err != nil {
				runLog.Error("credentials are not configured: %v", err)
				summary := validationFailureSummary(cfg.GithubUsername, runLog, err)
				if nerr := telegram.SendMessage(ctx, summary.HTML()); nerr != nil {
					logger.Warn().Err(nerr).Msg("could not deliver the notification message")
				}
				return err
			}

			rules, err := login.LoadRules(cfg.RulesFile)
			if err != nil {
				return err
			}

			shooter := login.NewShooter(cfg.ScreenshotDir, runLog)
			runner := login.NewRunner(cfg, rules, runLog, shooter, telegram, logger)

			session, err := browser.Open(cfg, logger)
			if err != nil {
				runLog.Error("could not start the browser: %v", err)
				runner.ReportFailure(ctx, err.Error())
				return err
			}
			defer func() {
				if cerr := session.Close(); cerr != nil {
					logger.Warn().Err(cerr).Msg("error closing the browser")
				}
			}()

			return runner.Run(ctx, session)
		},
	}

	runCmd.Flags().BoolVar(&headless, "headless", true, "run the browser headless")
	runCmd.Flags().StringVar(&cookieFile, "cookie-file", "cookies.json", "where to write the console cookies")
	runCmd.Flags().StringVar(&rulesFile, "rules", "", "override the built-in page-state rules")
	runCmd.Flags().StringVar(&screenshotDir, "screenshot-dir", ".", "where to write step screenshots")

	return runCmd
}

// validationFailureSummary reports a run that never started because the
// credentials were missing. The run log tail names which variable is unset,
// same as a mid-run failure would.
func validationFailureSummary(account string, runLog *runlog.Log, err error) notify.Summary {
	return notify.Summary{
		Account: account,
		When:    time.Now(),
		Err:     "credentials are not configured: " + err.Error(),
		LogTail: runLog.Tail(8),
	}
}
