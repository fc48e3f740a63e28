package notify

import (
	"fmt"
	"strings"
	"time"
)

// Summary is the outcome of one run, formatted for the notification chat.
type Summary struct {
	Success bool
	Account string
	When    time.Time
	Err     string
	LogTail []string
}

func (s Summary) HTML() string {
	status := "✅ success"
	if !s.Success {
		status = "❌ failure"
	}

	var b strings.Builder
	b.WriteString("<b>🤖 ClawCloud auto login</b>\n\n")
	fmt.Fprintf(&b, "<b>Status:</b> %s\n", status)
	fmt.Fprintf(&b, "<b>Account:</b> %s\n", s.Account)
	fmt.Fprintf(&b, "<b>Time:</b> %s", s.When.Format("2006-01-02 15:04:05"))

	if s.Err != "" {
		fmt.Fprintf(&b, "\n<b>Error:</b> %s", s.Err)
	}

	if len(s.LogTail) > 0 {
		b.WriteString("\n\n<b>Log:</b>\n")
		b.WriteString(strings.Join(s.LogTail, "\n"))
	}

	return b.String()
}
