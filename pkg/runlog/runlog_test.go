package runlog

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinesKeepOrderAndIcons(t *testing.T) {
	l := New(zerolog.Nop())

	l.Step("step 1: opening the console")
	l.Info("username: %s", "octocat")
	l.Success("clicked the GitHub button")
	l.Warn("still on the login page")
	l.Error("redirect timed out")

	lines := l.Lines()
	require.Len(t, lines, 5)
	assert.Equal(t, "🔹 step 1: opening the console", lines[0])
	assert.Equal(t, "ℹ️ username: octocat", lines[1])
	assert.Equal(t, "✅ clicked the GitHub button", lines[2])
	assert.Equal(t, "⚠️ still on the login page", lines[3])
	assert.Equal(t, "❌ redirect timed out", lines[4])
}

func TestTailReturnsMostRecent(t *testing.T) {
	l := New(zerolog.Nop())
	for i := 1; i <= 12; i++ {
		l.Info("line %d", i)
	}

	tail := l.Tail(8)
	require.Len(t, tail, 8)
	assert.Equal(t, "ℹ️ line 5", tail[0])
	assert.Equal(t, "ℹ️ line 12", tail[7])
}

func TestTailShorterLog(t *testing.T) {
	l := New(zerolog.Nop())
	l.Info("only line")

	tail := l.Tail(8)
	require.Len(t, tail, 1)
	assert.Equal(t, "ℹ️ only line", tail[0])

	assert.Empty(t, New(zerolog.Nop()).Tail(8))
}

func TestLinesMirroredToZerolog(t *testing.T) {
	var buf strings.Builder
	l := New(zerolog.New(&buf))

	l.Error("cookie write failed: %v", fmt.Errorf("disk full"))

	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "cookie write failed: disk full")
}
