package login

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterCookies(t *testing.T) {
	cookies := []Cookie{
		{Name: "session", Domain: ".claw.cloud"},
		{Name: "region", Domain: "eu-central-1.run.claw.cloud"},
		{Name: "gh", Domain: "github.com"},
		{Name: "tg", Domain: ".telegram.org"},
	}

	kept := filterCookies(cookies, "claw.cloud")
	require.Len(t, kept, 2)
	assert.Equal(t, "session", kept[0].Name)
	assert.Equal(t, "region", kept[1].Name)

	assert.Empty(t, filterCookies(cookies, "example.com"))
}

func TestWriteCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	cookies := []Cookie{{
		Name:     "session",
		Value:    "abc",
		Domain:   ".claw.cloud",
		Path:     "/",
		Expires:  1767225600,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	}}

	require.NoError(t, writeCookies(path, cookies))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []Cookie
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, cookies, got)
}
