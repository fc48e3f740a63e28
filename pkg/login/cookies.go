package login

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Cookie is the subset of browser cookie attributes worth persisting. The
// serialized file is the only artifact that survives a run.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// filterCookies keeps only cookies scoped to the target domain; everything
// the identity provider set along the way is dropped.
func filterCookies(cookies []Cookie, domainMarker string) []Cookie {
	var kept []Cookie
	for _, c := range cookies {
		if strings.Contains(c.Domain, domainMarker) {
			kept = append(kept, c)
		}
	}
	return kept
}

func writeCookies(path string, cookies []Cookie) error {
	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode cookies: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return nil
}
