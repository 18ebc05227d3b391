// Generic data manipulation utilities.

package main

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/yatube/yatube/server/store/types"
)

// Parses post ID from the URL path. Returns ZeroUid if the ID is malformed.
func parsePostId(s string) types.Uid {
	return types.ParseUid(s)
}

// Checks that the redirect target is a path on this site: it starts with a single
// slash and has no scheme or host.
func isSafeRedirect(next string) bool {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") ||
		strings.HasPrefix(next, "/\\") {
		return false
	}
	u, err := url.Parse(next)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// Returns next if it's a safe redirect target, otherwise the fallback.
func redirectTarget(next, fallback string) string {
	if isSafeRedirect(next) {
		return next
	}
	return fallback
}

// URL of the login page which brings the user back to path after login.
func loginURL(path string) string {
	// Slashes are left unescaped: /auth/login/?next=/create/
	return "/auth/login/?next=" + strings.ReplaceAll(url.QueryEscape(path), "%2F", "/")
}

func postURL(id string) string {
	return "/posts/" + id + "/"
}

func postEditURL(id string) string {
	return "/posts/" + id + "/edit/"
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func groupURL(slug string) string {
	return "/group/" + url.PathEscape(slug) + "/"
}

// Converts DB stats object to a flat map of numeric values. Nested objects
// and non-numeric values are skipped, booleans are reported as 0 or 1.
func numericStats(stats any) map[string]float64 {
	if stats == nil {
		return nil
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		return nil
	}
	var vals map[string]any
	if err = json.Unmarshal(raw, &vals); err != nil {
		return nil
	}

	out := make(map[string]float64)
	for key, val := range vals {
		switch v := val.(type) {
		case float64:
			out[key] = v
		case bool:
			if v {
				out[key] = 1
			} else {
				out[key] = 0
			}
		}
	}
	return out
}
