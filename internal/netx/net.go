// Package netx holds URL helpers for the backend transport.
package netx

import (
	"fmt"
	"net/url"
	"strings"
)

// RelayPlaceholder marks where a relay template takes the escaped target URL.
const RelayPlaceholder = "{url}"

// Origin returns scheme://host[:port] of rawURL, lower-cased.
func Origin(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("parse %q: scheme and host are required", rawURL)
	}
	return strings.ToLower(u.Scheme + "://" + u.Host), nil
}

// IsPlainHTTP reports whether rawURL uses the insecure http scheme.
func IsPlainHTTP(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, "http")
}

// RelayURL expands a relay template with the query-escaped target. A
// template without the placeholder gets the escaped target appended.
func RelayURL(template, target string) string {
	escaped := url.QueryEscape(target)
	if strings.Contains(template, RelayPlaceholder) {
		return strings.ReplaceAll(template, RelayPlaceholder, escaped)
	}
	return template + escaped
}
