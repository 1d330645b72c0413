package domain

import (
	"net/url"
	"strings"
)

// ValidHTTPURL reports whether raw is an absolute http(s) URL with a host.
func ValidHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// NormalizeURL canonicalizes a site URL so that spellings of the same
// endpoint share one timeline: scheme and host are lower-cased, the scheme's
// default port and a bare root path are dropped. Unparsable input is
// returned trimmed but otherwise untouched.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port != "" {
		host += ":" + port
	}
	u.Host = host
	if u.Path == "/" && u.RawQuery == "" {
		u.Path = ""
		u.RawPath = ""
	}
	u.Fragment = ""
	return u.String()
}
