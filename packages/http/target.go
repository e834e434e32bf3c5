package http

import (
	"fmt"
	neturl "net/url"
	"strings"
)

// Target is the connection-level view of a request URL.
type Target struct {
	Protocol string // scheme with trailing colon, e.g. "https:"
	Hostname string
	Port     string // empty when the scheme default applies
	Path     string // pathname + "?" query + "#" fragment, as written
	Auth     string // "user:password", "user" or empty
}

// ParseTarget parses rawURL and decomposes it.
func ParseTarget(rawURL string) (*Target, error) {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	return TargetFromURL(u)
}

// TargetFromURL decomposes an already parsed URL.
func TargetFromURL(u *neturl.URL) (*Target, error) {
	if u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported protocol %q: only https is allowed", u.Scheme+":")
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("URL must have a host")
	}

	t := &Target{
		Protocol: u.Scheme + ":",
		Hostname: u.Hostname(),
		Port:     u.Port(),
	}
	if t.Port == "443" {
		t.Port = ""
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		path += "#" + u.EscapedFragment()
	}
	t.Path = path

	if u.User != nil && u.User.Username() != "" {
		t.Auth = u.User.Username()
		if pw, ok := u.User.Password(); ok && pw != "" {
			t.Auth += ":" + pw
		}
	}

	return t, nil
}

// Host returns hostname[:port] suitable for dialing and the Host header.
func (t *Target) Host() string {
	host := t.Hostname
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if t.Port != "" {
		host += ":" + t.Port
	}
	return host
}

// String returns the target without credentials.
func (t *Target) String() string {
	return strings.TrimSuffix(t.Protocol, ":") + "://" + t.Host() + t.Path
}
