package model

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// URL and domain validation errors.
var (
	// ErrInvalidURL is returned when a URL does not use the http or https
	// scheme. Resolution never attempts a fetch for such URLs.
	ErrInvalidURL = errors.New("invalid identity URL: scheme must be http or https")
	// ErrInvalidDomain is returned when a legacy domain lookup uses a
	// string that is not a plausible DNS name.
	ErrInvalidDomain = errors.New("invalid domain name")
)

// ProfileURL is an immutable value object representing the canonical URL of
// a web identity. The canonical form is used as both the cache key and the
// persistence key, so all lookups must go through this type.
//
// Canonicalization rules:
//   - The scheme must be http or https; anything else is ErrInvalidURL.
//   - A URL with an empty path gets a trailing "/" appended.
//
// Canonicalization is idempotent: canonicalizing an already-canonical URL
// yields the same string.
type ProfileURL struct {
	canonical string
	domain    string
}

// NewProfileURL creates a ProfileURL from a raw URL string.
// Returns ErrInvalidURL (wrapped with the offending value) when the scheme
// is not http or https.
func NewProfileURL(raw string) (ProfileURL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ProfileURL{}, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return ProfileURL{}, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}

	if u.Path == "" {
		u.Path = "/"
	}

	return ProfileURL{
		canonical: u.String(),
		domain:    strings.ToLower(u.Hostname()),
	}, nil
}

// NewProfileURLFromToken creates a ProfileURL from a mention token.
// Tokens without an http or https prefix are treated as bare hosts and get
// "https://" prepended before the usual canonicalization rules apply.
func NewProfileURLFromToken(token string) (ProfileURL, error) {
	token = strings.TrimSpace(token)
	if !strings.HasPrefix(token, "http://") && !strings.HasPrefix(token, "https://") {
		token = "https://" + token
	}
	return NewProfileURL(token)
}

// MustNewProfileURL creates a ProfileURL or panics if invalid.
// Use only for known-valid URLs in tests or initialization.
func MustNewProfileURL(raw string) ProfileURL {
	pu, err := NewProfileURL(raw)
	if err != nil {
		panic(err)
	}
	return pu
}

// String returns the canonical URL string.
func (p ProfileURL) String() string {
	return p.canonical
}

// Domain returns the lowercase hostname of the URL.
func (p ProfileURL) Domain() string {
	return p.domain
}

// IsZero reports whether the ProfileURL is the zero value.
func (p ProfileURL) IsZero() bool {
	return p.canonical == ""
}

// domainRegex validates bare domain names for the legacy domain-keyed
// lookup path. One label plus TLD minimum, lowercase letters, digits and
// hyphens per label.
var domainRegex = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}$`)

// DomainName is an immutable value object for the legacy domain-keyed
// variant of identity resolution. Domains are stored lowercase.
type DomainName struct {
	name string
}

// NewDomainName validates and normalizes a bare domain name.
func NewDomainName(raw string) (DomainName, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if !domainRegex.MatchString(name) {
		return DomainName{}, fmt.Errorf("%w: %q", ErrInvalidDomain, raw)
	}
	return DomainName{name: name}, nil
}

// MustNewDomainName validates a domain name or panics.
// Use only for known-valid domains in tests or initialization.
func MustNewDomainName(raw string) DomainName {
	dn, err := NewDomainName(raw)
	if err != nil {
		panic(err)
	}
	return dn
}

// String returns the normalized domain name.
func (d DomainName) String() string {
	return d.name
}

// ProfileURL returns the canonical https URL for the domain's root page.
func (d DomainName) ProfileURL() ProfileURL {
	return MustNewProfileURL("https://" + d.name + "/")
}

// IsZero reports whether the DomainName is the zero value.
func (d DomainName) IsZero() bool {
	return d.name == ""
}
