package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// platformUnknownStr is the string representation for unknown platform values.
const platformUnknownStr = "unknown"

// Platform represents a social platform a pseudonym can point at.
type Platform string

// Platform constants.
//
// The order of declaration mirrors the classifier's matcher registration
// order (see internal/classify). Do not reorder without updating the
// classifier table.
const (
	// PlatformUnknown represents an unrecognized platform.
	PlatformUnknown Platform = ""
	// PlatformTwitter represents Twitter/X.
	PlatformTwitter Platform = "twitter"
	// PlatformInstagram represents Instagram.
	PlatformInstagram Platform = "instagram"
	// PlatformMicroblog represents Micro.blog.
	PlatformMicroblog Platform = "micro.blog"
	// PlatformLinkedIn represents LinkedIn.
	PlatformLinkedIn Platform = "linkedin"
	// PlatformGitHub represents GitHub.
	PlatformGitHub Platform = "github"
	// PlatformKeybase represents Keybase.
	PlatformKeybase Platform = "keybase"
)

// String returns the string representation of the Platform.
func (p Platform) String() string {
	if p == PlatformUnknown {
		return platformUnknownStr
	}
	return string(p)
}

// IsValid returns true if this is a known platform.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformTwitter, PlatformInstagram, PlatformMicroblog,
		PlatformLinkedIn, PlatformGitHub, PlatformKeybase:
		return true
	default:
		return false
	}
}

// platformTitles maps platforms to their display titles.
// These are brand spellings that simple title-casing would get wrong.
var platformTitles = map[Platform]string{
	PlatformTwitter:   "Twitter",
	PlatformInstagram: "Instagram",
	PlatformMicroblog: "Micro.blog",
	PlatformLinkedIn:  "LinkedIn",
	PlatformGitHub:    "GitHub",
	PlatformKeybase:   "Keybase",
}

// Title returns a human-readable display title for the platform.
// Unknown platforms fall back to generic title casing.
func (p Platform) Title() string {
	if title, ok := platformTitles[p]; ok {
		return title
	}
	return cases.Title(language.English).String(p.String())
}

// ParsePlatform converts a string to a Platform.
// Matching is case-insensitive; unrecognized values return PlatformUnknown.
func ParsePlatform(s string) Platform {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "twitter", "x":
		return PlatformTwitter
	case "instagram":
		return PlatformInstagram
	case "micro.blog":
		return PlatformMicroblog
	case "linkedin":
		return PlatformLinkedIn
	case "github":
		return PlatformGitHub
	case "keybase":
		return PlatformKeybase
	default:
		return PlatformUnknown
	}
}
