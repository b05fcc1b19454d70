package classify

import (
	"regexp"
	"strings"

	"github.com/cleverdevil/pseudonym/internal/model"
)

// twitterIntentArtifact is the residue of legacy Twitter web-intent links
// (twitter.com/intent/user?screen_name=alice) after path separators are
// stripped from the captured segment.
const twitterIntentArtifact = "intentuser?screen_name="

// matcher pairs a platform with the pattern that recognizes its profile
// URLs. The pattern's first capture group is the username-bearing path
// segment. postProcess, when set, cleans up the captured username after
// separators are removed.
type matcher struct {
	platform    model.Platform
	pattern     *regexp.Regexp
	postProcess func(string) string
}

// Classifier classifies URLs against a fixed, ordered table of platform
// matchers. It is safe for concurrent use: the table is immutable after
// construction.
type Classifier struct {
	matchers []matcher
}

// NewClassifier builds the classifier with its static matcher table.
//
// Matchers are tried in table order and the first match wins. The order is
// deliberate and stable: twitter, instagram, micro.blog, linkedin, github,
// keybase. Two patterns could both match a pathological URL, so reordering
// the table is an observable behavior change.
func NewClassifier() *Classifier {
	return &Classifier{
		matchers: []matcher{
			{
				platform: model.PlatformTwitter,
				pattern:  regexp.MustCompile(`(?i)^https?://(?:www\.)?twitter\.com/(\S+)`),
				postProcess: func(username string) string {
					return strings.TrimPrefix(username, twitterIntentArtifact)
				},
			},
			{
				platform: model.PlatformInstagram,
				pattern:  regexp.MustCompile(`(?i)^https?://(?:www\.)?instagram\.com/(\S+)`),
			},
			{
				platform: model.PlatformMicroblog,
				pattern:  regexp.MustCompile(`(?i)^https?://(?:www\.)?micro\.blog/(\S+)`),
			},
			{
				platform: model.PlatformLinkedIn,
				pattern:  regexp.MustCompile(`(?i)^https?://(?:www\.)?linkedin\.com/in/(\S+)`),
			},
			{
				platform: model.PlatformGitHub,
				pattern:  regexp.MustCompile(`(?i)^https?://(?:www\.)?github\.com/(\S+)`),
			},
			{
				platform: model.PlatformKeybase,
				pattern:  regexp.MustCompile(`(?i)^https?://(?:www\.)?keybase\.io/(\S+)`),
			},
		},
	}
}

// Classify matches a single URL against the platform table.
//
// Returns the classified pseudonym and true on the first matching entry, or
// (nil, false) when no platform recognizes the URL. A miss is not an error:
// it simply means the link is not a known platform profile.
//
// The extracted username has path separators stripped, so a trailing slash
// or an extra path segment does not leak into the username.
func (c *Classifier) Classify(rawURL string) (*model.Pseudonym, bool) {
	for _, m := range c.matchers {
		match := m.pattern.FindStringSubmatch(rawURL)
		if match == nil {
			continue
		}

		username := strings.ReplaceAll(match[1], "/", "")
		if m.postProcess != nil {
			username = m.postProcess(username)
		}
		if username == "" {
			continue
		}

		return &model.Pseudonym{
			Platform: m.platform,
			URL:      rawURL,
			Username: username,
		}, true
	}
	return nil, false
}

// Platforms returns the platforms in matcher table order.
func (c *Classifier) Platforms() []model.Platform {
	out := make([]model.Platform, 0, len(c.matchers))
	for _, m := range c.matchers {
		out = append(out, m.platform)
	}
	return out
}
