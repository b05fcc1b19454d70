package mention

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/cleverdevil/pseudonym/internal/model"
)

// OriginalVariant keys the untouched input content in a Transform result.
const OriginalVariant = "original"

// markerRegex matches @{token} markers. The token is any run of
// non-whitespace characters; the greedy match extends to the last closing
// brace in the run, so braces inside a URL token are kept.
var markerRegex = regexp.MustCompile(`@\{(\S+)\}`)

// Variant is one platform-specific rendering of a piece of content.
type Variant struct {
	// Text has markers replaced with plain-text mentions such as "@alice".
	Text string `json:"text"`
	// HTML has markers replaced with anchor elements linking to the
	// pseudonym's profile URL.
	HTML string `json:"html"`
}

// Fetcher resolves a profile URL to an identity. A fresh fetch is expected
// on every call; cached lookups are deliberately not part of this contract.
type Fetcher interface {
	Fetch(ctx context.Context, u model.ProfileURL) (*model.Identity, error)
}

// Transformer expands @{token} markers into per-platform content variants.
type Transformer struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithLogger sets the logger used for skipped markers.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transformer) {
		t.logger = logger
	}
}

// NewTransformer returns a Transformer backed by the given fetcher.
func NewTransformer(fetcher Fetcher, opts ...Option) *Transformer {
	t := &Transformer{
		fetcher: fetcher,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform resolves every @{token} marker in content and returns the
// resulting variants keyed by platform name. The "original" variant is
// always present and holds the input unchanged.
//
// Markers are processed independently and in order of appearance. A marker
// whose token is not a valid profile URL, or whose identity cannot be
// fetched, is left in place in every variant; one broken mention does not
// fail the whole transformation. Each platform variant is seeded from the
// original content the first time that platform appears and accumulates
// replacements from later markers.
func (t *Transformer) Transform(ctx context.Context, content string) map[string]Variant {
	variants := map[string]Variant{
		OriginalVariant: {Text: content, HTML: content},
	}

	for _, match := range markerRegex.FindAllStringSubmatch(content, -1) {
		marker, token := match[0], match[1]

		u, err := model.NewProfileURLFromToken(token)
		if err != nil {
			t.logger.DebugContext(ctx, "skipping mention with invalid token",
				slog.String("token", token), slog.String("error", err.Error()))
			continue
		}

		identity, err := t.fetcher.Fetch(ctx, u)
		if err != nil {
			t.logger.WarnContext(ctx, "skipping unresolvable mention",
				slog.String("url", u.String()), slog.String("error", err.Error()))
			continue
		}

		for _, p := range identity.Pseudonyms() {
			key := p.Platform.String()
			v, ok := variants[key]
			if !ok {
				v = Variant{Text: content, HTML: content}
			}
			v.Text = strings.ReplaceAll(v.Text, marker, p.MentionText())
			v.HTML = strings.ReplaceAll(v.HTML, marker, p.MentionHTML())
			variants[key] = v
		}
	}

	return variants
}
