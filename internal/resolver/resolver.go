package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cleverdevil/pseudonym/internal/classify"
	"github.com/cleverdevil/pseudonym/internal/mf2"
	"github.com/cleverdevil/pseudonym/internal/model"
)

// DefaultTTL is how long a persisted record is considered fresh. The value
// is short on purpose: profile pages change rarely, but a newly added
// rel="me" link should show up within minutes, not days.
const DefaultTTL = 100 * time.Second

// Parser fetches a page and parses its microformats2 markup.
// Implemented by mf2.Client; faked in tests.
type Parser interface {
	Parse(ctx context.Context, pageURL string) (*mf2.Document, error)
}

// Store is the persistence contract the resolver depends on.
// Implemented by database.IdentityDB; faked in tests.
type Store interface {
	Get(ctx context.Context, url string) (*model.Record, error)
	Upsert(ctx context.Context, rec *model.Record) error
	GetDomain(ctx context.Context, domain string) (*model.DomainRecord, error)
	UpsertDomain(ctx context.Context, rec *model.DomainRecord) error
}

// Resolver resolves web identities with a TTL cache-aside strategy.
//
// Design decision: The store and parser are injected as explicit
// dependencies rather than reached through package-level state. The caller
// owns their lifecycle: open at process start, close at shutdown.
type Resolver struct {
	store      Store
	parser     Parser
	classifier *classify.Classifier
	ttl        time.Duration
	logger     *slog.Logger

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTTL sets the freshness window for cached records.
func WithTTL(ttl time.Duration) Option {
	return func(r *Resolver) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithClock sets the time source. Used by tests to control staleness.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

// New creates a Resolver with the given store and parser.
func New(store Store, parser Parser, opts ...Option) *Resolver {
	r := &Resolver{
		store:      store,
		parser:     parser,
		classifier: classify.NewClassifier(),
		ttl:        DefaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// TTL returns the configured freshness window.
func (r *Resolver) TTL() time.Duration {
	return r.ttl
}

// Resolve resolves a raw URL to an identity.
//
// The URL is canonicalized first; a non-http(s) scheme returns
// model.ErrInvalidURL without any fetch or store access. With force false,
// a persisted record younger than the TTL is returned as-is without
// fetching. Otherwise the fetch pipeline runs and its result is returned;
// a failed fetch returns ErrNotFound and persists nothing.
func (r *Resolver) Resolve(ctx context.Context, rawURL string, force bool) (*model.Identity, error) {
	u, err := model.NewProfileURL(rawURL)
	if err != nil {
		return nil, err
	}

	if !force {
		rec, err := r.store.Get(ctx, u.String())
		if err != nil {
			return nil, fmt.Errorf("failed to read identity record: %w", err)
		}
		if rec != nil {
			fetched := model.TimeFromEpochSeconds(rec.Timestamp)
			if r.now().Sub(fetched) < r.ttl {
				r.logger.DebugContext(ctx, "cache hit", "url", u.String(), "fetched", fetched)
				return rec.Identity(), nil
			}
			r.logger.DebugContext(ctx, "cache stale", "url", u.String(), "fetched", fetched)
		}
	}

	identity, err := r.Fetch(ctx, u)
	if err != nil {
		r.logger.DebugContext(ctx, "fetch failed", "url", u.String(), "error", err)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, u)
	}
	return identity, nil
}

// Fetch runs the fetch pipeline for a canonical URL and persists the
// result keyed by that URL. It always fetches, regardless of any cached
// record; the content transformer calls it directly for exactly that
// reason.
func (r *Resolver) Fetch(ctx context.Context, u model.ProfileURL) (*model.Identity, error) {
	identity, err := r.fetch(ctx, u)
	if err != nil {
		return nil, err
	}

	if err := r.store.Upsert(ctx, model.NewRecord(identity)); err != nil {
		return nil, fmt.Errorf("failed to persist identity record: %w", err)
	}
	return identity, nil
}

// ResolveDomain resolves a bare domain via the legacy domain-keyed path.
// Records on this path are keyed by domain and never carry nicknames. An
// invalid domain returns model.ErrInvalidDomain without any fetch or store
// access.
func (r *Resolver) ResolveDomain(ctx context.Context, rawDomain string, force bool) (*model.Identity, error) {
	dn, err := model.NewDomainName(rawDomain)
	if err != nil {
		return nil, err
	}

	if !force {
		rec, err := r.store.GetDomain(ctx, dn.String())
		if err != nil {
			return nil, fmt.Errorf("failed to read domain record: %w", err)
		}
		if rec != nil {
			fetched := model.TimeFromEpochSeconds(rec.Timestamp)
			if r.now().Sub(fetched) < r.ttl {
				r.logger.DebugContext(ctx, "cache hit", "domain", dn.String(), "fetched", fetched)
				return rec.Identity(), nil
			}
			r.logger.DebugContext(ctx, "cache stale", "domain", dn.String(), "fetched", fetched)
		}
	}

	identity, err := r.fetch(ctx, dn.ProfileURL())
	if err != nil {
		r.logger.DebugContext(ctx, "fetch failed", "domain", dn.String(), "error", err)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, dn)
	}

	if err := r.store.UpsertDomain(ctx, model.NewDomainRecord(dn, identity)); err != nil {
		return nil, fmt.Errorf("failed to persist domain record: %w", err)
	}
	return identity, nil
}

// fetch runs the fetch pipeline without persisting:
// parse markup, read the representative h-card, classify rel="me" links,
// stamp the completion time. A parse failure aborts the whole fetch and
// leaves nothing behind.
func (r *Resolver) fetch(ctx context.Context, u model.ProfileURL) (*model.Identity, error) {
	doc, err := r.parser.Parse(ctx, u.String())
	if err != nil {
		return nil, err
	}

	identity := model.NewIdentity(u)

	if card := doc.RepresentativeCard(); card != nil {
		identity.Name = card.Property("name")
		if nicknames := card.Properties["nickname"]; len(nicknames) > 0 {
			identity.Nicknames = append([]string(nil), nicknames...)
		}
	}

	for _, link := range doc.RelMe {
		p, ok := r.classifier.Classify(link)
		if !ok {
			// Not a recognized platform link; skip silently.
			continue
		}
		if !identity.AddPseudonym(p) {
			r.logger.DebugContext(ctx, "duplicate platform link discarded",
				"url", u.String(), "platform", p.Platform.String(), "link", link)
		}
	}

	identity.Timestamp = r.now()

	r.logger.InfoContext(ctx, "identity fetched",
		"url", u.String(),
		"name", identity.Name,
		"pseudonyms", len(identity.Pseudonyms()),
	)
	return identity, nil
}
