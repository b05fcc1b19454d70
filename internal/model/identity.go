package model

import "time"

// Identity is a web identity resolved from its canonical URL.
//
// An Identity owns its pseudonyms: at most one per platform, in the order
// the source links were encountered on the page. When two links classify to
// the same platform, the first one wins and later ones are discarded.
//
// Lifecycle: an Identity is created either by a fresh fetch (timestamp set,
// then persisted) or by deserializing a persisted record (timestamp copied,
// no fetch). Mutation happens only inside the fetch pipeline; callers treat
// an Identity rebuilt from a record as immutable.
type Identity struct {
	// URL is the canonical profile URL (see ProfileURL). It is the cache
	// key and the persistence key.
	URL string

	// Name is the display name from the representative h-card.
	// Empty when the page declares none.
	Name string

	// Nicknames are the p-nickname values from the representative h-card,
	// in markup order. Nil when the page declares none.
	Nicknames []string

	// Timestamp is the completion instant of the last fetch.
	// The zero value means the identity has never been fetched.
	Timestamp time.Time

	// pseudonyms maps each platform to its single pseudonym.
	pseudonyms map[Platform]*Pseudonym

	// order records platform insertion order so serialization and
	// iteration are deterministic.
	order []Platform
}

// NewIdentity creates an empty Identity for the given canonical URL.
func NewIdentity(u ProfileURL) *Identity {
	return &Identity{
		URL:        u.String(),
		pseudonyms: make(map[Platform]*Pseudonym),
	}
}

// AddPseudonym adds a pseudonym to the identity and wires its owner
// back-reference. Returns false when the platform is already taken, in
// which case the identity is unchanged (first-match-wins invariant).
func (i *Identity) AddPseudonym(p *Pseudonym) bool {
	if p == nil || !p.Platform.IsValid() {
		return false
	}
	if i.pseudonyms == nil {
		i.pseudonyms = make(map[Platform]*Pseudonym)
	}
	if _, exists := i.pseudonyms[p.Platform]; exists {
		return false
	}
	p.owner = i
	i.pseudonyms[p.Platform] = p
	i.order = append(i.order, p.Platform)
	return true
}

// Pseudonym returns the pseudonym for the given platform, or nil.
func (i *Identity) Pseudonym(platform Platform) *Pseudonym {
	return i.pseudonyms[platform]
}

// PseudonymByName looks up a pseudonym by platform name, matched
// case-insensitively. Returns nil for unknown names.
func (i *Identity) PseudonymByName(name string) *Pseudonym {
	platform := ParsePlatform(name)
	if platform == PlatformUnknown {
		return nil
	}
	return i.pseudonyms[platform]
}

// Pseudonyms returns all pseudonyms in insertion order.
func (i *Identity) Pseudonyms() []*Pseudonym {
	out := make([]*Pseudonym, 0, len(i.order))
	for _, platform := range i.order {
		out = append(out, i.pseudonyms[platform])
	}
	return out
}

// Fetched reports whether the identity has ever completed a fetch.
func (i *Identity) Fetched() bool {
	return !i.Timestamp.IsZero()
}

// Age returns how long ago the identity was fetched, relative to now.
// Meaningless for identities that were never fetched.
func (i *Identity) Age(now time.Time) time.Duration {
	return now.Sub(i.Timestamp)
}
