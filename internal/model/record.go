package model

import "time"

// Record is the persisted and wire representation of an Identity, keyed by
// canonical URL. Timestamps travel as float seconds since the Unix epoch,
// matching the stored format.
type Record struct {
	// URL is the canonical profile URL.
	URL string `json:"url"`

	// Name is the display name, or null when none was found.
	Name *string `json:"name"`

	// Nicknames are the h-card nicknames, or null when none were found.
	Nicknames []string `json:"nicknames"`

	// Timestamp is the fetch completion time in float seconds since epoch.
	Timestamp float64 `json:"timestamp"`

	// Pseudonyms lists the classified pseudonyms in link-encounter order.
	Pseudonyms []PseudonymRecord `json:"pseudonyms"`
}

// PseudonymRecord is the serialized form of a Pseudonym. The owning
// identity's back-reference is intentionally absent.
type PseudonymRecord struct {
	// Target is the platform identifier.
	Target string `json:"target"`

	// URL is the profile URL on the target platform.
	URL string `json:"url"`

	// Username is the platform-local username.
	Username string `json:"username"`
}

// DomainRecord is the legacy domain-keyed representation. It is keyed by
// bare domain instead of full URL and carries no nicknames.
type DomainRecord struct {
	// Domain is the bare lowercase domain name.
	Domain string `json:"domain"`

	// Name is the display name, or null when none was found.
	Name *string `json:"name"`

	// Timestamp is the fetch completion time in float seconds since epoch.
	Timestamp float64 `json:"timestamp"`

	// Pseudonyms lists the classified pseudonyms in link-encounter order.
	Pseudonyms []PseudonymRecord `json:"pseudonyms"`
}

// EpochSeconds converts a time.Time to float seconds since the Unix epoch.
// The zero time maps to 0. Seconds and nanoseconds are combined separately
// instead of converting UnixNano, which loses precision for current dates.
func EpochSeconds(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}

// TimeFromEpochSeconds converts float epoch seconds back to a time.Time.
// Zero maps to the zero time.
func TimeFromEpochSeconds(s float64) time.Time {
	if s == 0 {
		return time.Time{}
	}
	secs := int64(s)
	nanos := int64((s - float64(secs)) * float64(time.Second))
	return time.Unix(secs, nanos)
}

// NewRecord builds the persisted representation of an Identity.
func NewRecord(identity *Identity) *Record {
	rec := &Record{
		URL:        identity.URL,
		Timestamp:  EpochSeconds(identity.Timestamp),
		Pseudonyms: pseudonymRecords(identity),
	}
	if identity.Name != "" {
		name := identity.Name
		rec.Name = &name
	}
	if len(identity.Nicknames) > 0 {
		rec.Nicknames = append([]string(nil), identity.Nicknames...)
	}
	return rec
}

// Identity rebuilds an Identity from its record. Pseudonym entries with an
// unrecognized target are skipped rather than failing the whole record, so
// records written by newer versions still load.
func (r *Record) Identity() *Identity {
	identity := &Identity{
		URL:        r.URL,
		Timestamp:  TimeFromEpochSeconds(r.Timestamp),
		pseudonyms: make(map[Platform]*Pseudonym),
	}
	if r.Name != nil {
		identity.Name = *r.Name
	}
	if len(r.Nicknames) > 0 {
		identity.Nicknames = append([]string(nil), r.Nicknames...)
	}
	for _, pr := range r.Pseudonyms {
		platform := ParsePlatform(pr.Target)
		if platform == PlatformUnknown {
			continue
		}
		identity.AddPseudonym(&Pseudonym{
			Platform: platform,
			URL:      pr.URL,
			Username: pr.Username,
		})
	}
	return identity
}

// NewDomainRecord builds the legacy domain-keyed representation of an
// Identity. Nicknames are dropped: the legacy format never carried them.
func NewDomainRecord(domain DomainName, identity *Identity) *DomainRecord {
	rec := &DomainRecord{
		Domain:     domain.String(),
		Timestamp:  EpochSeconds(identity.Timestamp),
		Pseudonyms: pseudonymRecords(identity),
	}
	if identity.Name != "" {
		name := identity.Name
		rec.Name = &name
	}
	return rec
}

// Identity rebuilds an Identity from a legacy domain record. The rebuilt
// pseudonyms carry no owner back-reference, matching the legacy format.
func (r *DomainRecord) Identity() *Identity {
	identity := &Identity{
		URL:        "https://" + r.Domain + "/",
		Timestamp:  TimeFromEpochSeconds(r.Timestamp),
		pseudonyms: make(map[Platform]*Pseudonym),
	}
	if r.Name != nil {
		identity.Name = *r.Name
	}
	for _, pr := range r.Pseudonyms {
		platform := ParsePlatform(pr.Target)
		if platform == PlatformUnknown {
			continue
		}
		if _, exists := identity.pseudonyms[platform]; exists {
			continue
		}
		identity.pseudonyms[platform] = &Pseudonym{
			Platform: platform,
			URL:      pr.URL,
			Username: pr.Username,
		}
		identity.order = append(identity.order, platform)
	}
	return identity
}

// pseudonymRecords serializes an identity's pseudonyms in insertion order.
func pseudonymRecords(identity *Identity) []PseudonymRecord {
	pseudonyms := identity.Pseudonyms()
	out := make([]PseudonymRecord, 0, len(pseudonyms))
	for _, p := range pseudonyms {
		out = append(out, PseudonymRecord{
			Target:   p.Platform.String(),
			URL:      p.URL,
			Username: p.Username,
		})
	}
	return out
}
