package model

import (
	"fmt"
	"html"
)

// Pseudonym is a classified (platform, username) pair derived from a
// rel="me" link on an identity's page.
//
// The owner field is a non-owning back-reference to the Identity the
// pseudonym belongs to. It exists only so that MentionHTML can render the
// owner's display name; it is never serialized, which keeps the persisted
// representation free of ownership cycles. The reference is wired when the
// pseudonym is added to an Identity via AddPseudonym.
type Pseudonym struct {
	// Platform is the target platform this pseudonym lives on.
	Platform Platform

	// URL is the full profile URL on the target platform.
	URL string

	// Username is the platform-local username extracted by the classifier.
	Username string

	// owner is the Identity this pseudonym belongs to. May be nil for
	// pseudonyms rebuilt from the legacy domain-keyed records, which never
	// carried the back-reference.
	owner *Identity
}

// Owner returns the owning Identity, or nil when the pseudonym was rebuilt
// from a record without a back-reference.
func (p *Pseudonym) Owner() *Identity {
	return p.owner
}

// MentionText returns the plain-text mention form, "@" + username.
func (p *Pseudonym) MentionText() string {
	return "@" + p.Username
}

// MentionHTML returns an anchor element linking to the pseudonym's profile
// URL. The visible text is the owning identity's display name when one is
// known, otherwise the plain-text mention.
func (p *Pseudonym) MentionHTML() string {
	text := p.MentionText()
	if p.owner != nil && p.owner.Name != "" {
		text = p.owner.Name
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(p.URL), html.EscapeString(text))
}
