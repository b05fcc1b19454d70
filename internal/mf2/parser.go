package mf2

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// CardTypeHCard is the microformats2 type for a person or organization.
const CardTypeHCard = "h-card"

// Card is a parsed microformats2 block (h-card, h-entry, ...).
type Card struct {
	// Type is the h-* class that marked the root element, e.g. "h-card".
	Type string

	// Properties maps property names (without the p-/u- prefix) to their
	// values in markup order, e.g. "name" -> ["Alice Example"].
	Properties map[string][]string
}

// Property returns the first value of the named property, or "".
func (c *Card) Property(name string) string {
	values := c.Properties[name]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Document is the parse result for a single page.
type Document struct {
	// URL is the page URL the document was parsed from.
	URL string

	// Cards groups all parsed microformat blocks by their h-* type.
	Cards map[string][]*Card

	// RelMe contains the rel="me" link targets in document order, resolved
	// against the page URL and deduplicated keeping the first occurrence.
	RelMe []string

	// representative is the h-card designated as authoritative for the
	// page, when one could be identified.
	representative *Card
}

// RepresentativeCard returns the h-card designated as authoritative for
// the page: the one whose uid or url property matches the page URL. When
// none is designated it falls back to the first h-card on the page, and
// returns nil only when the page has no h-card at all.
func (d *Document) RepresentativeCard() *Card {
	if d.representative != nil {
		return d.representative
	}
	if cards := d.Cards[CardTypeHCard]; len(cards) > 0 {
		return cards[0]
	}
	return nil
}

// Parser extracts microformats2 data from HTML content.
type Parser struct {
	// baseURL is the URL of the page being parsed, used for resolving
	// relative URLs.
	baseURL *url.URL
}

// NewParser creates a parser with the given base URL.
// The base URL is used to resolve relative rel="me" and u-* values.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &Parser{baseURL: u}, nil
}

// Parse parses HTML content and extracts cards and rel="me" links.
func (p *Parser) Parse(content io.Reader) (*Document, error) {
	root, err := html.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	doc := &Document{
		URL:   p.baseURL.String(),
		Cards: make(map[string][]*Card),
		RelMe: make([]string, 0),
	}

	seenRelMe := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if target, ok := p.relMeTarget(n); ok && !seenRelMe[target] {
				seenRelMe[target] = true
				doc.RelMe = append(doc.RelMe, target)
			}

			if cardType, ok := microformatType(n); ok {
				card := p.parseCard(n, cardType)
				doc.Cards[cardType] = append(doc.Cards[cardType], card)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	doc.representative = p.findRepresentative(doc.Cards[CardTypeHCard])
	return doc, nil
}

// relMeTarget returns the resolved href of an <a> or <link> element whose
// rel attribute contains "me".
func (p *Parser) relMeTarget(n *html.Node) (string, bool) {
	if n.Data != "a" && n.Data != "link" {
		return "", false
	}
	if !hasRelValue(getAttr(n, "rel"), "me") {
		return "", false
	}
	resolved := p.resolveURL(getAttr(n, "href"))
	if resolved == "" {
		return "", false
	}
	return resolved, true
}

// parseCard extracts the properties of a microformat root element.
// Nested microformat roots contribute their own card (collected by the
// caller's walk) but their internals do not leak into this card's
// properties.
func (p *Parser) parseCard(root *html.Node, cardType string) *Card {
	card := &Card{
		Type:       cardType,
		Properties: make(map[string][]string),
	}

	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if n != root {
				if _, nested := microformatType(n); nested {
					return
				}
			}
			for _, class := range strings.Fields(getAttr(n, "class")) {
				name, value, ok := p.propertyValue(n, class)
				if !ok || value == "" {
					continue
				}
				card.Properties[name] = append(card.Properties[name], value)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(root)

	p.implyProperties(root, card)
	return card
}

// propertyValue extracts a property name and value from a class attribute
// entry. p-* properties take the element's text (or alt for images); u-*
// properties take the resolved href or src.
func (p *Parser) propertyValue(n *html.Node, class string) (string, string, bool) {
	switch {
	case strings.HasPrefix(class, "p-"):
		name := strings.TrimPrefix(class, "p-")
		if n.Data == "img" {
			return name, strings.TrimSpace(getAttr(n, "alt")), true
		}
		return name, textContent(n), true

	case strings.HasPrefix(class, "u-"):
		name := strings.TrimPrefix(class, "u-")
		if n.Data == "img" {
			return name, p.resolveURL(getAttr(n, "src")), true
		}
		if href := getAttr(n, "href"); href != "" {
			return name, p.resolveURL(href), true
		}
		return name, textContent(n), true

	default:
		return "", "", false
	}
}

// implyProperties fills in the implied name and url for simple cards, the
// common pattern being <a class="h-card" href="/">Alice</a>. The implied
// name only applies to simple inline roots; a card spanning a whole page
// section must declare p-name explicitly.
func (p *Parser) implyProperties(root *html.Node, card *Card) {
	if len(card.Properties["name"]) == 0 && isSimpleRoot(root) {
		if name := textContent(root); name != "" {
			card.Properties["name"] = []string{name}
		}
	}
	if len(card.Properties["url"]) == 0 && (root.Data == "a" || root.Data == "link") {
		if href := p.resolveURL(getAttr(root, "href")); href != "" {
			card.Properties["url"] = []string{href}
		}
	}
}

// findRepresentative picks the h-card designated as authoritative for the
// page: the first card whose uid or url property equals the page URL.
func (p *Parser) findRepresentative(cards []*Card) *Card {
	page := p.baseURL.String()
	for _, card := range cards {
		for _, uid := range card.Properties["uid"] {
			if sameURL(uid, page) {
				return card
			}
		}
	}
	for _, card := range cards {
		for _, u := range card.Properties["url"] {
			if sameURL(u, page) {
				return card
			}
		}
	}
	return nil
}

// resolveURL resolves a possibly-relative URL against the base URL.
// Non-web schemes and fragment-only links resolve to "".
func (p *Parser) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return p.baseURL.ResolveReference(u).String()
}

// isSimpleRoot reports whether a microformat root is a simple inline
// element eligible for an implied name.
func isSimpleRoot(n *html.Node) bool {
	switch n.Data {
	case "a", "span", "abbr", "link":
		return true
	default:
		return false
	}
}

// microformatType returns the first h-* class of an element, if any.
func microformatType(n *html.Node) (string, bool) {
	for _, class := range strings.Fields(getAttr(n, "class")) {
		if strings.HasPrefix(class, "h-") && len(class) > 2 {
			return class, true
		}
	}
	return "", false
}

// hasRelValue reports whether a space-separated rel attribute contains the
// given value.
func hasRelValue(rel, value string) bool {
	for _, v := range strings.Fields(rel) {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

// sameURL compares two URLs ignoring a trailing slash difference.
func sameURL(a, b string) bool {
	return strings.TrimSuffix(a, "/") == strings.TrimSuffix(b, "/")
}

// textContent returns the whitespace-normalized text of a node's subtree.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
