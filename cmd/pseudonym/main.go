// Package main provides the entry point for the pseudonym CLI.
//
// Pseudonym resolves web identities into their cross-platform pseudonyms.
// Given a personal URL it fetches the page, reads its microformats2 markup
// and rel="me" links, and reports the person's usernames on Twitter,
// GitHub, Instagram and other platforms.
//
// Usage:
//
//	pseudonym resolve <url>
//	pseudonym serve
//	pseudonym transform "hello @{alice.example.com}"
//
// See --help for all available options.
package main

// main is the entry point for pseudonym.
func main() {
	Execute()
}
