package model

import "testing"

func TestPlatform(t *testing.T) {
	t.Parallel()

	t.Run("String returns correct value", func(t *testing.T) {
		t.Parallel()
		if got := PlatformTwitter.String(); got != "twitter" {
			t.Errorf("expected twitter, got %s", got)
		}
		if got := PlatformMicroblog.String(); got != "micro.blog" {
			t.Errorf("expected micro.blog, got %s", got)
		}
		if got := PlatformUnknown.String(); got != "unknown" {
			t.Errorf("expected unknown, got %s", got)
		}
	})

	t.Run("IsValid returns true for known platforms", func(t *testing.T) {
		t.Parallel()
		for _, p := range []Platform{
			PlatformTwitter, PlatformInstagram, PlatformMicroblog,
			PlatformLinkedIn, PlatformGitHub, PlatformKeybase,
		} {
			if !p.IsValid() {
				t.Errorf("expected %s to be valid", p)
			}
		}
		if PlatformUnknown.IsValid() {
			t.Error("expected unknown to be invalid")
		}
	})

	t.Run("Title returns brand spellings", func(t *testing.T) {
		t.Parallel()
		if got := PlatformGitHub.Title(); got != "GitHub" {
			t.Errorf("expected GitHub, got %s", got)
		}
		if got := PlatformLinkedIn.Title(); got != "LinkedIn" {
			t.Errorf("expected LinkedIn, got %s", got)
		}
		if got := PlatformMicroblog.Title(); got != "Micro.blog" {
			t.Errorf("expected Micro.blog, got %s", got)
		}
	})

	t.Run("ParsePlatform parses case-insensitively", func(t *testing.T) {
		t.Parallel()
		if got := ParsePlatform("Twitter"); got != PlatformTwitter {
			t.Errorf("expected twitter, got %v", got)
		}
		if got := ParsePlatform("x"); got != PlatformTwitter {
			t.Errorf("expected twitter for x, got %v", got)
		}
		if got := ParsePlatform("GITHUB"); got != PlatformGitHub {
			t.Errorf("expected github, got %v", got)
		}
		if got := ParsePlatform("myspace"); got != PlatformUnknown {
			t.Errorf("expected unknown, got %v", got)
		}
	})
}
