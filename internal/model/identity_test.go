package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestIdentityAddPseudonym(t *testing.T) {
	t.Parallel()

	t.Run("first pseudonym per platform wins", func(t *testing.T) {
		t.Parallel()
		identity := NewIdentity(MustNewProfileURL("https://example.com/"))

		first := &Pseudonym{Platform: PlatformTwitter, URL: "https://twitter.com/alice", Username: "alice"}
		second := &Pseudonym{Platform: PlatformTwitter, URL: "https://twitter.com/bob", Username: "bob"}

		if !identity.AddPseudonym(first) {
			t.Fatal("expected first pseudonym to be added")
		}
		if identity.AddPseudonym(second) {
			t.Error("expected second pseudonym for same platform to be rejected")
		}
		if got := identity.Pseudonym(PlatformTwitter).Username; got != "alice" {
			t.Errorf("expected alice to be retained, got %s", got)
		}
	})

	t.Run("rejects invalid platform", func(t *testing.T) {
		t.Parallel()
		identity := NewIdentity(MustNewProfileURL("https://example.com/"))
		if identity.AddPseudonym(&Pseudonym{Platform: PlatformUnknown, Username: "x"}) {
			t.Error("expected unknown platform to be rejected")
		}
		if identity.AddPseudonym(nil) {
			t.Error("expected nil pseudonym to be rejected")
		}
	})

	t.Run("preserves insertion order", func(t *testing.T) {
		t.Parallel()
		identity := NewIdentity(MustNewProfileURL("https://example.com/"))
		identity.AddPseudonym(&Pseudonym{Platform: PlatformGitHub, Username: "alice"})
		identity.AddPseudonym(&Pseudonym{Platform: PlatformTwitter, Username: "alice"})
		identity.AddPseudonym(&Pseudonym{Platform: PlatformKeybase, Username: "alice"})

		want := []Platform{PlatformGitHub, PlatformTwitter, PlatformKeybase}
		got := identity.Pseudonyms()
		if len(got) != len(want) {
			t.Fatalf("expected %d pseudonyms, got %d", len(want), len(got))
		}
		for i, p := range got {
			if p.Platform != want[i] {
				t.Errorf("position %d: expected %s, got %s", i, want[i], p.Platform)
			}
		}
	})

	t.Run("wires the owner back-reference", func(t *testing.T) {
		t.Parallel()
		identity := NewIdentity(MustNewProfileURL("https://example.com/"))
		p := &Pseudonym{Platform: PlatformTwitter, URL: "https://twitter.com/alice", Username: "alice"}
		identity.AddPseudonym(p)
		if p.Owner() != identity {
			t.Error("expected owner to be the identity the pseudonym was added to")
		}
	})

	t.Run("PseudonymByName matches case-insensitively", func(t *testing.T) {
		t.Parallel()
		identity := NewIdentity(MustNewProfileURL("https://example.com/"))
		identity.AddPseudonym(&Pseudonym{Platform: PlatformGitHub, Username: "alice"})
		if identity.PseudonymByName("GitHub") == nil {
			t.Error("expected GitHub lookup to succeed")
		}
		if identity.PseudonymByName("gopher") != nil {
			t.Error("expected unknown name lookup to return nil")
		}
	})
}

func TestPseudonymMentions(t *testing.T) {
	t.Parallel()

	t.Run("MentionText prefixes the username", func(t *testing.T) {
		t.Parallel()
		p := &Pseudonym{Platform: PlatformTwitter, URL: "https://twitter.com/alice", Username: "alice"}
		if got := p.MentionText(); got != "@alice" {
			t.Errorf("expected @alice, got %s", got)
		}
	})

	t.Run("MentionHTML falls back to mention text without a name", func(t *testing.T) {
		t.Parallel()
		identity := NewIdentity(MustNewProfileURL("https://example.com/"))
		p := &Pseudonym{Platform: PlatformTwitter, URL: "https://twitter.com/alice", Username: "alice"}
		identity.AddPseudonym(p)

		want := `<a href="https://twitter.com/alice">@alice</a>`
		if got := p.MentionHTML(); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	})

	t.Run("MentionHTML uses the owner's display name", func(t *testing.T) {
		t.Parallel()
		identity := NewIdentity(MustNewProfileURL("https://example.com/"))
		identity.Name = "Alice Example"
		p := &Pseudonym{Platform: PlatformTwitter, URL: "https://twitter.com/alice", Username: "alice"}
		identity.AddPseudonym(p)

		want := `<a href="https://twitter.com/alice">Alice Example</a>`
		if got := p.MentionHTML(); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	})
}

func TestRecordRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("identity survives the record round trip", func(t *testing.T) {
		t.Parallel()
		identity := NewIdentity(MustNewProfileURL("https://example.com/"))
		identity.Name = "Alice Example"
		identity.Nicknames = []string{"alice", "al"}
		identity.Timestamp = time.Unix(1700000000, 500000000)
		identity.AddPseudonym(&Pseudonym{Platform: PlatformTwitter, URL: "https://twitter.com/alice", Username: "alice"})
		identity.AddPseudonym(&Pseudonym{Platform: PlatformGitHub, URL: "https://github.com/alice", Username: "alice"})

		rebuilt := NewRecord(identity).Identity()

		if rebuilt.URL != identity.URL {
			t.Errorf("url mismatch: %s vs %s", rebuilt.URL, identity.URL)
		}
		if rebuilt.Name != identity.Name {
			t.Errorf("name mismatch: %s vs %s", rebuilt.Name, identity.Name)
		}
		if len(rebuilt.Nicknames) != 2 || rebuilt.Nicknames[0] != "alice" {
			t.Errorf("nicknames mismatch: %v", rebuilt.Nicknames)
		}
		if !rebuilt.Timestamp.Equal(identity.Timestamp) {
			t.Errorf("timestamp mismatch: %v vs %v", rebuilt.Timestamp, identity.Timestamp)
		}
		if len(rebuilt.Pseudonyms()) != 2 {
			t.Fatalf("expected 2 pseudonyms, got %d", len(rebuilt.Pseudonyms()))
		}
		if rebuilt.Pseudonym(PlatformTwitter).Owner() != rebuilt {
			t.Error("expected rebuilt pseudonyms to reference the rebuilt identity")
		}
	})

	t.Run("record JSON uses null for missing name and nicknames", func(t *testing.T) {
		t.Parallel()
		identity := NewIdentity(MustNewProfileURL("https://example.com/"))
		data, err := json.Marshal(NewRecord(identity))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(raw["name"]) != "null" {
			t.Errorf("expected null name, got %s", raw["name"])
		}
		if string(raw["nicknames"]) != "null" {
			t.Errorf("expected null nicknames, got %s", raw["nicknames"])
		}
	})

	t.Run("unknown pseudonym targets are skipped", func(t *testing.T) {
		t.Parallel()
		rec := &Record{
			URL: "https://example.com/",
			Pseudonyms: []PseudonymRecord{
				{Target: "teleporter", URL: "https://teleporter.example/alice", Username: "alice"},
				{Target: "github", URL: "https://github.com/alice", Username: "alice"},
			},
		}
		identity := rec.Identity()
		if len(identity.Pseudonyms()) != 1 {
			t.Fatalf("expected 1 pseudonym, got %d", len(identity.Pseudonyms()))
		}
		if identity.Pseudonym(PlatformGitHub) == nil {
			t.Error("expected github pseudonym to survive")
		}
	})

	t.Run("domain record drops nicknames and back-references", func(t *testing.T) {
		t.Parallel()
		identity := NewIdentity(MustNewProfileURL("https://example.com/"))
		identity.Name = "Alice Example"
		identity.Nicknames = []string{"alice"}
		identity.Timestamp = time.Unix(1700000000, 0)
		identity.AddPseudonym(&Pseudonym{Platform: PlatformTwitter, URL: "https://twitter.com/alice", Username: "alice"})

		rec := NewDomainRecord(MustNewDomainName("example.com"), identity)
		if rec.Domain != "example.com" {
			t.Errorf("expected example.com, got %s", rec.Domain)
		}

		rebuilt := rec.Identity()
		if rebuilt.Nicknames != nil {
			t.Errorf("expected no nicknames, got %v", rebuilt.Nicknames)
		}
		if rebuilt.Pseudonym(PlatformTwitter).Owner() != nil {
			t.Error("expected legacy pseudonym to carry no owner back-reference")
		}
	})
}

func TestEpochSeconds(t *testing.T) {
	t.Parallel()

	t.Run("zero time maps to zero and back", func(t *testing.T) {
		t.Parallel()
		if got := EpochSeconds(time.Time{}); got != 0 {
			t.Errorf("expected 0, got %f", got)
		}
		if got := TimeFromEpochSeconds(0); !got.IsZero() {
			t.Errorf("expected zero time, got %v", got)
		}
	})

	t.Run("round trip keeps sub-second precision", func(t *testing.T) {
		t.Parallel()
		orig := time.Unix(1700000000, 250000000)
		got := TimeFromEpochSeconds(EpochSeconds(orig))
		if d := got.Sub(orig); d > time.Millisecond || d < -time.Millisecond {
			t.Errorf("round trip drifted by %v", d)
		}
	})
}
