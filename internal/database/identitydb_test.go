package database

import (
	"context"
	"testing"

	"github.com/cleverdevil/pseudonym/internal/model"
)

// openTestDB opens a fresh database in a temporary directory.
func openTestDB(t *testing.T) *IdentityDB {
	t.Helper()
	idb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := idb.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})
	return idb
}

func testRecord(url, name, username string) *model.Record {
	return &model.Record{
		URL:       url,
		Name:      &name,
		Nicknames: []string{"nick"},
		Timestamp: 1700000000.5,
		Pseudonyms: []model.PseudonymRecord{
			{Target: "twitter", URL: "https://twitter.com/" + username, Username: username},
		},
	}
}

func TestIdentityDBGetUpsert(t *testing.T) {
	t.Parallel()

	t.Run("Get returns nil for missing record", func(t *testing.T) {
		t.Parallel()
		idb := openTestDB(t)
		rec, err := idb.Get(context.Background(), "https://missing.example.com/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec != nil {
			t.Errorf("expected nil record, got %+v", rec)
		}
	})

	t.Run("Upsert then Get round trips the record", func(t *testing.T) {
		t.Parallel()
		idb := openTestDB(t)
		ctx := context.Background()

		want := testRecord("https://alice.example.com/", "Alice Example", "alice")
		if err := idb.Upsert(ctx, want); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := idb.Get(ctx, want.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil {
			t.Fatal("expected record")
		}
		if got.URL != want.URL {
			t.Errorf("url mismatch: %s vs %s", got.URL, want.URL)
		}
		if got.Name == nil || *got.Name != "Alice Example" {
			t.Errorf("name mismatch: %v", got.Name)
		}
		if len(got.Nicknames) != 1 || got.Nicknames[0] != "nick" {
			t.Errorf("nicknames mismatch: %v", got.Nicknames)
		}
		if got.Timestamp != want.Timestamp {
			t.Errorf("timestamp mismatch: %f vs %f", got.Timestamp, want.Timestamp)
		}
		if len(got.Pseudonyms) != 1 || got.Pseudonyms[0].Username != "alice" {
			t.Errorf("pseudonyms mismatch: %v", got.Pseudonyms)
		}
	})

	t.Run("Upsert overwrites rather than merges", func(t *testing.T) {
		t.Parallel()
		idb := openTestDB(t)
		ctx := context.Background()

		if err := idb.Upsert(ctx, testRecord("https://alice.example.com/", "Alice", "alice")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		replacement := &model.Record{
			URL:        "https://alice.example.com/",
			Timestamp:  1700000100,
			Pseudonyms: []model.PseudonymRecord{},
		}
		if err := idb.Upsert(ctx, replacement); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := idb.Get(ctx, "https://alice.example.com/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != nil {
			t.Errorf("expected name to be cleared, got %v", *got.Name)
		}
		if got.Nicknames != nil {
			t.Errorf("expected nicknames to be cleared, got %v", got.Nicknames)
		}
		if len(got.Pseudonyms) != 0 {
			t.Errorf("expected pseudonyms to be cleared, got %v", got.Pseudonyms)
		}
	})
}

func TestIdentityDBSearch(t *testing.T) {
	t.Parallel()

	t.Run("matches name, username, nickname and url", func(t *testing.T) {
		t.Parallel()
		idb := openTestDB(t)
		ctx := context.Background()

		if err := idb.Upsert(ctx, testRecord("https://alice.example.com/", "Alice Wonder", "wonderalice")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := idb.Upsert(ctx, testRecord("https://bob.example.org/", "Bob Builder", "bob")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, term := range []string{"Wonder", "wonderalice", "nick", "alice"} {
			results, err := idb.Search(ctx, term)
			if err != nil {
				t.Fatalf("search %q: unexpected error: %v", term, err)
			}
			if len(results) == 0 {
				t.Errorf("search %q: expected at least one result", term)
				continue
			}
			found := false
			for _, r := range results {
				if r.URL == "https://alice.example.com/" {
					found = true
				}
			}
			if !found {
				t.Errorf("search %q: expected alice record in results", term)
			}
		}
	})

	t.Run("non-matching term returns nothing", func(t *testing.T) {
		t.Parallel()
		idb := openTestDB(t)
		ctx := context.Background()

		if err := idb.Upsert(ctx, testRecord("https://alice.example.com/", "Alice", "alice")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		results, err := idb.Search(ctx, "zzzznotfound")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("expected no results, got %d", len(results))
		}
	})

	t.Run("empty term matches nothing", func(t *testing.T) {
		t.Parallel()
		idb := openTestDB(t)
		results, err := idb.Search(context.Background(), "   ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("expected no results, got %d", len(results))
		}
	})

	t.Run("query syntax characters are treated literally", func(t *testing.T) {
		t.Parallel()
		idb := openTestDB(t)
		if _, err := idb.Search(context.Background(), `alice" OR x`); err != nil {
			t.Errorf("expected quoted search to be valid, got %v", err)
		}
	})

	t.Run("re-upserting keeps a single search row", func(t *testing.T) {
		t.Parallel()
		idb := openTestDB(t)
		ctx := context.Background()

		for range 3 {
			if err := idb.Upsert(ctx, testRecord("https://alice.example.com/", "Alice", "alice")); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		results, err := idb.Search(ctx, "alice")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 {
			t.Errorf("expected exactly one result, got %d", len(results))
		}
	})
}

func TestIdentityDBDomains(t *testing.T) {
	t.Parallel()

	t.Run("GetDomain returns nil for missing record", func(t *testing.T) {
		t.Parallel()
		idb := openTestDB(t)
		rec, err := idb.GetDomain(context.Background(), "missing.example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec != nil {
			t.Errorf("expected nil record, got %+v", rec)
		}
	})

	t.Run("UpsertDomain then GetDomain round trips", func(t *testing.T) {
		t.Parallel()
		idb := openTestDB(t)
		ctx := context.Background()

		name := "Alice Example"
		want := &model.DomainRecord{
			Domain:    "alice.example.com",
			Name:      &name,
			Timestamp: 1700000000,
			Pseudonyms: []model.PseudonymRecord{
				{Target: "github", URL: "https://github.com/alice", Username: "alice"},
			},
		}
		if err := idb.UpsertDomain(ctx, want); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := idb.GetDomain(ctx, "alice.example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil {
			t.Fatal("expected record")
		}
		if got.Domain != want.Domain {
			t.Errorf("domain mismatch: %s vs %s", got.Domain, want.Domain)
		}
		if len(got.Pseudonyms) != 1 || got.Pseudonyms[0].Target != "github" {
			t.Errorf("pseudonyms mismatch: %v", got.Pseudonyms)
		}
	})

	t.Run("SearchDomains matches stored usernames", func(t *testing.T) {
		t.Parallel()
		idb := openTestDB(t)
		ctx := context.Background()

		rec := &model.DomainRecord{
			Domain:    "alice.example.com",
			Timestamp: 1700000000,
			Pseudonyms: []model.PseudonymRecord{
				{Target: "keybase", URL: "https://keybase.io/wonderland", Username: "wonderland"},
			},
		}
		if err := idb.UpsertDomain(ctx, rec); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		results, err := idb.SearchDomains(ctx, "wonderland")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 || results[0].Domain != "alice.example.com" {
			t.Errorf("expected alice.example.com, got %v", results)
		}
	})
}
