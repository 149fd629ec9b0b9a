package app

import "testing"

func TestNormalizeDBURL(t *testing.T) {
	t.Run("appends flag when enabled", func(t *testing.T) {
		got := normalizeDBURL("postgres://u:p@localhost:5432/clubhouse?sslmode=disable", true)
		want := "postgres://u:p@localhost:5432/clubhouse?disable_prepared_binary_result=yes&sslmode=disable"
		if got != want {
			t.Fatalf("unexpected url: %q", got)
		}
	})

	t.Run("leaves url alone when disabled", func(t *testing.T) {
		raw := "postgres://u:p@localhost:5432/clubhouse?sslmode=disable"
		if got := normalizeDBURL(raw, false); got != raw {
			t.Fatalf("unexpected url: %q", got)
		}
	})

	t.Run("respects existing flag", func(t *testing.T) {
		raw := "postgres://u:p@localhost:5432/clubhouse?disable_prepared_binary_result=no"
		if got := normalizeDBURL(raw, true); got != raw {
			t.Fatalf("unexpected url: %q", got)
		}
	})
}

func TestDBNameFromURL(t *testing.T) {
	if got := dbNameFromURL("postgres://u:p@localhost:5432/clubhouse?sslmode=disable"); got != "clubhouse" {
		t.Fatalf("unexpected db name: %q", got)
	}
	if got := dbNameFromURL("host=localhost dbname=clubhouse user=u"); got != "clubhouse" {
		t.Fatalf("unexpected db name from keyword dsn: %q", got)
	}
	if got := dbNameFromURL(""); got != "" {
		t.Fatalf("expected empty db name, got %q", got)
	}
}
