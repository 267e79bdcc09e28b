package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"fitterm/internal/client"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fitterm.db")
	store, err := OpenPath(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("OpenPath returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLoadClients_EmptyStore(t *testing.T) {
	store := openTestStore(t)
	clients, err := store.LoadClients(context.Background())
	if err != nil {
		t.Fatalf("LoadClients returned error: %v", err)
	}
	if len(clients) != 0 {
		t.Fatalf("LoadClients on empty store = %#v, want empty", clients)
	}
}

func TestSaveClients_RoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	want := []client.Client{
		{ID: 1717171717171, FullName: "Jane Doe", Age: "30", Gender: "female", Email: "jane@x.com", Phone: "(555) 123-4567x1", Goal: "Lose weight", StartDate: "2099-01-01", EndDate: "2099-02-01"},
		{ID: 1717171717172, FullName: "John Smith", Email: "john@x.edu", Phone: "15551234567", Goal: "Build muscle", StartDate: "2099-01-01", EndDate: "2099-02-01"},
	}
	if err := store.SaveClients(ctx, want); err != nil {
		t.Fatalf("SaveClients returned error: %v", err)
	}

	got, err := store.LoadClients(ctx)
	if err != nil {
		t.Fatalf("LoadClients returned error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("LoadClients returned %d clients, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("client %d = %#v, want %#v", i, got[i], want[i])
		}
	}
}

func TestSaveClients_LastWriteWins(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := []client.Client{{ID: 1, FullName: "Jane Doe"}, {ID: 2, FullName: "John Smith"}}
	if err := store.SaveClients(ctx, first); err != nil {
		t.Fatalf("SaveClients returned error: %v", err)
	}
	second := []client.Client{{ID: 2, FullName: "John Smith"}}
	if err := store.SaveClients(ctx, second); err != nil {
		t.Fatalf("SaveClients returned error: %v", err)
	}

	got, err := store.LoadClients(ctx)
	if err != nil {
		t.Fatalf("LoadClients returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("LoadClients = %#v, want only the second snapshot", got)
	}
}

func TestResolveDBPath_NoConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")

	_, err := resolveDBPath()
	if err == nil {
		t.Fatal("resolveDBPath succeeded with no resolvable directory")
	}
	if strings.Contains(err.Error(), "%!w") {
		t.Fatalf("error renders a nil wrap: %q", err)
	}
}

func TestLoadClients_CorruptBlobTreatedAsEmpty(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)`, clientsKey, "{not-json"); err != nil {
		t.Fatalf("seed corrupt blob: %v", err)
	}

	got, err := store.LoadClients(ctx)
	if err != nil {
		t.Fatalf("LoadClients returned error: %v, want silent recovery", err)
	}
	if len(got) != 0 {
		t.Fatalf("LoadClients on corrupt blob = %#v, want empty", got)
	}
}
