package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setTestConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func writeTestConfig(t *testing.T, dir, content string) {
	t.Helper()
	cfgDir := filepath.Join(dir, "fitterm")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_CreatesDefaults(t *testing.T) {
	dir := setTestConfigDir(t)

	store := Load()
	if warn := store.LoadWarning(); warn != nil {
		t.Fatalf("LoadWarning = %v, want nil", warn)
	}
	if store.Config.CatalogURL != defaultCatalogURL {
		t.Fatalf("CatalogURL = %q, want %q", store.Config.CatalogURL, defaultCatalogURL)
	}
	if store.Config.CatalogLanguage != defaultCatalogLanguage {
		t.Fatalf("CatalogLanguage = %d, want %d", store.Config.CatalogLanguage, defaultCatalogLanguage)
	}
	if store.Config.Name == "" {
		t.Fatal("Name should default to a non-empty value")
	}
	if _, err := os.Stat(filepath.Join(dir, "fitterm", "config.toml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	setTestConfigDir(t)

	store := Load()
	store.Config.Name = "Jordan"
	store.Config.Timezone = "America/Chicago"
	store.Config.CatalogLanguage = 4
	if err := store.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	again := Load()
	if again.Config.Name != "Jordan" {
		t.Fatalf("Name = %q, want Jordan", again.Config.Name)
	}
	if again.Config.Timezone != "America/Chicago" {
		t.Fatalf("Timezone = %q", again.Config.Timezone)
	}
	if again.Config.CatalogLanguage != 4 {
		t.Fatalf("CatalogLanguage = %d, want 4", again.Config.CatalogLanguage)
	}
}

func TestLoad_FillsMissingFields(t *testing.T) {
	dir := setTestConfigDir(t)
	writeTestConfig(t, dir, "name = \"Sam\"\n")

	store := Load()
	if store.Config.Name != "Sam" {
		t.Fatalf("Name = %q, want Sam", store.Config.Name)
	}
	if store.Config.CatalogURL != defaultCatalogURL {
		t.Fatalf("CatalogURL not defaulted: %q", store.Config.CatalogURL)
	}
}

func TestLoad_CorruptFileFallsBackToDefaults(t *testing.T) {
	dir := setTestConfigDir(t)
	writeTestConfig(t, dir, "not [valid toml")

	store := Load()
	if store.LoadWarning() == nil {
		t.Fatal("LoadWarning = nil, want parse warning")
	}
	if store.Config.CatalogURL != defaultCatalogURL {
		t.Fatalf("CatalogURL = %q, want default", store.Config.CatalogURL)
	}
	if store.Config.Name == "" {
		t.Fatal("Name should fall back to a non-empty default")
	}
	// The broken file stays put until the user saves.
	if err := store.Save(); err != nil {
		t.Fatalf("Save() after corrupt load error: %v", err)
	}
	if again := Load(); again.LoadWarning() != nil {
		t.Fatalf("reload after Save still warns: %v", again.LoadWarning())
	}
}

func TestLoad_UnresolvableDirStillStarts(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")

	store := Load()
	warn := store.LoadWarning()
	if warn == nil {
		t.Fatal("LoadWarning = nil, want resolve warning")
	}
	if msg := warn.Error(); strings.Contains(msg, "%!w") {
		t.Fatalf("warning renders a nil wrap: %q", msg)
	}
	if store.Config.CatalogURL != defaultCatalogURL {
		t.Fatalf("CatalogURL = %q, want default", store.Config.CatalogURL)
	}
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	store := &Store{Config: Data{Timezone: "Not/AZone"}}
	if got := store.Location(); got.String() != "UTC" {
		t.Fatalf("Location() = %q, want UTC", got)
	}
}
