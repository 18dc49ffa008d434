package config

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestServerURL(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	url := settings.GetServerURL()
	if url != DefaultServerURL {
		t.Errorf("Expected default server URL %s, got %s", DefaultServerURL, url)
	}

	// Test setting custom value
	settings.SetServerURL("http://localhost:8080")
	if settings.GetServerURL() != "http://localhost:8080" {
		t.Errorf("Expected custom server URL, got %s", settings.GetServerURL())
	}
}

func TestAccessTokenLifecycle(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// No token persisted yet
	if _, ok := settings.AccessToken(); ok {
		t.Error("Expected no access token initially")
	}

	// Valid token
	settings.SetAccessToken("tok-123", time.Now().Add(TokenLifetime))
	token, ok := settings.AccessToken()
	if !ok {
		t.Fatal("Expected access token to be available")
	}
	if token != "tok-123" {
		t.Errorf("Expected token 'tok-123', got %q", token)
	}

	// Clearing removes it
	settings.ClearAccessToken()
	if _, ok := settings.AccessToken(); ok {
		t.Error("Expected no access token after clearing")
	}
}

func TestAccessTokenExpiry(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	settings.SetAccessToken("stale", time.Now().Add(-time.Hour))

	if _, ok := settings.AccessToken(); ok {
		t.Error("Expired token should not be returned")
	}

	// The stale value must also have been cleared from the store
	if app.Preferences().String(KeyAccessToken) != "" {
		t.Error("Expired token should be removed from preferences")
	}
}

func TestDarkMode(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.GetDarkMode() {
		t.Error("Dark mode should default to off")
	}

	settings.SetDarkMode(true)
	if !settings.GetDarkMode() {
		t.Error("Expected dark mode to be enabled")
	}
}

func TestDownloadDirectory(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	dir := settings.GetDownloadDirectory()
	if dir == "" {
		t.Error("Download directory should not be empty")
	}

	customDir := "/custom/downloads"
	settings.SetDownloadDirectory(customDir)
	if settings.GetDownloadDirectory() != customDir {
		t.Errorf("Expected download directory %s, got %s", customDir, settings.GetDownloadDirectory())
	}
}

func TestMaxUploadSizeMB(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	if settings.GetMaxUploadSizeMB() != DefaultMaxUploadSizeMB {
		t.Errorf("Expected default max upload %d, got %d", DefaultMaxUploadSizeMB, settings.GetMaxUploadSizeMB())
	}

	// Test setting custom value
	settings.SetMaxUploadSizeMB(50)
	if settings.GetMaxUploadSizeMB() != 50 {
		t.Errorf("Expected max upload 50, got %d", settings.GetMaxUploadSizeMB())
	}

	// Test boundary values
	settings.SetMaxUploadSizeMB(0) // Should be clamped to 1
	if settings.GetMaxUploadSizeMB() != 1 {
		t.Error("Max upload should be clamped to minimum 1")
	}

	settings.SetMaxUploadSizeMB(500) // Should be clamped to the backend cap
	if settings.GetMaxUploadSizeMB() != DefaultMaxUploadSizeMB {
		t.Errorf("Max upload should be clamped to %d", DefaultMaxUploadSizeMB)
	}
}
