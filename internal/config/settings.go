package config

import (
	"os"
	"time"

	"fyne.io/fyne/v2"

	"github.com/linea-it/pzserver-desktop/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyServerURL        = "server_url"
	KeyAccessToken      = "access_token"
	KeyAccessTokenUntil = "access_token_expiry"
	KeyDarkMode         = "dark_mode"
	KeyDownloadDir      = "download_directory"
	KeyMaxUploadSizeMB  = "max_upload_size_mb"
)

// Environment variables for the OAuth application credentials. These are
// deliberately not persisted in preferences.
const (
	EnvClientID     = "PZSERVER_CLIENT_ID"
	EnvClientSecret = "PZSERVER_CLIENT_SECRET"
	EnvServerURL    = "PZSERVER_URL"
)

// Default values
const (
	DefaultServerURL       = "https://pzserver.linea.org.br"
	DefaultMaxUploadSizeMB = 200

	// TokenLifetime is how long an issued token is kept before the user
	// must sign in again
	TokenLifetime = 2 * 24 * time.Hour
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetServerURL returns the configured backend base URL
func (s *Settings) GetServerURL() string {
	if env := os.Getenv(EnvServerURL); env != "" {
		return env
	}
	url := s.app.Preferences().String(KeyServerURL)
	if url == "" {
		s.SetServerURL(DefaultServerURL)
		return DefaultServerURL
	}
	return url
}

// SetServerURL sets the backend base URL
func (s *Settings) SetServerURL(url string) {
	s.app.Preferences().SetString(KeyServerURL, url)
}

// AccessToken returns the persisted bearer token, if one exists and has not
// expired. An expired token is cleared as a side effect.
func (s *Settings) AccessToken() (string, bool) {
	token := s.app.Preferences().String(KeyAccessToken)
	if token == "" {
		return "", false
	}

	until := s.app.Preferences().Int(KeyAccessTokenUntil)
	if until > 0 && time.Now().Unix() >= int64(until) {
		s.ClearAccessToken()
		return "", false
	}
	return token, true
}

// SetAccessToken persists the bearer token together with its expiry instant
func (s *Settings) SetAccessToken(token string, expiry time.Time) {
	s.app.Preferences().SetString(KeyAccessToken, token)
	s.app.Preferences().SetInt(KeyAccessTokenUntil, int(expiry.Unix()))
}

// ClearAccessToken removes the persisted bearer token
func (s *Settings) ClearAccessToken() {
	s.app.Preferences().RemoveValue(KeyAccessToken)
	s.app.Preferences().RemoveValue(KeyAccessTokenUntil)
}

// GetDarkMode returns whether the dark theme variant is enabled
func (s *Settings) GetDarkMode() bool {
	return s.app.Preferences().BoolWithFallback(KeyDarkMode, false)
}

// SetDarkMode sets the dark theme preference
func (s *Settings) SetDarkMode(enabled bool) {
	s.app.Preferences().SetBool(KeyDarkMode, enabled)
}

// GetDownloadDirectory returns the directory product downloads are saved to
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = os.TempDir()
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetMaxUploadSizeMB returns the upload size cap in megabytes
func (s *Settings) GetMaxUploadSizeMB() int {
	value := s.app.Preferences().Int(KeyMaxUploadSizeMB)
	if value <= 0 {
		s.SetMaxUploadSizeMB(DefaultMaxUploadSizeMB)
		return DefaultMaxUploadSizeMB
	}
	return value
}

// SetMaxUploadSizeMB sets the upload size cap. The backend rejects anything
// above 200 MB, so larger values are clamped.
func (s *Settings) SetMaxUploadSizeMB(mb int) {
	if mb < 1 {
		mb = 1
	}
	if mb > DefaultMaxUploadSizeMB {
		mb = DefaultMaxUploadSizeMB
	}
	s.app.Preferences().SetInt(KeyMaxUploadSizeMB, mb)
}

// ClientID returns the OAuth application id from the environment
func (s *Settings) ClientID() string {
	return os.Getenv(EnvClientID)
}

// ClientSecret returns the OAuth application secret from the environment
func (s *Settings) ClientSecret() string {
	return os.Getenv(EnvClientSecret)
}
