// Package session holds the authenticated identity for the lifetime of the
// application: hydration from a persisted token at startup, sign-in through
// the OAuth password grant, and sign-out. The persisted token is written once
// per login and read by the gateway on every call.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/linea-it/pzserver-desktop/internal/api"
	"github.com/linea-it/pzserver-desktop/internal/config"
	"github.com/linea-it/pzserver-desktop/internal/logging"
	"github.com/linea-it/pzserver-desktop/internal/model"
	"github.com/linea-it/pzserver-desktop/internal/rule"
)

// ErrInvalidCredentials is surfaced as the form-level sign-in error
var ErrInvalidCredentials = errors.New("invalid username or password")

// signInForm is validated client-side before any network call
type signInForm struct {
	Username string `rule:"required"`
	Password string `rule:"required"`
}

// Manager owns the session identity
type Manager struct {
	settings *config.Settings
	client   *api.Client
	user     *model.User
	log      zerolog.Logger

	// OnSignIn is invoked after a successful sign-in resolved the identity
	OnSignIn func(model.User)
	// OnSignOut is invoked after the session has been cleared
	OnSignOut func()
}

// NewManager creates a session manager on top of the gateway and settings
func NewManager(settings *config.Settings, client *api.Client) *Manager {
	return &Manager{
		settings: settings,
		client:   client,
		log:      logging.Logger().With().Str("component", "session").Logger(),
	}
}

// Hydrate resolves a persisted, unexpired token into an identity at startup.
// A rejected token is cleared so the user lands on the sign-in form; only
// transport failures are returned as errors.
func (m *Manager) Hydrate(ctx context.Context) error {
	if _, ok := m.settings.AccessToken(); !ok {
		m.user = nil
		return nil
	}

	user, err := m.client.LoggedUser(ctx)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			m.log.Info().Msg("persisted token rejected, clearing")
			m.settings.ClearAccessToken()
			m.user = nil
			return nil
		}
		return err
	}

	m.user = user
	m.log.Info().Str("username", user.Username).Msg("session hydrated")
	return nil
}

// SignIn exchanges credentials for a token, persists it with a fixed expiry,
// and resolves the identity so the first render already has the username
func (m *Manager) SignIn(ctx context.Context, username, password string) error {
	form := signInForm{Username: username, Password: password}
	if err := rule.ValidateStruct(form); err != nil {
		return err
	}

	token, err := m.client.SignIn(ctx, username, password, m.settings.ClientID(), m.settings.ClientSecret())
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && !apiErr.IsServerFault() {
			return ErrInvalidCredentials
		}
		return err
	}

	m.settings.SetAccessToken(token.AccessToken, time.Now().Add(config.TokenLifetime))

	user, err := m.client.LoggedUser(ctx)
	if err != nil {
		return err
	}
	m.user = user

	m.log.Info().Str("username", user.Username).Msg("signed in")
	if m.OnSignIn != nil {
		m.OnSignIn(*user)
	}
	return nil
}

// SignOut clears the persisted token and the in-memory identity
func (m *Manager) SignOut() {
	m.settings.ClearAccessToken()
	m.user = nil

	m.log.Info().Msg("signed out")
	if m.OnSignOut != nil {
		m.OnSignOut()
	}
}

// IsAuthenticated reports whether an identity is loaded
func (m *Manager) IsAuthenticated() bool {
	return m.user != nil
}

// User returns the session identity, if any
func (m *Manager) User() (model.User, bool) {
	if m.user == nil {
		return model.User{}, false
	}
	return *m.user, true
}
