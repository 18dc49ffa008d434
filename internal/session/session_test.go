package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"github.com/linea-it/pzserver-desktop/internal/api"
	"github.com/linea-it/pzserver-desktop/internal/config"
	"github.com/linea-it/pzserver-desktop/internal/model"
	"github.com/linea-it/pzserver-desktop/internal/rule"
)

// fakeBackend serves the token exchange and the identity endpoint
func fakeBackend(t *testing.T, validToken string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/token":
			w.Write([]byte(`{"access_token":"` + validToken + `","expires_in":3600}`))
		case "/api/logged_user":
			if r.Header.Get("Authorization") != "Bearer "+validToken {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail":"Invalid token."}`))
				return
			}
			w.Write([]byte(`{"username":"gverde"}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func newManager(t *testing.T, serverURL string) (*Manager, *config.Settings) {
	t.Helper()
	settings := config.NewSettings(test.NewApp())
	client := api.New(serverURL, func() (api.Credential, bool) {
		token, ok := settings.AccessToken()
		return api.Credential{Token: token}, ok
	})
	return NewManager(settings, client), settings
}

func TestSignInPersistsTokenAndResolvesIdentity(t *testing.T) {
	server := fakeBackend(t, "tok-1")
	defer server.Close()

	manager, settings := newManager(t, server.URL)

	var notified string
	manager.OnSignIn = func(u model.User) { notified = u.Username }

	if err := manager.SignIn(context.Background(), "gverde", "secret"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !manager.IsAuthenticated() {
		t.Error("Expected authenticated session")
	}
	user, ok := manager.User()
	if !ok || user.Username != "gverde" {
		t.Errorf("Expected resolved user, got %+v (%v)", user, ok)
	}
	if notified != "gverde" {
		t.Errorf("Expected OnSignIn callback, got %q", notified)
	}
	if token, ok := settings.AccessToken(); !ok || token != "tok-1" {
		t.Errorf("Expected persisted token, got %q (%v)", token, ok)
	}
}

func TestSignInValidatesBeforeNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("No request expected for an empty form")
	}))
	defer server.Close()

	manager, _ := newManager(t, server.URL)

	err := manager.SignIn(context.Background(), "", "")
	var fields rule.FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("Expected field errors, got %v", err)
	}
	if _, ok := fields["username"]; !ok {
		t.Error("Expected username field error")
	}
	if _, ok := fields["password"]; !ok {
		t.Error("Expected password field error")
	}
}

func TestSignInRejectedCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer server.Close()

	manager, settings := newManager(t, server.URL)

	err := manager.SignIn(context.Background(), "gverde", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Expected ErrInvalidCredentials, got %v", err)
	}
	if manager.IsAuthenticated() {
		t.Error("Expected unauthenticated session after rejection")
	}
	if _, ok := settings.AccessToken(); ok {
		t.Error("Expected no persisted token after rejection")
	}
}

func TestHydrateResolvesPersistedToken(t *testing.T) {
	server := fakeBackend(t, "tok-1")
	defer server.Close()

	manager, settings := newManager(t, server.URL)
	settings.SetAccessToken("tok-1", time.Now().Add(config.TokenLifetime))

	if err := manager.Hydrate(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	user, ok := manager.User()
	if !ok || user.Username != "gverde" {
		t.Errorf("Expected hydrated user, got %+v (%v)", user, ok)
	}
}

func TestHydrateClearsRejectedToken(t *testing.T) {
	server := fakeBackend(t, "tok-1")
	defer server.Close()

	manager, settings := newManager(t, server.URL)
	settings.SetAccessToken("stale", time.Now().Add(config.TokenLifetime))

	if err := manager.Hydrate(context.Background()); err != nil {
		t.Fatalf("Expected no error for a rejected token, got %v", err)
	}
	if manager.IsAuthenticated() {
		t.Error("Expected unauthenticated session")
	}
	if _, ok := settings.AccessToken(); ok {
		t.Error("Expected rejected token to be cleared")
	}
}

func TestHydrateSkipsWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("No request expected without a persisted token")
	}))
	defer server.Close()

	manager, _ := newManager(t, server.URL)
	if err := manager.Hydrate(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if manager.IsAuthenticated() {
		t.Error("Expected unauthenticated session")
	}
}

func TestSignOut(t *testing.T) {
	server := fakeBackend(t, "tok-1")
	defer server.Close()

	manager, settings := newManager(t, server.URL)
	if err := manager.SignIn(context.Background(), "gverde", "secret"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	fired := false
	manager.OnSignOut = func() { fired = true }

	manager.SignOut()

	if manager.IsAuthenticated() {
		t.Error("Expected unauthenticated session after sign-out")
	}
	if _, ok := settings.AccessToken(); ok {
		t.Error("Expected token cleared after sign-out")
	}
	if !fired {
		t.Error("Expected OnSignOut callback")
	}
}
