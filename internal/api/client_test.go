package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func staticCreds(token string) CredentialProvider {
	return func() (Credential, bool) {
		if token == "" {
			return Credential{}, false
		}
		return Credential{Token: token}, true
	}
}

func TestAuthorizationHeaderAttached(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"username":"gverde"}`))
	}))
	defer server.Close()

	client := New(server.URL, staticCreds("tok-abc"))
	if _, err := client.LoggedUser(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if gotAuth != "Bearer tok-abc" {
		t.Errorf("Expected bearer header, got %q", gotAuth)
	}
}

func TestAuthorizationHeaderOmittedWithoutCredential(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"username":"anon"}`))
	}))
	defer server.Close()

	client := New(server.URL, staticCreds(""))
	if _, err := client.LoggedUser(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if gotAuth != "" {
		t.Errorf("Expected no Authorization header, got %q", gotAuth)
	}
}

func TestCredentialReadPerRequest(t *testing.T) {
	// A token issued after the client was built must be picked up by the
	// next call, including calls prepared before sign-in resolved.
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"username":"gverde"}`))
	}))
	defer server.Close()

	token := ""
	client := New(server.URL, func() (Credential, bool) {
		return Credential{Token: token}, token != ""
	})

	client.LoggedUser(context.Background())
	if gotAuth != "" {
		t.Error("Expected unauthenticated call before sign-in")
	}

	token = "fresh"
	client.LoggedUser(context.Background())
	if gotAuth != "Bearer fresh" {
		t.Errorf("Expected fresh token on next call, got %q", gotAuth)
	}
}

func TestRequestIDHeader(t *testing.T) {
	seen := map[string]bool{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen[r.Header.Get("X-Request-ID")] = true
		w.Write([]byte(`{"username":"gverde"}`))
	}))
	defer server.Close()

	client := New(server.URL, nil)
	client.LoggedUser(context.Background())
	client.LoggedUser(context.Background())

	if len(seen) != 2 || seen[""] {
		t.Errorf("Expected two distinct request ids, got %v", seen)
	}
}

func TestFieldValidationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"display_name":["This field is required."],"product_type":["Invalid pk"]}`))
	}))
	defer server.Close()

	client := New(server.URL, nil)
	_, err := client.CreateProduct(context.Background(), ProductForm{})
	if err == nil {
		t.Fatal("Expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if !apiErr.IsValidation() {
		t.Error("Expected validation error")
	}
	if msg, ok := apiErr.Field("display_name"); !ok || msg != "This field is required." {
		t.Errorf("Expected display_name field error, got %q (%v)", msg, ok)
	}
	if _, ok := apiErr.Field("description"); ok {
		t.Error("Unexpected field error for description")
	}
}

func TestServerFaultError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := New(server.URL, nil)
	_, err := client.GetProduct(context.Background(), 1)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if !apiErr.IsServerFault() {
		t.Error("Expected server fault")
	}
	if apiErr.Message() != GenericFaultMessage {
		t.Errorf("Expected generic fault message, got %q", apiErr.Message())
	}
}

func TestForbiddenError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"You do not have permission to perform this action."}`))
	}))
	defer server.Close()

	client := New(server.URL, nil)
	err := client.DeleteProduct(context.Background(), 42)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if !apiErr.IsForbidden() {
		t.Error("Expected forbidden error")
	}
	if apiErr.Message() != DeniedMessage {
		t.Errorf("Expected denial message, got %q", apiErr.Message())
	}
}

func TestBackendErrorDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"registry failed: unsupported format"}`))
	}))
	defer server.Close()

	client := New(server.URL, nil)
	_, err := client.RegistryProduct(context.Background(), 7)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if apiErr.Message() != "registry failed: unsupported format" {
		t.Errorf("Expected backend detail, got %q", apiErr.Message())
	}
}

func TestSignInOmitsAuthorization(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"access_token":"new-tok","expires_in":3600}`))
	}))
	defer server.Close()

	client := New(server.URL, staticCreds("stale"))
	token, err := client.SignIn(context.Background(), "user", "pass", "cid", "csecret")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if gotAuth != "" {
		t.Error("Token exchange must not carry a stale Authorization header")
	}
	if token.AccessToken != "new-tok" {
		t.Errorf("Expected access token, got %q", token.AccessToken)
	}
}
