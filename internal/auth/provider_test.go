package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func fakeProvider(t *testing.T) (*Provider, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		if r.PostFormValue("code") != "good-code" || r.PostFormValue("grant_type") != "authorization_code" {
			http.Error(w, "bad code", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1"})
	})
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id": "12345", "name": "Alice", "email": "alice@example.com", "picture": "http://img/a.png",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	p, err := NewProvider(ProviderConfig{
		Name:         "google",
		ClientID:     "cid",
		ClientSecret: "secret",
		CallbackURL:  "http://localhost/auth/google/callback",
		AuthURL:      srv.URL + "/authorize",
		TokenURL:     srv.URL + "/token",
		ProfileURL:   srv.URL + "/me",
		Scopes:       []string{"profile", "email"},
		ParseProfile: parseGoogleProfile,
	})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	return p, srv
}

func TestProviderAuthCodeURL(t *testing.T) {
	p, srv := fakeProvider(t)
	u := p.AuthCodeURL("state-1")
	if !strings.HasPrefix(u, srv.URL+"/authorize?") {
		t.Fatalf("unexpected auth url %q", u)
	}
	for _, want := range []string{"client_id=cid", "state=state-1", "response_type=code", "scope=profile+email"} {
		if !strings.Contains(u, want) {
			t.Fatalf("auth url missing %q: %s", want, u)
		}
	}
}

func TestProviderExchange(t *testing.T) {
	p, _ := fakeProvider(t)
	profile, err := p.Exchange(context.Background(), "good-code")
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if profile.ID != "google_12345" {
		t.Fatalf("expected provider-prefixed id, got %q", profile.ID)
	}
	if profile.Name != "Alice" || profile.Email != "alice@example.com" || profile.Photo != "http://img/a.png" {
		t.Fatalf("unexpected profile %+v", profile)
	}
}

func TestProviderExchangeBadCode(t *testing.T) {
	p, _ := fakeProvider(t)
	if _, err := p.Exchange(context.Background(), "bad-code"); err == nil {
		t.Fatalf("expected error on rejected code")
	}
}

func TestNewProviderRequiresCredentials(t *testing.T) {
	if _, err := NewGoogle("", "", "cb"); err == nil {
		t.Fatalf("expected error without credentials")
	}
	if _, err := NewFacebook("id", "secret", "cb"); err != nil {
		t.Fatalf("NewFacebook: %v", err)
	}
}

func TestParseFacebookProfile(t *testing.T) {
	body := []byte(`{"id":"77","name":"Bob","email":"b@example.com","picture":{"data":{"url":"http://img/b.png"}}}`)
	p, err := parseFacebookProfile(body)
	if err != nil {
		t.Fatalf("parseFacebookProfile: %v", err)
	}
	if p.ID != "77" || p.Photo != "http://img/b.png" {
		t.Fatalf("unexpected profile %+v", p)
	}
}
