package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// ProviderConfig describes one OAuth authorization-code integration.
type ProviderConfig struct {
	Name         string
	ClientID     string
	ClientSecret string
	CallbackURL  string
	AuthURL      string
	TokenURL     string
	ProfileURL   string
	Scopes       []string
	ParseProfile func(body []byte) (*Profile, error)
}

// Provider runs the code→token→profile exchange against one identity
// provider. Profile ids come back prefixed with the provider name so ids
// from different providers can never collide.
type Provider struct {
	cfg            ProviderConfig
	http           *fasthttp.Client
	defaultTimeout time.Duration
}

type ProviderOption func(*Provider)

func WithTimeout(d time.Duration) ProviderOption {
	return func(p *Provider) { p.defaultTimeout = d }
}

func NewProvider(cfg ProviderConfig, opts ...ProviderOption) (*Provider, error) {
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, fmt.Errorf("%s oauth credentials are required", cfg.Name)
	}
	if cfg.ParseProfile == nil {
		return nil, fmt.Errorf("%s oauth provider needs a profile parser", cfg.Name)
	}
	p := &Provider{
		cfg:            cfg,
		http:           &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 16},
		defaultTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func NewGoogle(clientID, clientSecret, callbackURL string, opts ...ProviderOption) (*Provider, error) {
	return NewProvider(ProviderConfig{
		Name:         "google",
		ClientID:     clientID,
		ClientSecret: clientSecret,
		CallbackURL:  callbackURL,
		AuthURL:      "https://accounts.google.com/o/oauth2/v2/auth",
		TokenURL:     "https://oauth2.googleapis.com/token",
		ProfileURL:   "https://www.googleapis.com/oauth2/v2/userinfo",
		Scopes:       []string{"profile", "email"},
		ParseProfile: parseGoogleProfile,
	}, opts...)
}

func NewFacebook(appID, appSecret, callbackURL string, opts ...ProviderOption) (*Provider, error) {
	return NewProvider(ProviderConfig{
		Name:         "facebook",
		ClientID:     appID,
		ClientSecret: appSecret,
		CallbackURL:  callbackURL,
		AuthURL:      "https://www.facebook.com/v19.0/dialog/oauth",
		TokenURL:     "https://graph.facebook.com/v19.0/oauth/access_token",
		ProfileURL:   "https://graph.facebook.com/me?fields=id,name,email,picture",
		Scopes:       []string{"email"},
		ParseProfile: parseFacebookProfile,
	}, opts...)
}

func (p *Provider) Name() string { return p.cfg.Name }

// AuthCodeURL is the redirect target that starts the login dance.
func (p *Provider) AuthCodeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", p.cfg.ClientID)
	q.Set("redirect_uri", p.cfg.CallbackURL)
	q.Set("response_type", "code")
	q.Set("state", state)
	if len(p.cfg.Scopes) > 0 {
		q.Set("scope", strings.Join(p.cfg.Scopes, " "))
	}
	return p.cfg.AuthURL + "?" + q.Encode()
}

// Exchange turns the callback code into an access token, fetches the profile
// and normalizes it.
func (p *Provider) Exchange(ctx context.Context, code string) (*Profile, error) {
	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", p.cfg.ClientID)
	form.Set("client_secret", p.cfg.ClientSecret)
	form.Set("redirect_uri", p.cfg.CallbackURL)
	form.Set("grant_type", "authorization_code")

	body, err := p.do(ctx, fasthttp.MethodPost, p.cfg.TokenURL, []byte(form.Encode()), "application/x-www-form-urlencoded", "")
	if err != nil {
		return nil, fmt.Errorf("%s token exchange: %w", p.cfg.Name, err)
	}
	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("%s token response: %w", p.cfg.Name, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%s token response missing access_token", p.cfg.Name)
	}

	body, err = p.do(ctx, fasthttp.MethodGet, p.cfg.ProfileURL, nil, "", token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%s profile fetch: %w", p.cfg.Name, err)
	}
	profile, err := p.cfg.ParseProfile(body)
	if err != nil {
		return nil, fmt.Errorf("%s profile parse: %w", p.cfg.Name, err)
	}
	if strings.TrimSpace(profile.ID) == "" {
		return nil, fmt.Errorf("%s profile missing id", p.cfg.Name)
	}
	profile.ID = p.cfg.Name + "_" + profile.ID
	return profile, nil
}

func (p *Provider) do(ctx context.Context, method, uri string, payload []byte, contentType, bearer string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.SetContentType(contentType)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if payload != nil {
		req.SetBody(payload)
	}

	if err := p.http.DoDeadline(req, resp, p.deadline(ctx)); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("oauth endpoint status=%d body=%s", status, truncate(string(resp.Body()), 256))
	}
	out := make([]byte, len(resp.Body()))
	copy(out, resp.Body())
	return out, nil
}

func (p *Provider) deadline(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	return time.Now().Add(p.defaultTimeout)
}

func parseGoogleProfile(body []byte) (*Profile, error) {
	var raw struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	return &Profile{ID: raw.ID, Name: raw.Name, Email: raw.Email, Photo: raw.Picture}, nil
}

func parseFacebookProfile(body []byte) (*Profile, error) {
	var raw struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	return &Profile{ID: raw.ID, Name: raw.Name, Email: raw.Email, Photo: raw.Picture.Data.URL}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
