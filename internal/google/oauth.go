package google

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"

	"github.com/galeproject/gale/internal/logging"
)

// oob is the out-of-band redirect for installed applications: the user
// copies the authorization code from the browser into the terminal.
const oob = "urn:ietf:wg:oauth:2.0:oob"

// Scopes requested from Google: read mail, compose drafts, send, and the
// user's basic profile for the startup greeting.
var scopes = []string{
	gmail.GmailReadonlyScope,
	gmail.GmailComposeScope,
	gmail.GmailSendScope,
	"https://www.googleapis.com/auth/userinfo.profile",
}

// ClientCredentials identifies the OAuth application.
type ClientCredentials struct {
	ClientID     string
	ClientSecret string
}

// OAuthConfig returns the oauth2 configuration for the given client.
func OAuthConfig(creds ClientCredentials) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     googleoauth.Endpoint,
		RedirectURL:  oob,
		Scopes:       scopes,
	}
}

// TokenFile returns the path of the cached token.
func TokenFile() string {
	return filepath.Join(userCacheDir(), "gale", "google.token")
}

// HasToken checks if a cached OAuth token exists.
func HasToken() bool {
	_, err := os.Stat(TokenFile())
	return err == nil
}

// AuthURL returns the consent URL for user authorization. Offline access
// is requested so a refresh token is issued.
func AuthURL(creds ClientCredentials) string {
	return OAuthConfig(creds).AuthCodeURL("state",
		oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for tokens and caches them.
func Exchange(ctx context.Context, creds ClientCredentials, authCode string) error {
	t, err := OAuthConfig(creds).Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return saveToken(t)
}

// TokenSource returns an auto-refreshing token source backed by the
// cached token. Refreshed tokens are written back to the cache so the
// refresh token survives access-token rotation.
func TokenSource(ctx context.Context, creds ClientCredentials) (oauth2.TokenSource, error) {
	tok, err := loadToken()
	if err != nil {
		return nil, err
	}
	base := OAuthConfig(creds).TokenSource(ctx, tok)
	return &cachingTokenSource{base: base, last: tok}, nil
}

// HTTPClient returns an HTTP client that authenticates requests with the
// cached OAuth token.
func HTTPClient(ctx context.Context, creds ClientCredentials) (*http.Client, error) {
	ts, err := TokenSource(ctx, creds)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, ts), nil
}

// cachingTokenSource persists refreshed tokens back to the cache file.
type cachingTokenSource struct {
	base oauth2.TokenSource
	last *oauth2.Token
}

func (s *cachingTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if s.last == nil || t.AccessToken != s.last.AccessToken {
		s.last = t
		if err := saveToken(t); err != nil {
			return nil, fmt.Errorf("failed to persist refreshed token: %w", err)
		}
		slog.Debug("persisted refreshed Google token",
			slog.String("token", logging.SanitizeToken(t.AccessToken)),
			slog.Time("expiry", t.Expiry))
	}
	return t, nil
}

func saveToken(t *oauth2.Token) error {
	file := TokenFile()
	if err := os.MkdirAll(filepath.Dir(file), 0o700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(file, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(TokenFile())
	if err != nil {
		return nil, fmt.Errorf("no Google OAuth token found; run 'gale auth' first")
	}
	tok := &oauth2.Token{}
	if err := json.Unmarshal(data, tok); err != nil {
		return nil, fmt.Errorf("invalid token cache %s: %w", TokenFile(), err)
	}
	if tok.RefreshToken == "" && tok.AccessToken == "" {
		return nil, fmt.Errorf("token cache %s holds no usable token; run 'gale auth' again", TokenFile())
	}
	return tok, nil
}

func userCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "."
	}
	return dir
}
