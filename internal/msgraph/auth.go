package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/work-hours-tracker/internal/log"
)

var requiredScopes = []string{
	"https://graph.microsoft.com/Calendars.Read",
	"offline_access",
}

func msEndpoint(tenantID, path string) string {
	return "https://login.microsoftonline.com/" + tenantID + "/oauth2/v2.0/" + path
}

// TokenCache keeps the Graph token as JSON inside the data directory.
type TokenCache struct {
	path string
}

// NewTokenCache returns the cache at <home>/auth/msgraph_tokens.json.
func NewTokenCache(home string) *TokenCache {
	return &TokenCache{path: filepath.Join(home, "auth", "msgraph_tokens.json")}
}

// Path returns the cache file location.
func (c *TokenCache) Path() string {
	return c.path
}

// Load returns the cached token, or nil if nothing is cached.
func (c *TokenCache) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token cache: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token cache (delete %s to sign in again): %w", c.path, err)
	}
	return &tok, nil
}

// Save replaces the cached token.
func (c *TokenCache) Save(tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing token cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("saving token cache: %w", err)
	}
	return nil
}

// Authenticator signs in to Microsoft Graph with the device code flow and
// keeps the resulting token in a TokenCache.
type Authenticator struct {
	cfg   *oauth2.Config
	cache *TokenCache
	out   io.Writer
	log   *log.Logger
}

// NewAuthenticator prints sign-in instructions to out.
func NewAuthenticator(tenantID, clientID string, cache *TokenCache, out io.Writer, logger *log.Logger) *Authenticator {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Authenticator{
		cfg: &oauth2.Config{
			ClientID: clientID,
			Scopes:   requiredScopes,
			Endpoint: oauth2.Endpoint{
				DeviceAuthURL: msEndpoint(tenantID, "devicecode"),
				TokenURL:      msEndpoint(tenantID, "token"),
				AuthStyle:     oauth2.AuthStyleInParams,
			},
		},
		cache: cache,
		out:   out,
		log:   logger,
	}
}

// TokenSource returns a source seeded with a usable token: the cached one
// while it is valid or refreshable, otherwise a fresh device code sign-in.
// Tokens refreshed later by the source are written back to the cache.
func (a *Authenticator) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	tok, err := a.cache.Load()
	if err != nil {
		a.log.Warn("ignoring token cache", "error", err)
		tok = nil
	}

	if tok != nil && !tok.Valid() && tok.RefreshToken != "" {
		refreshed, err := a.cfg.TokenSource(ctx, tok).Token()
		if err != nil {
			a.log.Info("token refresh failed, signing in again", "error", err)
			tok = nil
		} else {
			tok = refreshed
			a.store(tok)
		}
	}

	if tok == nil || !tok.Valid() {
		if tok, err = a.deviceLogin(ctx); err != nil {
			return nil, err
		}
		a.store(tok)
	}

	return &cachingTokenSource{
		src:   a.cfg.TokenSource(ctx, tok),
		cache: a,
		last:  tok.AccessToken,
	}, nil
}

func (a *Authenticator) deviceLogin(ctx context.Context) (*oauth2.Token, error) {
	resp, err := a.cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("device auth request failed: %w", err)
	}

	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "To sign in, use a web browser to open the page:")
	fmt.Fprintf(a.out, "  %s\n", resp.VerificationURI)
	fmt.Fprintf(a.out, "Enter the code: %s\n", resp.UserCode)
	fmt.Fprintln(a.out)

	tok, err := a.cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("device authentication failed: %w", err)
	}
	return tok, nil
}

func (a *Authenticator) store(tok *oauth2.Token) {
	if err := a.cache.Save(tok); err != nil {
		a.log.Warn("could not cache token", "error", err)
	}
}

// cachingTokenSource saves every newly issued token.
type cachingTokenSource struct {
	src   oauth2.TokenSource
	cache *Authenticator
	last  string
}

func (s *cachingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		s.cache.store(tok)
	}
	return tok, nil
}
