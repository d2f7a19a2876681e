package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

var requiredScopes = []string{
	"https://graph.microsoft.com/Calendars.Read",
	"offline_access",
}

func msEndpoint(tenantID, path string) string {
	return "https://login.microsoftonline.com/" + tenantID + "/oauth2/v2.0/" + path
}

// TokenStore reads and writes the cached OAuth2 token of one data directory.
type TokenStore struct {
	path string
}

// NewTokenStore returns the token cache at <base>/auth/msgraph_tokens.json.
func NewTokenStore(base string) *TokenStore {
	return &TokenStore{path: filepath.Join(base, "auth", "msgraph_tokens.json")}
}

// oauth2Config returns the oauth2.Config for Microsoft Graph using the
// provided tenant and client IDs.
func oauth2Config(tenantID, clientID string) *oauth2.Config {
	return &oauth2.Config{
		ClientID: clientID,
		Scopes:   requiredScopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: msEndpoint(tenantID, "devicecode"),
			TokenURL:      msEndpoint(tenantID, "token"),
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

// Load loads a previously saved token. It returns nil, nil if none exists.
func (s *TokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token file (delete %s to re-authenticate): %w", s.path, err)
	}
	return &tok, nil
}

// Save persists a token atomically.
func (s *TokenStore) Save(tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving token file: %w", err)
	}
	return nil
}

// Authenticate returns a Graph token for the calendar import. A cached
// token is used while valid and refreshed when expired; otherwise the
// device code sign-in runs, with its instructions written to prompt. Any
// new token is cached in store.
func Authenticate(ctx context.Context, store *TokenStore, tenantID, clientID string, prompt io.Writer) (*oauth2.Token, *oauth2.Config, error) {
	cfg := oauth2Config(tenantID, clientID)
	log := zap.L().Named("msgraph")

	tok, fresh := cachedToken(ctx, cfg, store, log)
	if tok == nil {
		var err error
		if tok, err = deviceSignIn(ctx, cfg, prompt); err != nil {
			return nil, nil, err
		}
		fresh = true
	}
	if fresh {
		if err := store.Save(tok); err != nil {
			log.Warn("could not cache token", zap.Error(err))
		}
	}
	return tok, cfg, nil
}

// cachedToken returns the stored token, refreshed if it has expired, and
// whether it changed. It returns nil when a sign-in is needed.
func cachedToken(ctx context.Context, cfg *oauth2.Config, store *TokenStore, log *zap.Logger) (*oauth2.Token, bool) {
	tok, err := store.Load()
	if err != nil {
		log.Warn("ignoring unreadable token cache", zap.Error(err))
		return nil, false
	}
	switch {
	case tok == nil:
		return nil, false
	case tok.Valid():
		return tok, false
	case tok.RefreshToken == "":
		return nil, false
	}

	refreshed, err := cfg.TokenSource(ctx, tok).Token()
	if err != nil {
		log.Info("token refresh failed, signing in again", zap.Error(err))
		return nil, false
	}
	return refreshed, true
}

func deviceSignIn(ctx context.Context, cfg *oauth2.Config, prompt io.Writer) (*oauth2.Token, error) {
	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("requesting device code: %w", err)
	}

	fmt.Fprintln(prompt)
	fmt.Fprintln(prompt, "To import your Outlook calendar, open this page in a browser:")
	fmt.Fprintf(prompt, "  %s\n", resp.VerificationURI)
	fmt.Fprintf(prompt, "and enter the code %s\n", resp.UserCode)
	fmt.Fprintln(prompt)

	tok, err := cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("device sign-in: %w", err)
	}
	return tok, nil
}
