package google

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
)

const cacheDirName = "dayplan"

// OAuthConfig returns the OAuth2 configuration for calendar access.
// The client credentials come from configuration; the redirect is the
// out-of-band flow, so the user pastes the authorization code back into the
// terminal.
func OAuthConfig(clientID, clientSecret string) *oauth2.Config {
	const oob = "urn:ietf:wg:oauth:2.0:oob"
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  oob,
		Scopes: []string{
			calendar.CalendarScope,
		},
	}
}

// AuthURL returns the authorization URL the user visits to grant calendar
// access for one account. AccessTypeOffline is required to receive a refresh
// token on the first exchange.
func AuthURL(conf *oauth2.Config) string {
	return conf.AuthCodeURL("state", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "select_account consent"))
}

// HasTokenForAccount checks if a stored OAuth token exists for the account.
func HasTokenForAccount(account string) bool {
	file, err := tokenFile(account)
	if err != nil {
		return false
	}
	_, err = os.ReadFile(file)
	return err == nil
}

// SaveTokenForAccount exchanges an authorization code for tokens and saves
// them for the given account.
func SaveTokenForAccount(ctx context.Context, conf *oauth2.Config, account, authCode string) error {
	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code for account %s: %w", account, err)
	}
	if t.RefreshToken == "" {
		return fmt.Errorf("no refresh token returned for account %s; revoke access and authorize again", account)
	}

	file, err := tokenFile(account)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tokenData := t.AccessToken + " " + t.RefreshToken
	if err := os.WriteFile(file, []byte(tokenData), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// TokenSourceForAccount returns an OAuth2 token source backed by the stored
// token for the account. The source refreshes the access token on expiry.
func TokenSourceForAccount(ctx context.Context, conf *oauth2.Config, account string) (oauth2.TokenSource, error) {
	file, err := tokenFile(account)
	if err != nil {
		return nil, err
	}

	slurp, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("no Google OAuth token found for account %s; run 'dayplan auth' first", account)
	}

	f := strings.Fields(strings.TrimSpace(string(slurp)))
	if len(f) != 2 {
		return nil, fmt.Errorf("invalid token file format for account %s", account)
	}

	// Expiry in the past forces a refresh on first use, which also validates
	// the stored refresh token.
	ts := conf.TokenSource(ctx, &oauth2.Token{
		AccessToken:  f[0],
		TokenType:    "Bearer",
		RefreshToken: f[1],
		Expiry:       time.Unix(1, 0),
	})

	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("cached token for account %s is invalid: %w", account, err)
	}

	return oauth2.ReuseTokenSource(nil, ts), nil
}

// HTTPClientForAccount returns an HTTP client configured with OAuth2
// authentication for the account. The client is configured to use HTTP/1.1
// to avoid HTTP/2 protocol errors against the Google APIs.
func HTTPClientForAccount(ctx context.Context, conf *oauth2.Config, account string) (*http.Client, error) {
	ts, err := TokenSourceForAccount(ctx, conf, account)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	return client, nil
}

func tokenFile(account string) (string, error) {
	if account == "" {
		return "", fmt.Errorf("account name cannot be empty")
	}
	if strings.ContainsAny(account, `/\`) {
		return "", fmt.Errorf("invalid account name %q", account)
	}
	return filepath.Join(userCacheDir(), cacheDirName, account+".token"), nil
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
