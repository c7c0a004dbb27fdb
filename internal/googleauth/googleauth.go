// Package googleauth holds the credential plumbing for the Google services:
// a cached OAuth user token for the mailbox and an optional service account
// for the storage side.
package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Config parses an OAuth client secret file into an oauth2 config for the
// given scopes.
func Config(credentialsFile string, scopes ...string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}

	cfg, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}

	return cfg, nil
}

// Client returns an authorized HTTP client backed by the cached token file.
// It never starts an interactive consent flow; run the auth command first.
func Client(ctx context.Context, credentialsFile, tokenFile string, scopes ...string) (*http.Client, error) {
	cfg, err := Config(credentialsFile, scopes...)
	if err != nil {
		return nil, err
	}

	tok, err := TokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("loading token from %q (run the auth command first): %w", tokenFile, err)
	}

	return cfg.Client(ctx, tok), nil
}

// ServiceAccountClient builds an HTTP client from a service account key
// file. Used for the storage side, where no user consent is involved.
func ServiceAccountClient(ctx context.Context, keyFile string, scopes ...string) (*http.Client, error) {
	b, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("reading service account file: %w", err)
	}

	cfg, err := google.JWTConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parsing service account file: %w", err)
	}

	return cfg.Client(ctx), nil
}

// TokenFromFile reads a cached oauth2 token.
func TokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("decoding token file: %w", err)
	}
	return tok, nil
}

// SaveToken writes the token next to the credentials so later runs skip the
// consent flow.
func SaveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating token file: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	return nil
}
