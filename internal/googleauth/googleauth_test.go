package googleauth

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")

	tok := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).Round(time.Second),
	}

	if err := SaveToken(path, tok); err != nil {
		t.Fatalf("saving token: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat token file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("token file must not be world readable, got %v", info.Mode().Perm())
	}

	got, err := TokenFromFile(path)
	if err != nil {
		t.Fatalf("loading token: %v", err)
	}

	if got.AccessToken != tok.AccessToken || got.RefreshToken != tok.RefreshToken {
		t.Fatalf("token did not survive the round trip: %+v", got)
	}
}

func TestTokenFromFileErrors(t *testing.T) {
	if _, err := TokenFromFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "garbage")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := TokenFromFile(path); err == nil {
		t.Fatalf("expected error for unparseable token")
	}
}

func TestServiceAccountClientErrors(t *testing.T) {
	ctx := context.Background()

	if _, err := ServiceAccountClient(ctx, filepath.Join(t.TempDir(), "missing"), "scope"); err == nil {
		t.Fatalf("expected error for missing key file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := ServiceAccountClient(ctx, path, "scope"); err == nil {
		t.Fatalf("expected error for malformed key file")
	}
}

func TestConfigErrors(t *testing.T) {
	if _, err := Config(filepath.Join(t.TempDir(), "missing"), "scope"); err == nil {
		t.Fatalf("expected error for missing credentials file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"web": {}`), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := Config(path, "scope"); err == nil {
		t.Fatalf("expected error for malformed credentials")
	}
}
