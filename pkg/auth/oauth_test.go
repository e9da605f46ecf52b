package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ClientSecretsFile)
	secrets := `{"installed": {"client_id": "id-1", "client_secret": "s", "redirect_uris": ["http://localhost"],
		"auth_uri": "https://accounts.google.com/o/oauth2/auth", "token_uri": "https://oauth2.googleapis.com/token"}}`
	if err := os.WriteFile(path, []byte(secrets), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path, "scope-a", "scope-b")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ClientID != "id-1" || len(cfg.Scopes) != 2 {
		t.Errorf("unexpected config: %+v", cfg)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.json")); !errors.Is(err, ErrNoCredentials) {
		t.Errorf("error = %v, want ErrNoCredentials", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`not json`), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil || errors.Is(err, ErrNoCredentials) {
		t.Errorf("error = %v, want a parse error", err)
	}
}
