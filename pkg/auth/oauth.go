package auth

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ClientSecretsFile is the default name of the Google API credentials.json
// downloaded from the Cloud Console.
const ClientSecretsFile = "credentials.json"

var ErrNoCredentials = errors.New("no OAuth client credentials")

// LoadConfig creates an oauth2.Config from a client secrets file.
func LoadConfig(clientSecretsFile string, scopes ...string) (*oauth2.Config, error) {
	b, err := os.ReadFile(clientSecretsFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoCredentials, clientSecretsFile)
		}
		return nil, fmt.Errorf("unable to read client secret file %s: %w", clientSecretsFile, err)
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	return config, nil
}
