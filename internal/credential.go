package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	// EnvAPIKey holds the credential for the remote service
	EnvAPIKey = "OPENAI_API_KEY"
	// EnvBaseURL optionally points the client at a compatible endpoint
	EnvBaseURL = "OPENAI_BASE_URL"
)

// LoadCredential returns the API key from the environment.
// A dir/.env file is loaded first when present; it never overrides variables
// that are already set.
func LoadCredential(dir string) (string, error) {
	envFile := filepath.Join(dir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return "", &ConfigError{Key: envFile, Err: err}
		}
		LogDebug("Loaded environment from %s", envFile)
	}

	key := os.Getenv(EnvAPIKey)
	if key == "" {
		return "", &ConfigError{
			Key: EnvAPIKey,
			Err: fmt.Errorf("no %s env variable, please set it", EnvAPIKey),
		}
	}
	return key, nil
}
