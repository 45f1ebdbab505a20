package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// “Service” groups this app’s secrets in the OS keychain.
	KeyringService = "autoapply"

	defaultAccount = "gemini"
)

// GeminiAPIKey resolves the generative-service credential: OS keychain first,
// then the GEMINI_API_KEY environment variable.
func GeminiAPIKey(keyringAccount string) (string, error) {
	account := strings.TrimSpace(keyringAccount)
	if account == "" {
		account = defaultAccount
	}

	if key, err := keyring.Get(KeyringService, account); err == nil && strings.TrimSpace(key) != "" {
		return strings.TrimSpace(key), nil
	}

	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		return key, nil
	}

	return "", errors.New("gemini api key not found (set it in the keychain or via GEMINI_API_KEY)")
}

func SetGeminiAPIKey(keyringAccount string, key string) error {
	account := strings.TrimSpace(keyringAccount)
	if account == "" {
		account = defaultAccount
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	return keyring.Set(KeyringService, account, key)
}

func DeleteGeminiAPIKey(keyringAccount string) error {
	account := strings.TrimSpace(keyringAccount)
	if account == "" {
		account = defaultAccount
	}
	return keyring.Delete(KeyringService, account)
}
