package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	defaultSecretService = "budgetcharts"
	defaultSecretUser    = "ledger_db_key"
)

var ErrEmptyKey = errors.New("ledger db key is empty")

var (
	keyringGet    = keyring.Get
	keyringSet    = keyring.Set
	keyringDelete = keyring.Delete
)

// LoadDBKey loads the ledger database encryption key.
//
// Order of precedence:
// 1) BUDGETCHARTS_DB_KEY environment variable.
// 2) OS credential store item referenced by service/account.
func LoadDBKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv("BUDGETCHARTS_DB_KEY")); key != "" {
		return key, nil
	}

	service, account := keyringItem()
	secret, err := keyringGet(service, account)
	if err != nil {
		return "", fmt.Errorf(
			"failed to read keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}

	key := strings.TrimSpace(secret)
	if key == "" {
		return "", ErrEmptyKey
	}
	return key, nil
}

// SaveDBKey stores the key in the system credential store.
func SaveDBKey(key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return ErrEmptyKey
	}

	service, account := keyringItem()
	if err := keyringSet(service, account, trimmed); err != nil {
		return fmt.Errorf(
			"failed to store keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}
	return nil
}

// DeleteDBKey removes the stored key. A missing item is not an error.
func DeleteDBKey() error {
	service, account := keyringItem()
	if err := keyringDelete(service, account); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf(
			"failed to delete keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}
	return nil
}

func keyringItem() (service, account string) {
	return envOrDefault("BUDGETCHARTS_KEYCHAIN_SERVICE", defaultSecretService),
		envOrDefault("BUDGETCHARTS_KEYCHAIN_ACCOUNT", defaultSecretUser)
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
