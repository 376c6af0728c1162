package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"jobdash-engine/internal/config"
)

const (
	// “Service” groups the app’s secrets in the OS keychain.
	KeyringService = "jobdash"
)

var ErrNotFound = errors.New("secret not found in keychain")

func get(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", ErrNotFound
	}
	pw, err := keyring.Get(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) || (err == nil && strings.TrimSpace(pw) == "") {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("keyring get: %w", err)
	}
	return pw, nil
}

func set(account, value string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("secret is empty")
	}
	return keyring.Set(KeyringService, account, value)
}

func GetIMAPPassword(cfg config.Config) (string, error) {
	return get(IMAPKeyringAccount(cfg))
}

func SetIMAPPassword(cfg config.Config, password string) error {
	return set(IMAPKeyringAccount(cfg), password)
}

func DeleteIMAPPassword(cfg config.Config) error {
	err := keyring.Delete(KeyringService, IMAPKeyringAccount(cfg))
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func IMAPKeyringAccount(cfg config.Config) string {
	return fmt.Sprintf(
		"jobdash:imap:%s@%s",
		cfg.Email.Username,
		cfg.Email.IMAPHost,
	)
}

// ToolToken returns the bearer token for the remote tool service, if one is configured.
func ToolToken(cfg config.Config) (string, error) {
	return get(toolAccount(cfg))
}

func SetToolToken(cfg config.Config, token string) error {
	return set(toolAccount(cfg), token)
}

func toolAccount(cfg config.Config) string {
	if cfg.Dashboard.TokenAccount == "" {
		return ""
	}
	return "jobdash:tools:" + cfg.Dashboard.TokenAccount
}
