package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// EnsureUserConfig writes defaults into dataDir/config.yml unless the user already has one.
func EnsureUserConfig(dataDir string, defaults []byte) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := os.WriteFile(userPath, defaults, 0o644); err != nil {
		return "", err
	}
	return userPath, nil
}

// LockDataDir takes an exclusive, non-blocking lock so only one engine owns dataDir.
func LockDataDir(dataDir string) (*flock.Flock, error) {
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock data dir: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("data dir %s is in use by another engine", dataDir)
	}
	return lock, nil
}
