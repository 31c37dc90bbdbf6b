// Package store provides the persistent token store backends: a JSON file
// (default for the CLI), a bbolt database, and Redis. Each stores exactly
// one opaque bearer token under a fixed key; absence means unauthenticated.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// tokenFile is the on-disk layout of the file store.
type tokenFile struct {
	Token string `json:"token"`
}

// File persists the token as a mode-0600 JSON file. Writes go through a
// temporary file and rename so a crash never leaves a half-written token.
type File struct {
	path string
}

// NewFile creates a file store at path. The parent directory is created on
// the first Save.
func NewFile(path string) *File {
	return &File{path: path}
}

// DefaultFilePath returns the conventional token location under the user's
// configuration directory.
func DefaultFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("store: resolve config dir: %w", err)
	}
	return filepath.Join(dir, "cineai", "token.json"), nil
}

func (f *File) Load(_ context.Context) (string, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("store: read token file: %w", err)
	}

	var tf tokenFile
	if err := json.Unmarshal(raw, &tf); err != nil {
		return "", fmt.Errorf("store: parse token file: %w", err)
	}
	return tf.Token, nil
}

func (f *File) Save(_ context.Context, token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("store: create token dir: %w", err)
	}

	raw, err := json.Marshal(tokenFile{Token: token})
	if err != nil {
		return fmt.Errorf("store: encode token: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("store: write token file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("store: replace token file: %w", err)
	}
	return nil
}

func (f *File) Clear(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store: remove token file: %w", err)
	}
	return nil
}
