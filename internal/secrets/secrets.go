// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials from a directory of plain-text files so
// they need not appear on the command line. The file name is the key and the
// trimmed file contents are the value.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/search-refiner/internal/logger"
)

// DefaultDir is where secrets are looked up when no directory is configured.
const DefaultDir = ".secrets"

// AppIDKey names the file holding the search provider client ID.
const AppIDKey = "search-appid"

// FromSecrets is the placeholder argument that asks Resolve to read the
// value from the secrets directory.
const FromSecrets = "-"

// ErrMissing is returned by Resolve when the requested secret does not exist.
var ErrMissing = errors.New("secret not found")

// Load reads all files in dir and returns a map of file name to trimmed
// contents. A missing directory is not an error; Load returns an empty map.
// Empty files, dotfiles and subdirectories are skipped; unreadable files
// are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Log.WithField("secret", name).WithError(err).Warn("could not read secret")
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			out[name] = value
		}
	}
	return out, nil
}

// Resolve returns value unchanged unless it is FromSecrets, in which case
// the secret key is read from dir (DefaultDir when empty).
func Resolve(value, dir, key string) (string, error) {
	if value != FromSecrets {
		return value, nil
	}
	if dir == "" {
		dir = DefaultDir
	}
	all, err := Load(dir)
	if err != nil {
		return "", err
	}
	v, ok := all[key]
	if !ok {
		return "", fmt.Errorf("%w: %s in %s", ErrMissing, key, dir)
	}
	return v, nil
}

// Mask hides all but the first four characters of a secret for display.
func Mask(s string) string {
	r := []rune(s)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return string(r[:4]) + strings.Repeat("*", len(r)-4)
}
