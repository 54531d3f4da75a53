// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves service credentials. Credentials come from, in
// order of precedence: an explicit config value, the process environment
// (optionally populated from a .env file), and a directory of plain-text
// key files where the filename is the key name and the trimmed contents are
// the value.
//
// Supported key files: openai-api-key, tavily-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/subosito/gotenv"
)

// Credential names one service key and where to look for it.
type Credential struct {
	// EnvVar is the environment variable, e.g. "OPENAI_API_KEY".
	EnvVar string

	// File is the key file name inside the secrets directory.
	File string
}

var (
	OpenAI = Credential{EnvVar: "OPENAI_API_KEY", File: "openai-api-key"}
	Tavily = Credential{EnvVar: "TAVILY_API_KEY", File: "tavily-api-key"}
)

// LoadEnvFile copies variables from a .env file into the process environment.
// Variables already set in the environment are left alone. A missing file
// is not an error; LoadEnvFile reports whether the file was read.
func LoadEnvFile(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking env file %s: %w", path, err)
	}
	if err := gotenv.Load(path); err != nil {
		return false, fmt.Errorf("loading env file %s: %w", path, err)
	}
	return true, nil
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory is not an error; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Resolve returns the value for c. An explicit non-empty value wins, then
// the environment variable, then the key file from loaded.
func Resolve(c Credential, explicit string, loaded map[string]string) string {
	if explicit != "" {
		return explicit
	}
	if v := strings.TrimSpace(os.Getenv(c.EnvVar)); v != "" {
		return v
	}
	return loaded[c.File]
}
