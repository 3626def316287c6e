// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key
// name and the file contents (trimmed) are the value.
//
// Supported key files: sec-user-agent.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// UserAgentKey names the file holding the User-Agent declared to EDGAR,
// e.g. "Example Corp admin@example.com".
const UserAgentKey = "sec-user-agent"

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory is not an error; Load returns an empty map.
// Unreadable files produce a warning on w but do not abort.
func Load(dir string, w io.Writer) (map[string]string, error) {
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
			fmt.Fprintf(w, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// UserAgent picks the EDGAR User-Agent: an explicitly configured value wins,
// then the sec-user-agent secret, then fallback.
func UserAgent(secrets map[string]string, configured, fallback string) string {
	if configured = strings.TrimSpace(configured); configured != "" && configured != fallback {
		return configured
	}
	if v, ok := secrets[UserAgentKey]; ok {
		return v
	}
	if configured != "" {
		return configured
	}
	return fallback
}
