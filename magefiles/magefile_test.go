//go:build mage

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCountGoLines(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.go"), "package a\n\n  \nfunc A() {}\n")
	writeFile(t, filepath.Join(root, "a_test.go"), "package a\n\nfunc TestA() {}\n")
	writeFile(t, filepath.Join(root, "_examples", "x", "x.go"), "package x\n")
	writeFile(t, filepath.Join(root, "notes.md"), "words here\n")

	prod, err := countGoLines(root, false)
	require.NoError(t, err)
	assert.Equal(t, 2, prod)

	tests, err := countGoLines(root, true)
	require.NoError(t, err)
	assert.Equal(t, 2, tests)
}

func TestCountFilings(t *testing.T) {
	root := t.TempDir()
	done := filepath.Join(root, "0000320193", "10-K", "0000320193-23-000106")
	writeFile(t, filepath.Join(done, "full-submission.txt"), "x")
	writeFile(t, filepath.Join(done, "metadata.yaml"), "form: 10-K\n")
	partial := filepath.Join(root, "0000789019", "10-K", "0000950170-23-035122")
	writeFile(t, filepath.Join(partial, "full-submission.txt"), "x")

	st, err := countFilings(root)
	require.NoError(t, err)
	assert.Equal(t, filingStats{companies: 2, complete: 1, incomplete: 1}, st)
}

func TestCountFilings_MissingRoot(t *testing.T) {
	st, err := countFilings(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Equal(t, filingStats{}, st)
}
