package handlers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCredentials(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Authentication.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileCheckerMatchesStoredPair(t *testing.T) {
	path := writeCredentials(t, "Username Password\nalice secret123\nbob hunter2\n")
	checker := NewFileChecker(path)

	ok, err := checker.Check("alice", "secret123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = checker.Check("bob", "hunter2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileCheckerRejectsWrongPassword(t *testing.T) {
	path := writeCredentials(t, "Username Password\nalice secret123\n")
	checker := NewFileChecker(path)

	ok, err := checker.Check("alice", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = checker.Check("nobody", "secret123")
	require.NoError(t, err)
	assert.False(t, ok)
}

// The first line is a header; a user literally named like the header must
// not authenticate through it.
func TestFileCheckerSkipsHeader(t *testing.T) {
	path := writeCredentials(t, "Username Password\nalice secret123\n")
	checker := NewFileChecker(path)

	ok, err := checker.Check("Username", "Password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileCheckerMissingFile(t *testing.T) {
	checker := NewFileChecker(filepath.Join(t.TempDir(), "missing.txt"))
	_, err := checker.Check("alice", "secret123")
	assert.Error(t, err)
}

func TestFileCheckerIgnoresMalformedLines(t *testing.T) {
	path := writeCredentials(t, "Username Password\n\njustone\nalice secret123\n")
	checker := NewFileChecker(path)

	ok, err := checker.Check("alice", "secret123")
	require.NoError(t, err)
	assert.True(t, ok)
}
