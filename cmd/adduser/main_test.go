package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Success(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "success.db")
	stdout, stderr, stdin := new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer)

	err := run([]string{"-user", "Asha", "-name", "Asha R", "-password", "correct horse", "-db", dbPath}, stdin, stdout, stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "User asha created successfully")
}

func TestRun_DuplicateUser(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "duplicate.db")
	stdout, stderr, stdin := new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer)
	args := []string{"-user", "asha", "-password", "correct horse", "-db", dbPath}

	require.NoError(t, run(args, stdin, stdout, stderr), "first run should succeed")

	err := run(args, stdin, stdout, stderr)
	require.Error(t, err, "expected error on duplicate user")
	assert.Contains(t, err.Error(), "already exists")
}

func TestRun_MissingUserFlag(t *testing.T) {
	stdout, stderr, stdin := new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer)

	err := run([]string{"-password", "correct horse"}, stdin, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required flags: user")
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestRun_InteractivePassword(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "interactive.db")
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	stdin := bytes.NewBufferString("interactive secret\n")

	err := run([]string{"-user", "ravi", "-db", dbPath}, stdin, stdout, stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Password: ")
	assert.Contains(t, stdout.String(), "User ravi created successfully")
}

func TestRun_EmptyPassword(t *testing.T) {
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	stdin := bytes.NewBufferString("\n")

	err := run([]string{"-user", "empty"}, stdin, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password cannot be empty")
}

func TestRun_WeakPasswordRejected(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "weak.db")
	stdout, stderr, stdin := new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer)

	err := run([]string{"-user", "weak", "-password", "short", "-db", dbPath}, stdin, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create user")
}

func TestRun_EnvVarOverride(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("SQLITE_DB_PATH", dbPath)
	stdout, stderr, stdin := new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer)

	require.NoError(t, run([]string{"-user", "envuser", "-password", "correct horse"}, stdin, stdout, stderr))
	assert.FileExists(t, dbPath)
}

func TestRun_InvalidDBPath(t *testing.T) {
	dir := t.TempDir()
	stdout, stderr, stdin := new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer)

	err := run([]string{"-user", "failuser", "-password", "correct horse", "-db", dir}, stdin, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open database")
}

func TestRun_InvalidFlag(t *testing.T) {
	stdout, stderr, stdin := new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer)

	err := run([]string{"-invalid"}, stdin, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flag provided but not defined")
}

func TestMain(m *testing.M) {
	os.Unsetenv("SQLITE_DB_PATH")
	os.Exit(m.Run())
}
