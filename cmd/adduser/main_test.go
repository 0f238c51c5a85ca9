package main

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/expensetracker/internal/domain"
)

func runAddUser(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	err := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)

	return stdout.String(), err
}

func TestRun_Created(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "users.db")

	out, err := runAddUser(t, "", "-user", " alice ", "-password", "secret1", "-db", dbPath, "-cost", "4")
	require.NoError(t, err)
	assert.Contains(t, out, `created user "alice" with id 1`)
}

func TestRun_PromptsForPassword(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "users.db")

	out, err := runAddUser(t, "secret1\n", "-user", "bob", "-db", dbPath, "-cost", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Password: ")
	assert.Contains(t, out, `created user "bob"`)
}

func TestRun_Duplicate(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "users.db")
	args := []string{"-user", "alice", "-password", "secret1", "-db", dbPath, "-cost", "4"}

	_, err := runAddUser(t, "", args...)
	require.NoError(t, err)

	_, err = runAddUser(t, "", args...)
	assert.ErrorIs(t, err, domain.ErrUsernameExists)
}

func TestRun_Validation(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "users.db")

	_, err := runAddUser(t, "", "-user", "al", "-password", "secret1", "-db", dbPath)
	require.ErrorIs(t, err, domain.ErrUsernameTooShort)

	_, err = runAddUser(t, "", "-user", "alice", "-password", "12345", "-db", dbPath)
	require.ErrorIs(t, err, domain.ErrPasswordTooShort)

	_, err = runAddUser(t, "", "-user", "alice", "-db", dbPath)
	assert.Error(t, err, "empty stdin")
}

func TestRun_Flags(t *testing.T) {
	t.Parallel()

	_, err := runAddUser(t, "")
	require.ErrorIs(t, err, errMissingUser)

	_, err = runAddUser(t, "", "-help")
	assert.ErrorIs(t, err, flag.ErrHelp)
}

//nolint:paralleltest
func TestRun_DatabasePathFromEnv(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "from-env.db")
	t.Setenv(dbPathEnv, dbPath)

	_, err := runAddUser(t, "", "-user", "carol", "-password", "secret1", "-cost", "4")
	require.NoError(t, err)
	assert.FileExists(t, dbPath)
}
