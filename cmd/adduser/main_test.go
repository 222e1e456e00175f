package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"ledger/internal/auth"
	"ledger/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_CreatesUserWithPipedPassword(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ledger.db")
	var stdout, stderr bytes.Buffer

	code := run([]string{"-user", "admin", "-email", "admin@example.com", "-role", "admin", "-db", db},
		strings.NewReader("hunter22\n"), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), `created admin user "admin"`)

	repo, err := storage.NewSQLiteRepository(db)
	require.NoError(t, err)
	defer repo.Close()

	u, err := repo.GetUserByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Role)
	assert.NoError(t, auth.CheckPassword(u.PasswordHash, "hunter22"))
}

func TestRun_Rejects(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ledger.db")
	base := []string{"-user", "alice", "-email", "alice@example.com", "-password", "secret1", "-db", db}

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run(base, strings.NewReader(""), &stdout, &stderr), stderr.String())

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"duplicate", base, "Username or email already registered"},
		{"bad role", []string{"-user", "bob", "-email", "bob@example.com", "-password", "secret1", "-role", "root", "-db", db}, "invalid role"},
		{"short password", []string{"-user", "bob", "-email", "bob@example.com", "-password", "x", "-db", db}, "invalid user"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, 1, run(tt.args, strings.NewReader(""), &stdout, &stderr))
			assert.Contains(t, stderr.String(), tt.want)
		})
	}
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"-nope"}, strings.NewReader(""), &stdout, &stderr))
}
