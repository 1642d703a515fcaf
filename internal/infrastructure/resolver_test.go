package infrastructure

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/you-get-desk/internal/domain"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0755))
}

func TestDefaultCandidates(t *testing.T) {
	bare, candidates := DefaultCandidates("windows", "you-get")
	assert.True(t, bare)
	assert.Empty(t, candidates)

	bare, candidates = DefaultCandidates("darwin", "you-get")
	assert.False(t, bare)
	assert.Equal(t, []string{
		"/usr/local/bin/you-get",
		"/opt/homebrew/bin/you-get",
		"~/.local/bin/you-get",
		"~/.pyenv/shims/you-get",
		"/usr/bin/you-get",
		"/bin/you-get",
	}, candidates)
}

func TestResolve_BareNameSkipsProbing(t *testing.T) {
	r := &ExecutableResolver{name: "you-get", useBareName: true}
	r.WithFileSystem(
		func() (string, error) { t.Fatal("home lookup not expected"); return "", nil },
		func(string) (os.FileInfo, error) { t.Fatal("stat not expected"); return nil, nil },
	)

	path, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "you-get", path)
}

func TestResolve_FirstExistingCandidateWins(t *testing.T) {
	dir := t.TempDir()
	high := filepath.Join(dir, "high", "you-get")
	low := filepath.Join(dir, "low", "you-get")
	r := NewCandidateResolver([]string{high, low}, "missing")

	touch(t, low)
	path, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, low, path)

	// a higher-priority candidate appearing must change the result
	touch(t, high)
	path, err = r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, high, path)
}

func TestResolve_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	touch(t, filepath.Join(home, ".local", "bin", "you-get"))

	r := NewCandidateResolver([]string{"/nonexistent/you-get", "~/.local/bin/you-get"}, "missing").
		WithFileSystem(func() (string, error) { return home, nil }, os.Stat)

	path, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "bin", "you-get"), path)
}

func TestResolve_UnknownHomeSkipsHomeCandidates(t *testing.T) {
	var probed []string
	r := NewCandidateResolver([]string{"~/.local/bin/you-get", "/usr/bin/you-get"}, "missing").
		WithFileSystem(
			func() (string, error) { return "", errors.New("no home") },
			func(p string) (os.FileInfo, error) {
				probed = append(probed, p)
				return nil, os.ErrNotExist
			},
		)

	_, err := r.Resolve()
	require.Error(t, err)
	assert.Equal(t, []string{"/usr/bin/you-get"}, probed)
}

func TestResolve_NotFound(t *testing.T) {
	r := NewCandidateResolver([]string{filepath.Join(t.TempDir(), "you-get")}, "you-get was not found")

	_, err := r.Resolve()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExecutableNotFound))
	assert.Equal(t, "you-get was not found", err.Error())
}

func TestNewExecutableResolver_ExplicitBinaryFirst(t *testing.T) {
	config := &domain.ToolConfig{Name: "you-get", Binary: "/opt/custom/you-get"}
	r := NewExecutableResolver(config, domain.MessagesFor("en"))

	candidates := r.Candidates()
	require.NotEmpty(t, candidates)
	assert.Equal(t, "/opt/custom/you-get", candidates[0])
	assert.False(t, r.useBareName)
}
