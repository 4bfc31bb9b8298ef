package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/fred/internal/config"
	"github.com/pders01/fred/internal/feed"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "fred dev")
	assert.Contains(t, out.String(), "terminal feed reader")
	assert.Contains(t, out.String(), "github.com/pders01/fred")
}

func TestVersionFlag(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "dev")
}

func TestGenerateConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fred", "config.toml")

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"--generate-config", "--config", path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Generated default configuration at:")

	_, err := os.Stat(path)
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.SeedFeeds(), cfg.Feeds)
}

func TestGenerateConfigDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"--generate-config"})

	require.NoError(t, cmd.Execute())

	_, err := os.Stat(filepath.Join(home, ".config", "fred", "config.toml"))
	assert.NoError(t, err)
}

func TestInvalidConfigFailsBeforeStartingUI(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "malformed toml",
			content: "[[feeds]\nname = ",
		},
		{
			name:    "empty feed name",
			content: "[[feeds]]\nname = \"\"\nurl = \"https://example.com/rss\"\n",
		},
		{
			name:    "unsupported scheme",
			content: "[[feeds]]\nname = \"FTP\"\nurl = \"ftp://example.com/rss\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			var out bytes.Buffer
			cmd := newRootCmd(&out)
			cmd.SetArgs([]string{"--quiet", "--config", path})

			err := cmd.Execute()
			var cfgErr *config.Error
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Empty(t, out.String(), "nothing is drawn")
		})
	}
}

func TestMissingExplicitConfig(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.toml")})

	err := cmd.Execute()
	var cfgErr *config.Error
	assert.True(t, errors.As(err, &cfgErr))
}

func TestRejectsArguments(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"extra"})

	assert.Error(t, cmd.Execute())
}

func TestExitWith(t *testing.T) {
	saved := FatalDelay
	FatalDelay = 20 * time.Millisecond
	defer func() { FatalDelay = saved }()

	var buf bytes.Buffer
	start := time.Now()
	code := exitWith(&buf, &config.Error{Path: "x.toml", Err: errors.New("bad")})

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "invalid configuration x.toml: bad")
	assert.GreaterOrEqual(t, time.Since(start), FatalDelay)

	buf.Reset()
	start = time.Now()
	code = exitWith(&buf, errors.New("ui failed"))
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "ui failed")
	assert.Less(t, time.Since(start), FatalDelay, "only configuration errors pause")
}

func TestSourcesFrom(t *testing.T) {
	sources := sourcesFrom([]config.FeedEntry{
		{Name: "A", URL: "https://a.example/rss"},
		{Name: "B", URL: "https://b.example/rss"},
	})

	assert.Equal(t, []feed.Source{
		{Name: "A", URL: "https://a.example/rss"},
		{Name: "B", URL: "https://b.example/rss"},
	}, sources)
}
