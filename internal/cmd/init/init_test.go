package init

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/mdsite/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdsite/internal/config"
)

func TestRunInit_NonInteractive(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "mdsite.yml")

	var out bytes.Buffer
	opts := &initOptions{title: "My Blog", baseURL: "https://blog.example.com/", video: "player", noVerify: true, yes: true}
	err := runInit(opts, &cmdutil.Options{ConfigPath: configPath, Stdout: &out})
	require.NoError(t, err)

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "My Blog", cfg.Title)
	assert.Equal(t, "https://blog.example.com", cfg.BaseURL)
	assert.Equal(t, "player", cfg.Video.Binding)
	assert.Equal(t, "content", cfg.ContentDir)

	assert.DirExists(t, filepath.Join(dir, "content"))
	assert.Contains(t, out.String(), "Configuration saved to")
}

func TestRunInit_Invalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "mdsite.yml")

	err := runInit(&initOptions{yes: true, noVerify: true}, &cmdutil.Options{ConfigPath: configPath, Stdout: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
	assert.NoFileExists(t, configPath)

	err = runInit(&initOptions{title: "x", video: "flash", yes: true}, &cmdutil.Options{ConfigPath: configPath, Stdout: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "native or player")
}

func TestSaveSite_VerifiesBaseURL(t *testing.T) {
	var method string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	configPath := filepath.Join(t.TempDir(), "mdsite.yml")
	var out bytes.Buffer
	err := saveSite(&config.Config{Title: "Blog", BaseURL: server.URL, ContentDir: "posts", OutputDir: "dist"}, configPath, true, &out)
	require.NoError(t, err)
	assert.Equal(t, http.MethodHead, method)
	assert.Contains(t, out.String(), "ok")
	assert.DirExists(t, filepath.Join(filepath.Dir(configPath), "posts"))
}

func TestSaveSite_BaseURLDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	configPath := filepath.Join(t.TempDir(), "mdsite.yml")
	err := saveSite(&config.Config{Title: "Blog", BaseURL: server.URL, ContentDir: "content", OutputDir: "dist"}, configPath, true, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--no-verify")

	_, statErr := os.Stat(configPath)
	assert.True(t, os.IsNotExist(statErr))
}
