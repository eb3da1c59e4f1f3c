package importcmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/mdsite/internal/cmd/cmdutil"
)

const alertHTML = `<blockquote class="admonition bdm-tip"><span class="bdm-title">TIP</span><p>Hello</p></blockquote>`

func setup(t *testing.T) (*cmdutil.Options, *bytes.Buffer) {
	t.Helper()
	t.Setenv("MDSITE_LOG_LEVEL", "")
	t.Setenv("LOG_LEVEL", "")
	stdout := &bytes.Buffer{}
	return &cmdutil.Options{
		ConfigPath: filepath.Join(t.TempDir(), "mdsite.yml"),
		NoColor:    true,
		Stdout:     stdout,
		Stderr:     &bytes.Buffer{},
	}, stdout
}

func TestRunImport_File(t *testing.T) {
	global, stdout := setup(t)
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(alertHTML), 0644))

	err := runImport(context.Background(), path, &importOptions{}, global)
	require.NoError(t, err)
	assert.Equal(t, ":::tip\nHello\n:::", strings.TrimSpace(stdout.String()))
}

func TestRunImport_SkipDirectives(t *testing.T) {
	global, stdout := setup(t)

	opts := &importOptions{skipDirectives: true, stdin: strings.NewReader(alertHTML)}
	err := runImport(context.Background(), "-", opts, global)
	require.NoError(t, err)
	assert.NotContains(t, stdout.String(), ":::tip")
	assert.Contains(t, stdout.String(), "Hello")
}

func TestRunImport_URL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hello.html", r.URL.Path)
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<h1>Hello</h1><p>World</p>`))
	}))
	defer server.Close()

	global, stdout := setup(t)
	err := runImport(context.Background(), server.URL+"/hello.html", &importOptions{}, global)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "# Hello")
	assert.Contains(t, stdout.String(), "World")
}

func TestRunImport_URLNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	global, _ := setup(t)
	err := runImport(context.Background(), server.URL+"/missing.html", &importOptions{}, global)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch")
}

func TestRunImport_Write(t *testing.T) {
	global, stdout := setup(t)
	target := filepath.Join(t.TempDir(), "content", "hello.md")

	opts := &importOptions{write: target, stdin: strings.NewReader("<p>Hi</p>")}
	require.NoError(t, runImport(context.Background(), "-", opts, global))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "Hi\n", string(data))
	assert.Contains(t, stdout.String(), "Imported - to")

	opts.stdin = strings.NewReader("<p>Again</p>")
	err = runImport(context.Background(), "-", opts, global)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	opts.stdin = strings.NewReader("<p>Again</p>")
	opts.force = true
	require.NoError(t, runImport(context.Background(), "-", opts, global))
	data, err = os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "Again\n", string(data))
}

func TestRunImport_JSON(t *testing.T) {
	global, stdout := setup(t)
	global.Output = "json"

	err := runImport(context.Background(), "-", &importOptions{stdin: strings.NewReader("<p>Hi</p>")}, global)
	require.NoError(t, err)

	var result map[string]string
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	assert.Equal(t, "Hi", result["markdown"])
	assert.Equal(t, "-", result["source"])
}

func TestIsURL(t *testing.T) {
	assert.True(t, isURL("https://example.com/a.html"))
	assert.True(t, isURL("HTTP://example.com"))
	assert.False(t, isURL("page.html"))
	assert.False(t, isURL("/abs/page.html"))
	assert.False(t, isURL("ftp://example.com/x"))
	assert.False(t, isURL("https://"))
}
