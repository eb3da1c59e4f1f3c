package cmdutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/mdsite/internal/config"
	"github.com/open-cli-collective/mdsite/internal/view"
	"github.com/open-cli-collective/mdsite/pkg/md"
)

func TestFromCommand(t *testing.T) {
	root := &cobra.Command{Use: "mdsite"}
	root.PersistentFlags().StringP("config", "c", "", "")
	root.PersistentFlags().StringP("output", "o", "", "")
	root.PersistentFlags().Bool("no-color", false, "")
	root.PersistentFlags().BoolP("verbose", "v", false, "")

	var got *Options
	child := &cobra.Command{
		Use: "child",
		RunE: func(cmd *cobra.Command, _ []string) error {
			got = FromCommand(cmd)
			return nil
		},
	}
	root.AddCommand(child)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"child", "-c", "site.yml", "-o", "json", "--no-color", "-v"})
	require.NoError(t, root.Execute())

	require.NotNil(t, got)
	assert.Equal(t, "site.yml", got.ConfigPath)
	assert.Equal(t, "json", got.Output)
	assert.True(t, got.NoColor)
	assert.True(t, got.Verbose)
	assert.Same(t, &out, got.Stdout)
}

func TestOptions_Path(t *testing.T) {
	t.Setenv("MDSITE_CONFIG", "")
	assert.Equal(t, "mdsite.yml", (&Options{}).Path())
	assert.Equal(t, "custom.yml", (&Options{ConfigPath: "custom.yml"}).Path())
}

func TestOptions_RequireConfig(t *testing.T) {
	t.Setenv("MDSITE_TITLE", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "mdsite.yml")

	_, err := (&Options{ConfigPath: path}).RequireConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mdsite init")

	require.NoError(t, os.WriteFile(path, []byte("title: Blog\n"), 0600))
	cfg, err := (&Options{ConfigPath: path}).RequireConfig()
	require.NoError(t, err)
	assert.Equal(t, "Blog", cfg.Title)
}

func TestOptions_Format(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		config  string
		want    view.Format
		wantErr bool
	}{
		{"default", "", "", view.FormatTable, false},
		{"from config", "", "plain", view.FormatPlain, false},
		{"flag wins", "json", "plain", view.FormatJSON, false},
		{"invalid", "xml", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &Options{Output: tt.flag}
			got, err := opts.Format(&config.Config{OutputFormat: tt.config})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptions_Logger(t *testing.T) {
	var stderr bytes.Buffer
	opts := &Options{Stderr: &stderr, NoColor: true}
	cfg := &config.Config{Log: config.LogConfig{Level: "warn"}}

	opts.Logger(cfg).Info("hidden")
	assert.Empty(t, stderr.String())

	opts.Verbose = true
	opts.Logger(cfg).Debug("shown")
	assert.Contains(t, stderr.String(), "shown")
}

func TestMarkdownOptions(t *testing.T) {
	cfg := &config.Config{Video: config.VideoConfig{Binding: "player"}}
	cfg.ApplyDefaults()

	opts, err := MarkdownOptions(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, md.VideoPlayer, opts.VideoBinding)

	sources, ok := opts.Manifests.(md.ManifestSources)
	require.True(t, ok)
	assert.NotNil(t, sources.Local)
	assert.Nil(t, sources.Remote)

	cfg.Comics.RemoteManifests = true
	opts, err = MarkdownOptions(cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, opts.Manifests.(md.ManifestSources).Remote)

	cfg.Video.Binding = "flash"
	_, err = MarkdownOptions(cfg, nil)
	assert.Error(t, err)
}
