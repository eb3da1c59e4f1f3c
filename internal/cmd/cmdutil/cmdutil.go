// Package cmdutil holds the flag and config plumbing shared by mdsite commands.
package cmdutil

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/open-cli-collective/mdsite/api"
	"github.com/open-cli-collective/mdsite/internal/config"
	"github.com/open-cli-collective/mdsite/internal/logging"
	"github.com/open-cli-collective/mdsite/internal/view"
	"github.com/open-cli-collective/mdsite/pkg/md"
)

// remoteManifestTimeout bounds a single remote manifest fetch during a build.
const remoteManifestTimeout = 10 * time.Second

// Options are the global flags every command reads.
type Options struct {
	ConfigPath string
	Output     string
	NoColor    bool
	Verbose    bool

	Stdout io.Writer
	Stderr io.Writer
}

// FromCommand reads the persistent root flags of cmd.
func FromCommand(cmd *cobra.Command) *Options {
	opts := &Options{
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}
	opts.ConfigPath, _ = cmd.Flags().GetString("config")
	opts.Output, _ = cmd.Flags().GetString("output")
	opts.NoColor, _ = cmd.Flags().GetBool("no-color")
	opts.Verbose, _ = cmd.Flags().GetBool("verbose")
	return opts
}

// Path returns the configuration file to use.
func (o *Options) Path() string {
	if o.ConfigPath != "" {
		return o.ConfigPath
	}
	return config.DefaultConfigPath()
}

func (o *Options) stdout() io.Writer {
	if o.Stdout == nil {
		return os.Stdout
	}
	return o.Stdout
}

func (o *Options) stderr() io.Writer {
	if o.Stderr == nil {
		return os.Stderr
	}
	return o.Stderr
}

// LoadConfig loads the configuration file with environment overrides. A
// missing file yields defaults.
func (o *Options) LoadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithEnv(o.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w (run 'mdsite init' to configure)", err)
	}
	return cfg, nil
}

// RequireConfig loads the configuration and validates it.
func (o *Options) RequireConfig() (*config.Config, error) {
	cfg, err := o.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w (run 'mdsite init' to configure)", err)
	}
	return cfg, nil
}

// Format returns the output format: the --output flag, else the configured
// output_format, else table.
func (o *Options) Format(cfg *config.Config) (view.Format, error) {
	format := o.Output
	if format == "" && cfg != nil {
		format = cfg.OutputFormat
	}
	if err := view.ValidateFormat(format); err != nil {
		return "", err
	}
	if format == "" {
		return view.FormatTable, nil
	}
	return view.Format(format), nil
}

// Renderer creates a renderer writing to stdout.
func (o *Options) Renderer(cfg *config.Config) (*view.Renderer, error) {
	format, err := o.Format(cfg)
	if err != nil {
		return nil, err
	}
	r := view.NewRenderer(format, o.NoColor)
	r.SetWriter(o.stdout())
	return r, nil
}

// DiagnosticsRenderer creates a renderer writing to stderr, so diagnostics
// never mix with converted output on stdout.
func (o *Options) DiagnosticsRenderer() *view.Renderer {
	r := view.NewRenderer(view.FormatTable, o.NoColor)
	r.SetWriter(o.stderr())
	return r
}

// Logger builds the logger configured for cfg. --verbose forces debug.
func (o *Options) Logger(cfg *config.Config) *zap.Logger {
	lc := logging.Config{Output: o.stderr(), Color: !o.NoColor && !color.NoColor}
	if cfg != nil {
		lc.Level = cfg.Log.Level
		lc.JSON = cfg.Log.Format == "json"
	}
	if o.Verbose {
		lc.Level = "debug"
	}
	return logging.New(lc)
}

// MarkdownOptions builds converter options from cfg. Comic manifests are
// read from the public directory, and from remote sites when enabled.
func MarkdownOptions(cfg *config.Config, logger *zap.Logger) (md.Options, error) {
	binding, err := md.ParseVideoBinding(cfg.Video.Binding)
	if err != nil {
		return md.Options{}, err
	}

	sources := md.ManifestSources{Local: md.FileManifests{Root: cfg.PublicPath()}}
	if cfg.Comics.RemoteManifests {
		sources.Remote = md.RemoteManifests{
			Fetcher: api.NewClient(cfg.BaseURL),
			Timeout: remoteManifestTimeout,
		}
	}

	return md.Options{
		VideoBinding: binding,
		Manifests:    sources,
		Logger:       logger,
		UnsafeHTML:   cfg.Markdown.UnsafeHTML,
	}, nil
}
