package configcmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdsite/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdsite/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the effective mdsite configuration with the source of each value.`,
		Example: `  # Show current config
  mdsite config show

  # As JSON
  mdsite config show -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(cmdutil.FromCommand(cmd))
		},
	}

	return cmd
}

func runShow(global *cmdutil.Options) error {
	configPath := global.Path()

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides
	cfg, err := global.LoadConfig()
	if err != nil {
		return err
	}

	renderer, err := global.Renderer(cfg)
	if err != nil {
		return err
	}
	if renderer.IsJSON() {
		return renderer.RenderJSON(cfg)
	}

	out := renderer.Writer()
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue string, envVars ...string) {
		_, _ = bold.Fprintf(out, "%-18s", label+":")
		if value == "" {
			_, _ = dim.Fprintln(out, "-")
			return
		}

		fmt.Fprint(out, value)

		// Determine source
		source := "default"
		if fileErr == nil && fileValue == value {
			source = "config"
		}
		for _, envVar := range envVars {
			if v := os.Getenv(envVar); v != "" && v == value {
				source = envVar
				break
			}
		}

		_, _ = dim.Fprintf(out, "  (source: %s)\n", source)
	}

	printField("Title", cfg.Title, fileCfg.Title, "MDSITE_TITLE")
	printField("Base URL", cfg.BaseURL, fileCfg.BaseURL, "MDSITE_BASE_URL", "SITE_URL")
	printField("Content dir", cfg.ContentDir, fileCfg.ContentDir, "MDSITE_CONTENT_DIR")
	printField("Output dir", cfg.OutputDir, fileCfg.OutputDir, "MDSITE_OUTPUT_DIR")
	printField("Public dir", cfg.PublicDir, fileCfg.PublicDir, "MDSITE_PUBLIC_DIR")
	printField("Comics dir", cfg.ComicsDir, fileCfg.ComicsDir, "MDSITE_COMICS_DIR")
	printField("Video binding", cfg.Video.Binding, fileCfg.Video.Binding, "MDSITE_VIDEO_BINDING")
	printField("Remote manifests", strconv.FormatBool(cfg.Comics.RemoteManifests),
		strconv.FormatBool(fileCfg.Comics.RemoteManifests), "MDSITE_REMOTE_MANIFESTS")
	printField("Unsafe HTML", strconv.FormatBool(cfg.Markdown.UnsafeHTML),
		strconv.FormatBool(fileCfg.Markdown.UnsafeHTML), "MDSITE_UNSAFE_HTML")
	printField("Log level", cfg.Log.Level, fileCfg.Log.Level, "MDSITE_LOG_LEVEL", "LOG_LEVEL")
	printField("Log format", cfg.Log.Format, fileCfg.Log.Format, "MDSITE_LOG_FORMAT")

	fmt.Fprintln(out)
	_, _ = dim.Fprintf(out, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(out, "(file not found)")
	}

	return nil
}
