// Package init provides the init command for mdsite.
package init

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdsite/api"
	"github.com/open-cli-collective/mdsite/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdsite/internal/config"
)

const verifyTimeout = 10 * time.Second

type initOptions struct {
	title      string
	baseURL    string
	contentDir string
	video      string
	noVerify   bool
	yes        bool
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize an mdsite site",
		Long: `Initialize an mdsite site in the current directory.

This command will guide you through setting the site title, its public
URL and where posts live. The configuration is saved to mdsite.yml
(or the file named by --config) and the content directory is created.`,
		Example: `  # Interactive setup
  mdsite init

  # Non-interactive
  mdsite init --yes --title "My Blog" --base-url https://blog.example.com`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(opts, cmdutil.FromCommand(cmd))
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "Site title")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "Public URL of the site (e.g., https://blog.example.com)")
	cmd.Flags().StringVar(&opts.contentDir, "content-dir", "", "Directory holding Markdown posts (default: content)")
	cmd.Flags().StringVar(&opts.video, "video", "", "Video binding: native or player (default: native)")
	cmd.Flags().BoolVar(&opts.noVerify, "no-verify", false, "Skip checking that the base URL answers")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Skip prompts and overwrite an existing config")

	return cmd
}

func runInit(opts *initOptions, global *cmdutil.Options) error {
	configPath := global.Path()
	out := global.Stdout
	if out == nil {
		out = os.Stdout
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !opts.yes {
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(out, "Initialization cancelled.")
			return nil
		}
	}

	cfg := &config.Config{
		Title:      opts.title,
		BaseURL:    opts.baseURL,
		ContentDir: opts.contentDir,
		Video:      config.VideoConfig{Binding: opts.video},
	}
	cfg.ApplyDefaults()

	if !opts.yes {
		if err := newForm(cfg).Run(); err != nil {
			return err
		}
	}

	return saveSite(cfg, configPath, !opts.noVerify, out)
}

func newForm(cfg *config.Config) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Site title").
				Placeholder("My Blog").
				Value(&cfg.Title).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),

			huh.NewInput().
				Title("Base URL (optional)").
				Description("Public URL the site is served from, used for canonical links").
				Placeholder("https://blog.example.com").
				Value(&cfg.BaseURL),

			huh.NewInput().
				Title("Content directory").
				Description("Where Markdown posts live").
				Value(&cfg.ContentDir),

			huh.NewSelect[string]().
				Title("Video rendering").
				Options(
					huh.NewOption("Native <video> element", "native"),
					huh.NewOption("Client-side player placeholder", "player"),
				).
				Value(&cfg.Video.Binding),
		),
	)
}

// saveSite validates cfg, optionally checks the base URL, then writes the
// config file and creates the content directory.
func saveSite(cfg *config.Config, configPath string, verify bool, out io.Writer) error {
	cfg.NormalizeURL()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if verify && cfg.BaseURL != "" {
		fmt.Fprintf(out, "Checking %s... ", cfg.BaseURL)
		if err := verifyBaseURL(cfg.BaseURL); err != nil {
			fmt.Fprintln(out, "failed!")
			return fmt.Errorf("base URL check failed: %w (use --no-verify to skip)", err)
		}
		fmt.Fprintln(out, "ok")
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	// Reload so content_dir resolves relative to the config file.
	saved, err := config.Load(configPath)
	if err != nil {
		return err
	}
	saved.ApplyDefaults()
	if err := os.MkdirAll(saved.ContentPath(), 0755); err != nil {
		return fmt.Errorf("failed to create content directory: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration saved to %s\n", configPath)
	fmt.Fprintln(out, "\nYou're all set! Try running:")
	fmt.Fprintln(out, `  mdsite post new "Hello world"`)
	fmt.Fprintln(out, "  mdsite build")

	return nil
}

func verifyBaseURL(baseURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()
	return api.NewClient(baseURL).Ping(ctx)
}
