package configcmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdsite/api"
	"github.com/open-cli-collective/mdsite/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdsite/internal/config"
	"github.com/open-cli-collective/mdsite/pkg/md"
)

const testTimeout = 10 * time.Second

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Check the configuration and the site it points at",
		Long: `Validate the configuration, check that the content directory exists
and, when a base URL is set, that the deployed site answers.`,
		Example: `  # Test configuration
  mdsite config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTest(cmdutil.FromCommand(cmd), nil)
		},
	}

	return cmd
}

func runTest(global *cmdutil.Options, cfg *config.Config) error {
	if cfg == nil {
		var err error
		cfg, err = global.RequireConfig()
		if err != nil {
			return err
		}
	}

	renderer, err := global.Renderer(cfg)
	if err != nil {
		return err
	}

	if _, err := md.ParseVideoBinding(cfg.Video.Binding); err != nil {
		renderer.Error(err.Error())
		return err
	}
	renderer.Success("Configuration is valid")

	if info, err := os.Stat(cfg.ContentPath()); err != nil || !info.IsDir() {
		renderer.Error(fmt.Sprintf("Content directory %s not found", cfg.ContentPath()))
		renderer.RenderText("\nCreate it or fix content_dir with: mdsite init")
		return fmt.Errorf("content directory not found: %s", cfg.ContentPath())
	}
	renderer.Success(fmt.Sprintf("Content directory %s", cfg.ContentPath()))

	if cfg.BaseURL == "" {
		renderer.RenderText("\nNo base URL configured, skipping site check.")
		return nil
	}

	renderer.RenderText(fmt.Sprintf("Testing connection to %s...", cfg.BaseURL))

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	if err := api.NewClient(cfg.BaseURL).Ping(ctx); err != nil {
		var errResp *api.ErrorResponse
		if errors.As(err, &errResp) {
			renderer.Error(fmt.Sprintf("Unexpected response: %d %s", errResp.StatusCode, errResp.Message))
			return fmt.Errorf("unexpected status code: %d", errResp.StatusCode)
		}
		renderer.Error("Connection failed: " + err.Error())
		renderer.RenderText("\nCheck your base URL with: mdsite config show")
		return fmt.Errorf("connection failed: %w", err)
	}

	renderer.Success("Site reachable")
	return nil
}
