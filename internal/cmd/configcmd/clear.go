package configcmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdsite/internal/cmd/cmdutil"
	"github.com/open-cli-collective/mdsite/internal/view"
)

// NewCmdClear creates the config clear command.
func NewCmdClear() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove stored configuration",
		Long:  `Delete the mdsite configuration file. Environment variables will still be used if set.`,
		Example: `  # Clear config
  mdsite config clear`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClear(cmdutil.FromCommand(cmd))
		},
	}

	return cmd
}

func runClear(global *cmdutil.Options) error {
	configPath := global.Path()

	err := os.Remove(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove config file: %w", err)
	}

	renderer := view.NewRenderer(view.FormatTable, global.NoColor)
	if global.Stdout != nil {
		renderer.SetWriter(global.Stdout)
	}

	if os.IsNotExist(err) {
		renderer.Success("No config file to remove")
	} else {
		renderer.Success("Configuration cleared from " + configPath)
	}

	// Check if env vars are set
	var activeVars []string
	for _, v := range envVars {
		if os.Getenv(v) != "" {
			activeVars = append(activeVars, v)
		}
	}

	if len(activeVars) > 0 {
		dim := color.New(color.Faint)
		_, _ = dim.Fprintf(renderer.Writer(), "\nNote: Environment variables will still be used: %s\n", strings.Join(activeVars, ", "))
	}

	return nil
}
