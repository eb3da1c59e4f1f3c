// Package configcmd provides config management commands.
package configcmd

import (
	"github.com/spf13/cobra"
)

// NewCmdConfig creates the config command.
func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage mdsite configuration",
		Long:  `Commands for viewing, testing, and clearing mdsite configuration.`,
	}

	cmd.AddCommand(NewCmdShow())
	cmd.AddCommand(NewCmdTest())
	cmd.AddCommand(NewCmdClear())

	return cmd
}

// envVars lists every environment variable that overrides the config file.
var envVars = []string{
	"MDSITE_TITLE", "MDSITE_BASE_URL", "SITE_URL",
	"MDSITE_CONTENT_DIR", "MDSITE_OUTPUT_DIR", "MDSITE_PUBLIC_DIR", "MDSITE_COMICS_DIR",
	"MDSITE_VIDEO_BINDING", "MDSITE_REMOTE_MANIFESTS", "MDSITE_UNSAFE_HTML",
	"MDSITE_LOG_LEVEL", "LOG_LEVEL", "MDSITE_LOG_FORMAT",
}
