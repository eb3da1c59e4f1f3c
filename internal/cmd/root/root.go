// Package root provides the root command for the mdsite CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mdsite/internal/cmd/build"
	"github.com/open-cli-collective/mdsite/internal/cmd/comiccmd"
	"github.com/open-cli-collective/mdsite/internal/cmd/completion"
	"github.com/open-cli-collective/mdsite/internal/cmd/configcmd"
	"github.com/open-cli-collective/mdsite/internal/cmd/importcmd"
	initcmd "github.com/open-cli-collective/mdsite/internal/cmd/init"
	"github.com/open-cli-collective/mdsite/internal/cmd/post"
	"github.com/open-cli-collective/mdsite/internal/cmd/render"
	"github.com/open-cli-collective/mdsite/internal/cmd/search"
	"github.com/open-cli-collective/mdsite/internal/version"
)

// NewCmdRoot creates the root command for mdsite.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mdsite",
		Short: "Build a static site from directive Markdown",
		Long: `mdsite renders Markdown posts with ::video, ::comic and :::alert
directives into a static HTML site.

Directives that fail validation are left in place and reported,
so a build never stops on a typo.

Get started by running: mdsite init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ./mdsite.yml or $MDSITE_CONFIG)")
	cmd.PersistentFlags().StringP("output", "o", "", "output format: table, json, plain (default: output_format from config, else table)")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	// Set version template
	cmd.SetVersionTemplate("mdsite version {{.Version}} (commit: " + version.Commit + ", built: " + version.Date + ")\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(build.NewCmdBuild())
	cmd.AddCommand(render.NewCmdRender())
	cmd.AddCommand(importcmd.NewCmdImport())
	cmd.AddCommand(post.NewCmdPost())
	cmd.AddCommand(search.NewCmdSearch())
	cmd.AddCommand(comiccmd.NewCmdComic())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
