// Package comiccmd provides comic gallery commands.
package comiccmd

import (
	"github.com/spf13/cobra"
)

// NewCmdComic creates the comic command.
func NewCmdComic() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "comic",
		Aliases: []string{"comics"},
		Short:   "Manage comic galleries",
		Long: `Commands for generating and listing the manifest.json files that
::comic directives read their cover from.`,
	}

	cmd.AddCommand(NewCmdManifest())
	cmd.AddCommand(NewCmdList())

	return cmd
}
