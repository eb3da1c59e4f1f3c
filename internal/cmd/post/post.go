// Package post provides post-related commands.
package post

import (
	"github.com/spf13/cobra"
)

// NewCmdPost creates the post command.
func NewCmdPost() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "post",
		Aliases: []string{"posts"},
		Short:   "Manage posts",
		Long:    `Commands for creating, viewing, and listing posts.`,
	}

	cmd.AddCommand(NewCmdList())
	cmd.AddCommand(NewCmdView())
	cmd.AddCommand(NewCmdNew())

	return cmd
}
