package completion

import (
	"github.com/spf13/cobra"
)

// NewCmdFish creates the fish completion command.
func NewCmdFish() *cobra.Command {
	return &cobra.Command{
		Use:   "fish",
		Short: "Generate fish completion script",
		Long: `Generate fish completion script for mdsite.

To load completions in your current shell session:

  mdsite completion fish | source

To load completions for every new session:

  mdsite completion fish > ~/.config/fish/completions/mdsite.fish`,
		Example: `  # Load in current session
  mdsite completion fish | source

  # Install permanently
  mdsite completion fish > ~/.config/fish/completions/mdsite.fish`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		},
	}
}
