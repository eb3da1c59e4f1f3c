package completion

import (
	"github.com/spf13/cobra"
)

// NewCmdBash creates the bash completion command.
func NewCmdBash() *cobra.Command {
	return &cobra.Command{
		Use:   "bash",
		Short: "Generate bash completion script",
		Long: `Generate bash completion script for mdsite.

To load completions in your current shell session:

  source <(mdsite completion bash)

To load completions for every new session:

  # Linux
  mdsite completion bash > /etc/bash_completion.d/mdsite

  # macOS (requires bash-completion)
  mdsite completion bash > $(brew --prefix)/etc/bash_completion.d/mdsite`,
		Example: `  # Load in current session
  source <(mdsite completion bash)

  # Install permanently (Linux)
  mdsite completion bash | sudo tee /etc/bash_completion.d/mdsite > /dev/null

  # Install permanently (macOS with Homebrew)
  mdsite completion bash > $(brew --prefix)/etc/bash_completion.d/mdsite`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
		},
	}
}
