package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCompletionCmd creates a completion command for generating shell completion scripts
func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate completion script",
		Long: `To load completions:

Bash:
  $ source <(vidnav completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ vidnav completion bash > /etc/bash_completion.d/vidnav
  # macOS:
  $ vidnav completion bash > $(brew --prefix)/etc/bash_completion.d/vidnav

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ vidnav completion zsh > "${fpath[1]}/_vidnav"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ vidnav completion fish | source

  # To load completions for each session, execute once:
  $ vidnav completion fish > ~/.config/fish/completions/vidnav.fish

PowerShell:
  PS> vidnav completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> vidnav completion powershell > vidnav.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unsupported shell type: %s", args[0])
			}
		},
	}

	// Completion needs neither logging nor configuration
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return nil
	}

	return cmd
}
