package cmd

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for checkrun.

To load completions:

Bash:
  $ source <(checkrun completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ checkrun completion bash > /etc/bash_completion.d/checkrun
  # macOS:
  $ checkrun completion bash > $(brew --prefix)/etc/bash_completion.d/checkrun

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ checkrun completion zsh > "${fpath[1]}/_checkrun"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ checkrun completion fish | source

  # To load completions for each session, execute once:
  $ checkrun completion fish > ~/.config/fish/completions/checkrun.fish

PowerShell:
  PS> checkrun completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> checkrun completion powershell > checkrun.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletionV2(out, true)
		case "zsh":
			return cmd.Root().GenZshCompletion(out)
		case "fish":
			return cmd.Root().GenFishCompletion(out, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
