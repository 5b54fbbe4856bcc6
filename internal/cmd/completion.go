package cmd

import (
	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for ffrelease.

To load completions:

Bash:
  $ source <(ffrelease completion bash)

  # To load completions for each session, execute once:
  $ ffrelease completion bash > /etc/bash_completion.d/ffrelease

Zsh:
  $ ffrelease completion zsh > "${fpath[1]}/_ffrelease"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ ffrelease completion fish > ~/.config/fish/completions/ffrelease.fish

PowerShell:
  PS> ffrelease completion powershell | Out-String | Invoke-Expression
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
}
