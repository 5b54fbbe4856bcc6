package cmd

import (
	"github.com/spf13/cobra"

	"github.com/adamancini/ffrelease/internal/output"
)

var (
	// Global flags
	outputFormat string
	configPath   string
	envFile      string
	verbose      bool
	quiet        bool
)

// BuildInfo identifies the running ffrelease binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

func Execute(version, commit, date string) error {
	return newRootCmd(BuildInfo{Version: version, Commit: commit, Date: date}).Execute()
}

func newRootCmd(info BuildInfo) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ffrelease",
		Short: "Find the latest release of Android browsers for this device",
		Long: `ffrelease looks up the newest stable release of each registered app on GitHub,
picks the build matching this device's processor architecture, and reports
its download URL, version, publish date and size.

Apps are compiled in and can be extended with an apps file (apps.yaml, apps.toml
or apps.json) in $XDG_CONFIG_HOME/ffrelease or ~/.ffrelease.`,
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to apps file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment variables from this file (default ./.env if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	// Add subcommands
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newAppsCmd())
	rootCmd.AddCommand(newABICmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd(info))
	rootCmd.AddCommand(newCompletionCmd())

	// Register completion function for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return output.AllFormats(), cobra.ShellCompDirectiveNoFileComp
	})

	return rootCmd
}
