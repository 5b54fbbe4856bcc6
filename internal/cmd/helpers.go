package cmd

import (
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/adamancini/ffrelease/internal/apps"
	"github.com/adamancini/ffrelease/internal/config"
	"github.com/adamancini/ffrelease/internal/device"
	"github.com/adamancini/ffrelease/internal/github"
	"github.com/adamancini/ffrelease/internal/logger"
	"github.com/adamancini/ffrelease/internal/output"
	"github.com/adamancini/ffrelease/internal/types"
	"github.com/adamancini/ffrelease/internal/update"
)

// cliEnv bundles what every subcommand needs: settings, registry, logger
// and an output writer.
type cliEnv struct {
	settings *config.Settings
	registry *apps.Registry
	log      zerolog.Logger
	out      *output.Writer
	closeLog io.Closer
}

// loadEnv reads settings and the apps registry according to global flags.
// Callers must call Close when done.
func loadEnv(cmd *cobra.Command) (*cliEnv, error) {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}

	settings, err := config.LoadSettings(envFile)
	if err != nil {
		return nil, err
	}

	level := settings.LogLevel
	switch {
	case verbose:
		level = "debug"
	case quiet:
		level = "error"
	}
	log, closeLog, err := logger.New(logger.Options{
		Level:   level,
		File:    settings.LogFile,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	appsPath := configPath
	if appsPath == "" {
		appsPath = settings.AppsFile
	}
	registry, path, err := config.LoadRegistry(appsPath)
	if err != nil {
		closeLog.Close()
		return nil, err
	}
	if path != "" {
		log.Debug().Str("path", path).Msg("using apps file")
	}

	return &cliEnv{
		settings: settings,
		registry: registry,
		log:      log,
		out:      output.NewWriter(cmd.OutOrStdout(), format),
		closeLog: closeLog,
	}, nil
}

func (e *cliEnv) Close() error {
	return e.closeLog.Close()
}

// consumer builds the GitHub release consumer from settings.
func (e *cliEnv) consumer() (*github.Consumer, error) {
	c := github.NewConsumer(&http.Client{Timeout: e.settings.Timeout}).
		WithToken(e.settings.GitHubToken).
		WithMaxPages(e.settings.MaxPages).
		WithLogger(e.log)
	return c.WithBaseURL(e.settings.APIURL)
}

// deviceFor returns the detected device, or one built from the --abi override.
func deviceFor(abiFlags []string) (*device.Device, error) {
	if len(abiFlags) == 0 {
		return device.Detect(), nil
	}
	abis := make([]types.ABI, 0, len(abiFlags))
	for _, s := range abiFlags {
		abi, err := types.ParseABI(s)
		if err != nil {
			return nil, fmt.Errorf("--abi: %w", err)
		}
		abis = append(abis, abi)
	}
	return device.FromABIs(abis...), nil
}

// preferences merges the --prefer-32bit flag over the environment setting.
func (e *cliEnv) preferences(cmd *cobra.Command, flagValue bool) update.StaticPreferences {
	prefer := e.settings.Prefer32BitAPKs()
	if cmd.Flags().Changed("prefer-32bit") {
		prefer = flagValue
	}
	return update.StaticPreferences{Prefer32Bit: prefer}
}

// selectApps resolves app IDs against the registry; no IDs means all apps.
func (e *cliEnv) selectApps(ids []string) ([]apps.App, error) {
	if len(ids) == 0 {
		return e.registry.All(), nil
	}
	selected := make([]apps.App, 0, len(ids))
	for _, id := range ids {
		app, err := e.registry.Get(id)
		if err != nil {
			return nil, err
		}
		selected = append(selected, app)
	}
	return selected, nil
}

// completeAppIDs offers registry IDs for shell completion.
func completeAppIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return apps.Builtin().IDs(), cobra.ShellCompDirectiveNoFileComp
}
