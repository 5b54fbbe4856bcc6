package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/adamancini/ffrelease/internal/github"
	"github.com/adamancini/ffrelease/internal/update"
)

// maxConcurrentChecks bounds how many apps are resolved at once.
const maxConcurrentChecks = 4

// Failure kinds reported per app.
const (
	failureUnsupportedDevice = "unsupported_device"
	failureNetwork           = "network"
	failureCancelled         = "cancelled"
	failureOther             = "other"
)

type checkResult struct {
	App             string                   `json:"app" yaml:"app"`
	Update          *update.UpdateDescriptor `json:"update,omitempty" yaml:"update,omitempty"`
	Installed       string                   `json:"installed,omitempty" yaml:"installed,omitempty"`
	UpdateAvailable *bool                    `json:"update_available,omitempty" yaml:"update_available,omitempty"`
	Failure         string                   `json:"failure,omitempty" yaml:"failure,omitempty"`
	Error           string                   `json:"error,omitempty" yaml:"error,omitempty"`
}

type checkReport struct {
	Results []checkResult `json:"results" yaml:"results"`
}

func newCheckCmd() *cobra.Command {
	var (
		installed   string
		abiFlags    []string
		prefer32Bit bool
	)

	cmd := &cobra.Command{
		Use:   "check [app...]",
		Short: "Resolve the latest release of apps for this device",
		Long: `Check queries GitHub for the newest stable release of each app and selects the
build matching this device's architecture. Without arguments every registered
app is checked.

Examples:
  ffrelease check                          # Check all apps
  ffrelease check waterfox                 # Check one app
  ffrelease check waterfox --installed 1.1.8
  ffrelease check --abi arm64-v8a --abi armeabi-v7a --prefer-32bit`,
		ValidArgsFunction: completeAppIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if installed != "" && len(args) != 1 {
				return fmt.Errorf("--installed requires exactly one app")
			}
			return runCheck(cmd, args, installed, abiFlags, prefer32Bit)
		},
	}

	cmd.Flags().StringVar(&installed, "installed", "", "Installed version to compare against (single app only)")
	cmd.Flags().StringSliceVar(&abiFlags, "abi", nil, "Device ABIs in preference order (default: detected)")
	cmd.Flags().BoolVar(&prefer32Bit, "prefer-32bit", false, "Prefer 32-bit builds (default from FFRELEASE_PREFER_32BIT)")

	return cmd
}

func runCheck(cmd *cobra.Command, ids []string, installed string, abiFlags []string, prefer32Bit bool) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	targets, err := env.selectApps(ids)
	if err != nil {
		return err
	}

	dev, err := deviceFor(abiFlags)
	if err != nil {
		return err
	}
	consumer, err := env.consumer()
	if err != nil {
		return err
	}
	resolver := update.NewResolver(consumer, dev, env.preferences(cmd, prefer32Bit)).WithLogger(env.log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	env.log.Debug().Strs("device_abis", abiStrings(dev.SupportedABIs)).Int("apps", len(targets)).Msg("checking for updates")

	report := checkReport{Results: make([]checkResult, len(targets))}

	if len(targets) == 1 {
		task := resolver.Start(ctx, targets[0])
		descriptor, err := task.Wait()
		report.Results[0] = newCheckResult(targets[0].ID, descriptor, err)
	} else {
		var g errgroup.Group
		g.SetLimit(maxConcurrentChecks)
		for i, app := range targets {
			i, app := i, app
			g.Go(func() error {
				descriptor, err := resolver.FetchLatestUpdate(ctx, app)
				report.Results[i] = newCheckResult(app.ID, descriptor, err)
				return nil
			})
		}
		_ = g.Wait()
	}

	failed := 0
	for i := range report.Results {
		result := &report.Results[i]
		if result.Failure != "" {
			failed++
			env.log.Debug().Str("app", result.App).Str("failure", result.Failure).Msg(result.Error)
			continue
		}
		if installed != "" {
			available := update.IsNewer(installed, result.Update.Version)
			result.Installed = installed
			result.UpdateAvailable = &available
		}
	}

	if err := env.out.Write(report); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d apps could not be resolved", failed, len(report.Results))
	}
	return nil
}

func newCheckResult(appID string, descriptor *update.UpdateDescriptor, err error) checkResult {
	if err != nil {
		return checkResult{App: appID, Failure: classifyFailure(err), Error: err.Error()}
	}
	return checkResult{App: appID, Update: descriptor}
}

func classifyFailure(err error) string {
	switch {
	case errors.Is(err, update.ErrUnsupportedArchitecture):
		return failureUnsupportedDevice
	case errors.Is(err, context.Canceled):
		return failureCancelled
	case errors.Is(err, github.ErrNetwork):
		return failureNetwork
	default:
		return failureOther
	}
}

func failureMessage(kind string) string {
	switch kind {
	case failureUnsupportedDevice:
		return "no compatible build for this device"
	case failureNetwork:
		return "could not reach update server"
	case failureCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// WriteText renders the report for humans.
func (r checkReport) WriteText(w io.Writer) error {
	for _, res := range r.Results {
		if res.Failure != "" {
			if _, err := fmt.Fprintf(w, "%s: %s\n  %s\n", res.App, failureMessage(res.Failure), res.Error); err != nil {
				return err
			}
			continue
		}

		u := res.Update
		hash := "-"
		if u.FileHash != nil {
			hash = *u.FileHash
		}
		if _, err := fmt.Fprintf(w, "%s %s\n  Published: %s\n  Size:      %d bytes\n  Download:  %s\n  Hash:      %s\n",
			res.App, u.Version, u.PublishDate.Format("2006-01-02"), u.ExactFileSizeBytesOfDownload, u.DownloadURL, hash); err != nil {
			return err
		}

		if res.UpdateAvailable != nil {
			status := "up to date"
			if *res.UpdateAvailable {
				status = "update available"
			}
			if _, err := fmt.Fprintf(w, "  Installed: %s (%s)\n", res.Installed, status); err != nil {
				return err
			}
		}
	}
	return nil
}
