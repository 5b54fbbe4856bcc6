package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/adamancini/ffrelease/internal/github"
	"github.com/adamancini/ffrelease/internal/update"
)

// Where ffrelease itself is released.
const (
	selfOwner = "adamancini"
	selfRepo  = "ffrelease"
)

type versionReport struct {
	Version         string `json:"version" yaml:"version"`
	Commit          string `json:"commit" yaml:"commit"`
	Date            string `json:"date" yaml:"date"`
	LatestVersion   string `json:"latest_version,omitempty" yaml:"latest_version,omitempty"`
	LatestURL       string `json:"latest_url,omitempty" yaml:"latest_url,omitempty"`
	UpdateAvailable *bool  `json:"update_available,omitempty" yaml:"update_available,omitempty"`
}

func newVersionCmd(info BuildInfo) *cobra.Command {
	var checkLatest bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information and check for updates",
		Long: `Display the current ffrelease version and optionally check whether a newer
release is published.

Examples:
  ffrelease version              # Show current version
  ffrelease version --check      # Check if update is available`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd, info, checkLatest)
		},
	}

	cmd.Flags().BoolVar(&checkLatest, "check", false, "Check whether a newer ffrelease release exists")

	return cmd
}

func runVersion(cmd *cobra.Command, info BuildInfo, checkLatest bool) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	report := versionReport{Version: info.Version, Commit: info.Commit, Date: info.Date}
	if !checkLatest {
		return env.out.Write(report)
	}

	consumer, err := env.consumer()
	if err != nil {
		return err
	}

	assetName := selfAssetName(runtime.GOOS, runtime.GOARCH)
	result, err := consumer.FindLatestRelease(cmd.Context(), github.Query{
		Repo:            github.Repo{Owner: selfOwner, Name: selfRepo},
		IsValidRelease:  func(r *github.Release) bool { return !r.Prerelease },
		IsSuitableAsset: func(a *github.Asset) bool { return isSelfArchive(a.Name, assetName) },
	})
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}

	available := update.IsNewer(info.Version, result.TagName)
	report.LatestVersion = update.NormalizeVersion(result.TagName)
	report.LatestURL = result.URL
	report.UpdateAvailable = &available

	return env.out.Write(report)
}

// selfAssetName is the release asset name of the ffrelease binary for a
// platform, without archive extension.
func selfAssetName(goos, goarch string) string {
	return fmt.Sprintf("%s-%s-%s", selfRepo, goos, goarch)
}

// selfArchiveExts are the packagings a ffrelease binary is published in.
// Checksum and signature files next to them never match.
var selfArchiveExts = []string{"", ".tar.gz", ".tgz", ".zip", ".exe"}

func isSelfArchive(name, assetName string) bool {
	for _, ext := range selfArchiveExts {
		if name == assetName+ext {
			return true
		}
	}
	return false
}

// WriteText renders the version report for humans.
func (r versionReport) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "ffrelease version %s (commit %s, built %s)\n", r.Version, r.Commit, r.Date); err != nil {
		return err
	}
	if r.UpdateAvailable == nil {
		return nil
	}
	if !*r.UpdateAvailable {
		_, err := fmt.Fprintln(w, "Already running latest version")
		return err
	}
	_, err := fmt.Fprintf(w, "Latest version: %s available\n  %s\n", r.LatestVersion, r.LatestURL)
	return err
}
