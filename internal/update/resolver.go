// Package update resolves the newest release of a registered app for the
// current device.
package update

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/adamancini/ffrelease/internal/apps"
	"github.com/adamancini/ffrelease/internal/github"
)

// Resolver turns an app's release rules into an UpdateDescriptor. It holds
// no mutable state; concurrent calls are independent.
type Resolver struct {
	releases ReleaseFinder
	device   ABIFinder
	prefs    Preferences
	log      zerolog.Logger
}

// NewResolver creates a resolver. prefs may be nil for default preferences.
func NewResolver(releases ReleaseFinder, device ABIFinder, prefs Preferences) *Resolver {
	if prefs == nil {
		prefs = StaticPreferences{}
	}
	return &Resolver{
		releases: releases,
		device:   device,
		prefs:    prefs,
		log:      zerolog.Nop(),
	}
}

// WithLogger sets the resolver's logger.
func (r *Resolver) WithLogger(log zerolog.Logger) *Resolver {
	r.log = log
	return r
}

// FetchLatestUpdate finds the newest stable release of app that has a build
// for this device. It returns either a complete descriptor or an error,
// never both: an error matching ErrUnsupportedArchitecture when the device
// cannot run any shipped build, or one matching github.ErrNetwork when the
// release could not be obtained.
func (r *Resolver) FetchLatestUpdate(ctx context.Context, app apps.App) (*UpdateDescriptor, error) {
	app = app.WithDefaults()
	log := r.log.With().Str("app", app.ID).Logger()

	suffix, err := SelectSuffix(r.device, app.SupportedABIs, r.prefs.Prefer32BitAPKs(), app.Source.AssetSuffix)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", app.ID, err)
	}
	log.Debug().Str("suffix", suffix).Msg("selected asset suffix")

	result, err := r.releases.FindLatestRelease(ctx, r.query(app, suffix))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", app.ID, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", app.ID, err)
	}

	descriptor := &UpdateDescriptor{
		App:                          app.ID,
		DownloadURL:                  result.URL,
		Version:                      NormalizeTag(result.TagName, app.Source.TagSeparator),
		PublishDate:                  result.ReleaseDate,
		ExactFileSizeBytesOfDownload: result.FileSizeBytes,
		// no per-asset hash is published; installs rely on the pinned signature
		FileHash: nil,
	}
	log.Debug().Str("version", descriptor.Version).Str("url", descriptor.DownloadURL).Msg("resolved latest update")

	return descriptor, nil
}

func (r *Resolver) query(app apps.App, suffix string) github.Query {
	allowPrerelease := app.Source.AllowPrerelease
	return github.Query{
		Repo: github.Repo{
			Owner:          app.Source.Owner,
			Name:           app.Source.Repo,
			ResultsPerPage: app.Source.ResultsPerPage,
		},
		IsValidRelease: func(release *github.Release) bool {
			return allowPrerelease || !release.Prerelease
		},
		IsSuitableAsset: func(asset *github.Asset) bool {
			return strings.HasSuffix(asset.Name, suffix)
		},
		RequireReleaseDescription: app.Source.RequireReleaseDescription,
	}
}
