// Package apps holds the static description of every application
// ffrelease knows how to resolve updates for.
package apps

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/adamancini/ffrelease/internal/types"
)

// SignatureHashUnknown marks an app whose installed-signature hash has not
// been pinned yet.
const SignatureHashUnknown = "unknown"

// DefaultAssetSuffix is the asset file name suffix of per-ABI release APKs.
const DefaultAssetSuffix = "-%s-release.apk"

// DefaultTagSeparator splits "<version>-<buildNumber>" release tags.
const DefaultTagSeparator = "-"

var (
	idPattern          = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
	signaturePattern   = regexp.MustCompile(`^[0-9a-f]{64}$`)
	repoSegmentPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

// Source describes where releases of an app are published and which
// release/asset qualifies.
type Source struct {
	Owner          string `yaml:"owner" toml:"owner" json:"owner"`
	Repo           string `yaml:"repo" toml:"repo" json:"repo"`
	ResultsPerPage int    `yaml:"results_per_page,omitempty" toml:"results_per_page,omitempty" json:"results_per_page,omitempty"`
	// AssetSuffix is a format string with a single %s for the ABI token.
	AssetSuffix               string `yaml:"asset_suffix,omitempty" toml:"asset_suffix,omitempty" json:"asset_suffix,omitempty"`
	TagSeparator              string `yaml:"tag_separator,omitempty" toml:"tag_separator,omitempty" json:"tag_separator,omitempty"`
	AllowPrerelease           bool   `yaml:"allow_prerelease,omitempty" toml:"allow_prerelease,omitempty" json:"allow_prerelease,omitempty"`
	RequireReleaseDescription bool   `yaml:"require_release_description,omitempty" toml:"require_release_description,omitempty" json:"require_release_description,omitempty"`
}

// App is the immutable identity record of one application variant.
type App struct {
	ID                       string                  `yaml:"id" toml:"id" json:"id"`
	PackageName              string                  `yaml:"package_name" toml:"package_name" json:"package_name"`
	Title                    string                  `yaml:"title" toml:"title" json:"title"`
	Description              string                  `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
	DownloadSource           string                  `yaml:"download_source,omitempty" toml:"download_source,omitempty" json:"download_source,omitempty"`
	Icon                     string                  `yaml:"icon,omitempty" toml:"icon,omitempty" json:"icon,omitempty"`
	MinAPILevel              int                     `yaml:"min_api_level,omitempty" toml:"min_api_level,omitempty" json:"min_api_level,omitempty"`
	SupportedABIs            []types.ABI             `yaml:"supported_abis" toml:"supported_abis" json:"supported_abis"`
	SignatureHash            string                  `yaml:"signature_hash,omitempty" toml:"signature_hash,omitempty" json:"signature_hash,omitempty"`
	ProjectPage              string                  `yaml:"project_page,omitempty" toml:"project_page,omitempty" json:"project_page,omitempty"`
	DisplayCategories        []types.DisplayCategory `yaml:"display_categories,omitempty" toml:"display_categories,omitempty" json:"display_categories,omitempty"`
	HostnameForInternetCheck string                  `yaml:"hostname_for_internet_check,omitempty" toml:"hostname_for_internet_check,omitempty" json:"hostname_for_internet_check,omitempty"`
	Source                   Source                  `yaml:"source" toml:"source" json:"source"`
}

// WithDefaults returns a copy of the app with empty optional fields filled in.
func (a App) WithDefaults() App {
	if a.Source.AssetSuffix == "" {
		a.Source.AssetSuffix = DefaultAssetSuffix
	}
	if a.Source.TagSeparator == "" {
		a.Source.TagSeparator = DefaultTagSeparator
	}
	if a.SignatureHash == "" {
		a.SignatureHash = SignatureHashUnknown
	}
	if a.DownloadSource == "" {
		a.DownloadSource = "GitHub"
	}
	if a.HostnameForInternetCheck == "" {
		a.HostnameForInternetCheck = "https://api.github.com"
	}
	if a.ProjectPage == "" && a.Source.Owner != "" && a.Source.Repo != "" {
		a.ProjectPage = fmt.Sprintf("https://github.com/%s/%s", a.Source.Owner, a.Source.Repo)
	}
	a.SupportedABIs = append([]types.ABI(nil), a.SupportedABIs...)
	a.DisplayCategories = append([]types.DisplayCategory(nil), a.DisplayCategories...)
	return a
}

// IsSignatureHashKnown reports whether a pinned signature hash is available.
func (a App) IsSignatureHashKnown() bool {
	return a.SignatureHash != "" && a.SignatureHash != SignatureHashUnknown
}

// ValidationError describes one invalid field of an App.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the App for required fields and valid values.
func (a App) Validate() error {
	field := func(name string) string {
		if a.ID == "" {
			return name
		}
		return a.ID + "." + name
	}

	if !idPattern.MatchString(a.ID) {
		return ValidationError{Field: field("id"), Message: fmt.Sprintf("invalid id '%s' (lowercase letters, digits, '-' and '_')", a.ID)}
	}
	if !repoSegmentPattern.MatchString(a.Source.Owner) {
		return ValidationError{Field: field("source.owner"), Message: "owner is required"}
	}
	if !repoSegmentPattern.MatchString(a.Source.Repo) {
		return ValidationError{Field: field("source.repo"), Message: "repo is required"}
	}
	if a.Source.ResultsPerPage < 0 || a.Source.ResultsPerPage > 100 {
		return ValidationError{Field: field("source.results_per_page"), Message: "must be between 0 and 100"}
	}
	if a.Source.AssetSuffix != "" && strings.Count(a.Source.AssetSuffix, "%s") != 1 {
		return ValidationError{Field: field("source.asset_suffix"), Message: "must contain exactly one %s"}
	}
	if strings.Count(a.Source.AssetSuffix, "%") > 1 {
		return ValidationError{Field: field("source.asset_suffix"), Message: "must not contain other format verbs"}
	}
	if len(a.SupportedABIs) == 0 {
		return ValidationError{Field: field("supported_abis"), Message: "at least one abi is required"}
	}
	for i, abi := range a.SupportedABIs {
		if err := abi.Validate(); err != nil {
			return ValidationError{Field: field(fmt.Sprintf("supported_abis[%d]", i)), Message: err.Error()}
		}
	}
	for i, c := range a.DisplayCategories {
		if err := c.Validate(); err != nil {
			return ValidationError{Field: field(fmt.Sprintf("display_categories[%d]", i)), Message: err.Error()}
		}
	}
	if a.SignatureHash != "" && a.SignatureHash != SignatureHashUnknown && !signaturePattern.MatchString(a.SignatureHash) {
		return ValidationError{Field: field("signature_hash"), Message: "must be a lowercase hex sha256 or 'unknown'"}
	}
	if a.MinAPILevel < 0 {
		return ValidationError{Field: field("min_api_level"), Message: "must not be negative"}
	}

	return nil
}
