// Package github finds the newest suitable release of a repository
// hosted on GitHub.
package github

import (
	"fmt"
	"time"
)

// Repo identifies a GitHub repository and how deep to look into its
// release history.
type Repo struct {
	Owner string
	Name  string
	// ResultsPerPage is the page size used while scanning releases.
	// Zero means the "latest" release is checked first and the scan
	// falls back to pages of DefaultResultsPerPage.
	ResultsPerPage int
}

func (r Repo) String() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// Release is the subset of GitHub release metadata the filters look at.
type Release struct {
	TagName     string
	Name        string
	Body        string
	Prerelease  bool
	Draft       bool
	PublishedAt time.Time
	Assets      []Asset
}

// Asset is a downloadable file attached to a release.
type Asset struct {
	Name        string
	DownloadURL string
	Size        int64
}

// Query describes which release and which asset the caller is after.
type Query struct {
	Repo                      Repo
	IsValidRelease            func(*Release) bool
	IsSuitableAsset           func(*Asset) bool
	RequireReleaseDescription bool
}

// Result is the selected asset of the selected release.
type Result struct {
	TagName       string
	URL           string
	FileSizeBytes int64
	ReleaseDate   time.Time
}
