package update

import (
	"context"
	"time"

	"github.com/adamancini/ffrelease/internal/github"
	"github.com/adamancini/ffrelease/internal/types"
)

// UpdateDescriptor describes the newest release of an app for this device.
type UpdateDescriptor struct {
	App                          string    `json:"app" yaml:"app"`
	DownloadURL                  string    `json:"download_url" yaml:"download_url"`
	Version                      string    `json:"version" yaml:"version"`
	PublishDate                  time.Time `json:"publish_date" yaml:"publish_date"`
	ExactFileSizeBytesOfDownload int64     `json:"exact_file_size_bytes" yaml:"exact_file_size_bytes"`
	// FileHash is nil when the release source does not publish one.
	FileHash *string `json:"file_hash" yaml:"file_hash"`
}

// ReleaseFinder finds the newest release matching a query
type ReleaseFinder interface {
	FindLatestRelease(ctx context.Context, q github.Query) (*github.Result, error)
}

// ABIFinder picks the best device ABI among those an app ships
type ABIFinder interface {
	FindBestABI(appABIs []types.ABI, prefer32Bit bool) (types.ABI, error)
}

// Preferences exposes the user settings the resolver reads
type Preferences interface {
	Prefer32BitAPKs() bool
}

// StaticPreferences is a fixed Preferences value.
type StaticPreferences struct {
	Prefer32Bit bool
}

// Prefer32BitAPKs implements Preferences.
func (p StaticPreferences) Prefer32BitAPKs() bool {
	return p.Prefer32Bit
}
