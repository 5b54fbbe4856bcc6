package apps

import (
	"fmt"
	"strings"

	"github.com/adamancini/ffrelease/internal/types"
)

// apiLevelLollipop is Android 5.0.
const apiLevelLollipop = 21

// Waterfox is the Android build of the Waterfox browser.
var Waterfox = App{
	ID:                       "waterfox",
	PackageName:              "net.waterfox.android.release",
	Title:                    "Waterfox",
	Description:              "Privacy-focused Firefox fork.",
	DownloadSource:           "GitHub",
	Icon:                     "ic_logo_firefox_release",
	MinAPILevel:              apiLevelLollipop,
	SupportedABIs:            types.ARM32ARM64X86X64,
	SignatureHash:            "2939997a2d8f07303ceb37ad6810afef0bda710be2116476e3525a7379ec2e1a",
	ProjectPage:              "https://github.com/BrowserWorks/waterfox-android",
	DisplayCategories:        []types.DisplayCategory{types.CategoryBasedOnFirefox},
	HostnameForInternetCheck: "https://api.github.com",
	Source: Source{
		Owner:        "BrowserWorks",
		Repo:         "waterfox-android",
		AssetSuffix:  DefaultAssetSuffix,
		TagSeparator: DefaultTagSeparator,
	},
}

// Registry is an ordered, read-only set of apps keyed by ID.
type Registry struct {
	apps  []App
	index map[string]int
}

// NewRegistry validates apps and builds a registry.
// Later entries replace earlier ones with the same ID.
func NewRegistry(apps ...App) (*Registry, error) {
	r := &Registry{index: make(map[string]int)}
	var errs []string

	for _, app := range apps {
		if err := app.Validate(); err != nil {
			errs = append(errs, err.Error())
			continue
		}
		app = app.WithDefaults()
		if i, ok := r.index[app.ID]; ok {
			r.apps[i] = app
			continue
		}
		r.index[app.ID] = len(r.apps)
		r.apps = append(r.apps, app)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid apps:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return r, nil
}

// Builtin returns the registry of apps compiled into ffrelease.
func Builtin() *Registry {
	r, err := NewRegistry(Waterfox)
	if err != nil {
		panic(fmt.Sprintf("builtin registry is invalid: %v", err))
	}
	return r
}

// Merge returns a new registry with extra apps added or replacing
// existing entries.
func (r *Registry) Merge(extra ...App) (*Registry, error) {
	all := make([]App, 0, len(r.apps)+len(extra))
	all = append(all, r.apps...)
	all = append(all, extra...)
	return NewRegistry(all...)
}

// Get returns the app with the given ID.
func (r *Registry) Get(id string) (App, error) {
	i, ok := r.index[strings.ToLower(id)]
	if !ok {
		return App{}, fmt.Errorf("unknown app '%s' (known: %s)", id, strings.Join(r.IDs(), ", "))
	}
	return r.apps[i].WithDefaults(), nil
}

// All returns copies of all apps in registration order.
func (r *Registry) All() []App {
	out := make([]App, len(r.apps))
	for i, app := range r.apps {
		out[i] = app.WithDefaults()
	}
	return out
}

// IDs returns all app IDs in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.apps))
	for i, app := range r.apps {
		ids[i] = app.ID
	}
	return ids
}

// Len returns the number of registered apps.
func (r *Registry) Len() int {
	return len(r.apps)
}
