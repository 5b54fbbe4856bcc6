package config

import (
	"fmt"
	"strings"

	"github.com/adamancini/ffrelease/internal/apps"
)

// CurrentVersion is the apps file schema version this build understands.
const CurrentVersion = 1

// Validate checks the apps file for a supported version and valid,
// unique app entries. All problems are reported together.
func Validate(f *AppsFile) error {
	var errors []string

	if f.Version != CurrentVersion {
		errors = append(errors, apps.ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (expected %d)", f.Version, CurrentVersion),
		}.Error())
	}

	seen := make(map[string]int)
	for i, app := range f.Apps {
		if err := app.Validate(); err != nil {
			errors = append(errors, fmt.Sprintf("apps[%d]: %v", i, err))
			continue
		}
		if first, ok := seen[app.ID]; ok {
			errors = append(errors, apps.ValidationError{
				Field:   fmt.Sprintf("apps[%d].id", i),
				Message: fmt.Sprintf("duplicate id '%s' (first defined at apps[%d])", app.ID, first),
			}.Error())
			continue
		}
		seen[app.ID] = i
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}
