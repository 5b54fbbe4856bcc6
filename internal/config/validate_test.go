package config

import (
	"strings"
	"testing"

	"github.com/adamancini/ffrelease/internal/apps"
	"github.com/adamancini/ffrelease/internal/types"
)

func validApp(id string) apps.App {
	return apps.App{
		ID:            id,
		SupportedABIs: []types.ABI{types.ABIArm64V8A},
		Source:        apps.Source{Owner: "BrowserWorks", Repo: "waterfox-android"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		file        AppsFile
		wantErr     bool
		errContains string
	}{
		{
			name:    "valid file",
			file:    AppsFile{Version: 1, Apps: []apps.App{validApp("one"), validApp("two")}},
			wantErr: false,
		},
		{
			name:    "empty apps list",
			file:    AppsFile{Version: 1},
			wantErr: false,
		},
		{
			name:        "missing version",
			file:        AppsFile{Apps: []apps.App{validApp("one")}},
			wantErr:     true,
			errContains: "unsupported version 0",
		},
		{
			name:        "duplicate ids",
			file:        AppsFile{Version: 1, Apps: []apps.App{validApp("one"), validApp("one")}},
			wantErr:     true,
			errContains: "duplicate id 'one'",
		},
		{
			name: "invalid app",
			file: AppsFile{Version: 1, Apps: []apps.App{{
				ID:     "broken",
				Source: apps.Source{Owner: "o", Repo: "r"},
			}}},
			wantErr:     true,
			errContains: "apps[0]: broken.supported_abis",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.file)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.errContains)
			}
		})
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	file := AppsFile{Version: 2, Apps: []apps.App{{ID: "Bad ID"}, validApp("ok")}}

	err := Validate(&file)
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	if !strings.Contains(err.Error(), "version") || !strings.Contains(err.Error(), "apps[0]") {
		t.Errorf("Validate() error = %v, want both version and apps[0] problems", err)
	}
}
