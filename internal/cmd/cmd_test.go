package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/adrg/xdg"
)

var waterfoxABIs = []string{"armeabi-v7a", "arm64-v8a", "x86", "x86_64"}

// isolateEnv clears ffrelease settings and points config lookups at empty dirs.
func isolateEnv(t *testing.T) string {
	t.Helper()

	t.Cleanup(xdg.Reload)

	for _, name := range []string{"GITHUB_TOKEN", "API_URL", "PREFER_32BIT", "LOG_LEVEL", "LOG_FILE", "MAX_PAGES", "TIMEOUT", "APPS"} {
		for _, key := range []string{name, "FFRELEASE_" + name} {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(home, "config-dirs"))
	chdir(t, home)
	xdg.Reload()

	return home
}

// releaseServer serves a single latest release for every repo it is asked about.
func releaseServer(t *testing.T, tag string, abis ...string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/releases/latest") {
			http.NotFound(w, r)
			return
		}
		version, _, _ := strings.Cut(tag, "-")
		assets := make([]map[string]interface{}, 0, len(abis))
		for i, abi := range abis {
			name := fmt.Sprintf("waterfox-%s-%s-release.apk", version, abi)
			assets = append(assets, map[string]interface{}{
				"name":                 name,
				"size":                 5000 + i,
				"browser_download_url": "https://example.test/" + tag + "/" + name,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"tag_name":     tag,
			"prerelease":   false,
			"published_at": "2026-01-16T08:00:00Z",
			"assets":       assets,
		})
	}))
	t.Cleanup(server.Close)
	t.Setenv("FFRELEASE_API_URL", server.URL)
	return server
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCmd(BuildInfo{Version: "1.2.0", Commit: "abc123", Date: "2026-01-01"})
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCheckCommandJSON(t *testing.T) {
	isolateEnv(t)
	releaseServer(t, "1.1.9-2026016869", waterfoxABIs...)

	stdout, stderr, err := runCLI(t, "check", "waterfox", "--abi", "x86_64,x86", "-o", "json")
	if err != nil {
		t.Fatalf("check failed: %v\nstderr: %s", err, stderr)
	}

	var report struct {
		Results []struct {
			App    string `json:"app"`
			Update struct {
				DownloadURL string  `json:"download_url"`
				Version     string  `json:"version"`
				Size        int64   `json:"exact_file_size_bytes"`
				FileHash    *string `json:"file_hash"`
			} `json:"update"`
			Failure string `json:"failure"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, stdout)
	}

	if len(report.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(report.Results))
	}
	got := report.Results[0]
	if got.App != "waterfox" || got.Failure != "" {
		t.Errorf("result = %+v", got)
	}
	if got.Update.Version != "1.1.9" {
		t.Errorf("version = %s, want 1.1.9", got.Update.Version)
	}
	if !strings.HasSuffix(got.Update.DownloadURL, "-x86_64-release.apk") {
		t.Errorf("download URL = %s", got.Update.DownloadURL)
	}
	if got.Update.Size != 5003 {
		t.Errorf("size = %d, want 5003", got.Update.Size)
	}
	if got.Update.FileHash != nil {
		t.Errorf("file hash = %s, want null", *got.Update.FileHash)
	}
}

func TestCheckCommandInstalled(t *testing.T) {
	tests := []struct {
		installed string
		want      string
	}{
		{"1.1.8", "update available"},
		{"1.1.9", "up to date"},
		{"v1.2.0", "up to date"},
	}

	for _, tt := range tests {
		t.Run(tt.installed, func(t *testing.T) {
			isolateEnv(t)
			releaseServer(t, "1.1.9-2026016869", waterfoxABIs...)

			stdout, stderr, err := runCLI(t, "check", "waterfox", "--abi", "arm64-v8a", "--installed", tt.installed)
			if err != nil {
				t.Fatalf("check failed: %v\nstderr: %s", err, stderr)
			}
			if !strings.Contains(stdout, "waterfox 1.1.9") {
				t.Errorf("expected version line, got: %s", stdout)
			}
			if !strings.Contains(stdout, "("+tt.want+")") {
				t.Errorf("expected %q, got: %s", tt.want, stdout)
			}
			if !strings.Contains(stdout, "Hash:      -") {
				t.Errorf("expected missing hash rendered as '-', got: %s", stdout)
			}
		})
	}
}

func TestCheckCommandInstalledNeedsOneApp(t *testing.T) {
	isolateEnv(t)

	_, _, err := runCLI(t, "check", "--installed", "1.0")
	if err == nil || !strings.Contains(err.Error(), "exactly one app") {
		t.Errorf("expected single app error, got %v", err)
	}
}

func TestCheckCommandPrefer32Bit(t *testing.T) {
	isolateEnv(t)
	releaseServer(t, "1.1.9-2026016869", waterfoxABIs...)

	stdout, stderr, err := runCLI(t, "check", "waterfox", "--abi", "arm64-v8a,armeabi-v7a", "--prefer-32bit")
	if err != nil {
		t.Fatalf("check failed: %v\nstderr: %s", err, stderr)
	}
	if !strings.Contains(stdout, "-armeabi-v7a-release.apk") {
		t.Errorf("expected 32-bit build, got: %s", stdout)
	}
}

func TestCheckCommandPrefer32BitFromEnv(t *testing.T) {
	isolateEnv(t)
	releaseServer(t, "1.1.9-2026016869", waterfoxABIs...)
	t.Setenv("FFRELEASE_PREFER_32BIT", "true")

	stdout, _, err := runCLI(t, "check", "waterfox", "--abi", "x86_64,x86")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(stdout, "-x86-release.apk") {
		t.Errorf("expected x86 build, got: %s", stdout)
	}

	// the flag overrides the environment
	stdout, _, err = runCLI(t, "check", "waterfox", "--abi", "x86_64,x86", "--prefer-32bit=false")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(stdout, "-x86_64-release.apk") {
		t.Errorf("expected x86_64 build, got: %s", stdout)
	}
}

func TestCheckCommandUnsupportedDevice(t *testing.T) {
	isolateEnv(t)
	releaseServer(t, "1.1.9-2026016869", waterfoxABIs...)

	stdout, _, err := runCLI(t, "check", "waterfox", "--abi", "mips64", "-o", "json")
	if err == nil {
		t.Fatal("expected error for unsupported device")
	}
	if !strings.Contains(stdout, `"failure": "unsupported_device"`) {
		t.Errorf("expected unsupported_device failure, got: %s", stdout)
	}
}

func TestCheckCommandServerUnreachable(t *testing.T) {
	isolateEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
	}))
	defer server.Close()
	t.Setenv("FFRELEASE_API_URL", server.URL)

	stdout, _, err := runCLI(t, "check", "waterfox", "--abi", "arm64-v8a")
	if err == nil {
		t.Fatal("expected error when the API rejects the request")
	}
	if !strings.Contains(stdout, "could not reach update server") {
		t.Errorf("expected network failure message, got: %s", stdout)
	}
	if strings.Contains(stdout, "no compatible build") {
		t.Errorf("network failure reported as device failure: %s", stdout)
	}
}

func TestCheckCommandMultipleApps(t *testing.T) {
	home := isolateEnv(t)
	releaseServer(t, "1.2.0-2026020100", waterfoxABIs...)

	appsFile := filepath.Join(home, "apps.yaml")
	content := `
version: 1
apps:
  - id: waterfox-beta
    package_name: net.waterfox.android.beta
    supported_abis: [arm64-v8a]
    source:
      owner: BrowserWorks
      repo: waterfox-android-beta
  - id: arm32-only
    supported_abis: [armeabi-v7a]
    source:
      owner: example
      repo: arm32-only
`
	if err := os.WriteFile(appsFile, []byte(content), 0644); err != nil {
		t.Fatalf("write apps file: %v", err)
	}

	stdout, _, err := runCLI(t, "check", "--config", appsFile, "--abi", "arm64-v8a", "-o", "json")
	if err == nil {
		t.Fatal("expected error for app without a compatible build")
	}
	if !strings.Contains(err.Error(), "1 of 3 apps") {
		t.Errorf("error = %v, want 1 of 3 apps", err)
	}

	var report struct {
		Results []struct {
			App     string `json:"app"`
			Failure string `json:"failure"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, stdout)
	}

	failures := map[string]string{}
	for _, r := range report.Results {
		failures[r.App] = r.Failure
	}
	want := map[string]string{"waterfox": "", "waterfox-beta": "", "arm32-only": "unsupported_device"}
	for app, failure := range want {
		got, ok := failures[app]
		if !ok {
			t.Errorf("missing result for %s", app)
			continue
		}
		if got != failure {
			t.Errorf("%s failure = %q, want %q", app, got, failure)
		}
	}
}

func TestCheckCommandUnknownApp(t *testing.T) {
	isolateEnv(t)

	_, _, err := runCLI(t, "check", "firefox-nightly")
	if err == nil {
		t.Fatal("expected error for unknown app")
	}
}

func TestAppsCommand(t *testing.T) {
	isolateEnv(t)

	stdout, stderr, err := runCLI(t, "apps")
	if err != nil {
		t.Fatalf("apps failed: %v\nstderr: %s", err, stderr)
	}
	for _, want := range []string{"ID", "waterfox", "net.waterfox.android.release", "BrowserWorks/waterfox-android", "2939997a2d8f"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output, got: %s", want, stdout)
		}
	}
}

func TestAppsCommandYAML(t *testing.T) {
	isolateEnv(t)

	stdout, _, err := runCLI(t, "apps", "waterfox", "-o", "yaml")
	if err != nil {
		t.Fatalf("apps failed: %v", err)
	}
	if !strings.Contains(stdout, "package_name: net.waterfox.android.release") {
		t.Errorf("expected YAML app entry, got: %s", stdout)
	}
}

func TestABICommand(t *testing.T) {
	isolateEnv(t)

	stdout, _, err := runCLI(t, "abi", "--abi", "arm64-v8a,armeabi-v7a")
	if err != nil {
		t.Fatalf("abi failed: %v", err)
	}
	if !strings.Contains(stdout, "Device ABIs: arm64-v8a, armeabi-v7a") {
		t.Errorf("expected device ABIs, got: %s", stdout)
	}
	if !strings.Contains(stdout, "waterfox: arm64-v8a (*-arm64-v8a-release.apk)") {
		t.Errorf("expected 64-bit selection, got: %s", stdout)
	}

	stdout, _, err = runCLI(t, "abi", "--abi", "arm64-v8a,armeabi-v7a", "--prefer-32bit")
	if err != nil {
		t.Fatalf("abi failed: %v", err)
	}
	if !strings.Contains(stdout, "waterfox: armeabi-v7a (*-armeabi-v7a-release.apk)") {
		t.Errorf("expected 32-bit selection, got: %s", stdout)
	}
}

func TestABICommandNoCompatibleBuild(t *testing.T) {
	isolateEnv(t)

	stdout, _, err := runCLI(t, "abi", "--abi", "mips")
	if err != nil {
		t.Fatalf("abi failed: %v", err)
	}
	if !strings.Contains(stdout, "waterfox: no compatible build") {
		t.Errorf("expected no compatible build, got: %s", stdout)
	}
}

func TestABICommandInvalidFlag(t *testing.T) {
	isolateEnv(t)

	_, _, err := runCLI(t, "abi", "--abi", "sparc")
	if err == nil || !strings.Contains(err.Error(), "--abi") {
		t.Errorf("expected --abi error, got %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	isolateEnv(t)

	stdout, _, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(stdout, "ffrelease version 1.2.0 (commit abc123, built 2026-01-01)") {
		t.Errorf("unexpected version output: %s", stdout)
	}
}

func TestVersionCommandCheck(t *testing.T) {
	isolateEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/adamancini/ffrelease/releases/latest" {
			http.NotFound(w, r)
			return
		}
		assets := []map[string]interface{}{}
		for _, n := range []string{
			selfAssetName(runtime.GOOS, runtime.GOARCH) + ".tar.gz",
			selfAssetName(runtime.GOOS, runtime.GOARCH) + ".tar.gz.sha256",
			selfAssetName(runtime.GOOS, runtime.GOARCH) + ".tar.gz.sig",
			selfAssetName(runtime.GOOS, runtime.GOARCH) + "64.tar.gz",
			selfAssetName("plan9", "mips") + ".tar.gz",
		} {
			assets = append(assets, map[string]interface{}{"name": n, "size": 1, "browser_download_url": "https://example.test/" + n})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"tag_name":     "v1.3.0",
			"published_at": "2026-02-01T00:00:00Z",
			"assets":       assets,
		})
	}))
	defer server.Close()
	t.Setenv("FFRELEASE_API_URL", server.URL)

	stdout, _, err := runCLI(t, "version", "--check")
	if err != nil {
		t.Fatalf("version --check failed: %v", err)
	}
	if !strings.Contains(stdout, "Latest version: 1.3.0 available") {
		t.Errorf("expected update notice, got: %s", stdout)
	}
}

func TestIsSelfArchive(t *testing.T) {
	asset := selfAssetName("linux", "amd64")
	tests := []struct {
		name string
		want bool
	}{
		{"ffrelease-linux-amd64", true},
		{"ffrelease-linux-amd64.tar.gz", true},
		{"ffrelease-linux-amd64.zip", true},
		{"ffrelease-linux-amd64.tar.gz.sha256", false},
		{"ffrelease-linux-amd64.tar.gz.sig", false},
		{"ffrelease-linux-amd64.sbom.json", false},
		{"ffrelease-linux-amd6", false},
		{"ffrelease-linux-amd64v3.tar.gz", false},
	}

	for _, tt := range tests {
		if got := isSelfArchive(tt.name, asset); got != tt.want {
			t.Errorf("isSelfArchive(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			stdout, _, err := runCLI(t, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s failed: %v", shell, err)
			}
			if !strings.Contains(stdout, "ffrelease") {
				t.Errorf("completion script does not mention ffrelease")
			}
		})
	}

	if _, _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}

func TestInvalidOutputFormat(t *testing.T) {
	isolateEnv(t)

	_, _, err := runCLI(t, "apps", "-o", "xml")
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("expected unknown format error, got %v", err)
	}
}

// chdir changes the working directory for the duration of the test
// (stand-in for testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%q) error = %v", dir, err)
	}
	t.Setenv("PWD", dir)
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("Chdir(%q) error = %v", old, err)
		}
	})
}
