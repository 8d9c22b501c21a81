package hints

// Notes:
// - ForBrowserConnect tests cannot use t.Parallel(): they call t.Setenv and
//   replace the package-level IsInContainer.

import (
	"path/filepath"
	"strings"
	"testing"
)

func clearCIEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		t.Setenv(v, "")
	}
}

func stubContainer(t *testing.T, in bool) {
	t.Helper()
	orig := IsInContainer
	t.Cleanup(func() { IsInContainer = orig })
	IsInContainer = func() bool { return in }
}

func TestForBrowserConnect(t *testing.T) {
	tests := []struct {
		name        string
		ci          bool
		container   bool
		noSandbox   string
		browserBin  string
		wantSandbox bool
		wantBin     bool
	}{
		{name: "CI", ci: true, wantSandbox: true, wantBin: true},
		{name: "docker", container: true, wantSandbox: true, wantBin: true},
		{name: "sandbox already disabled", container: true, noSandbox: "1", wantBin: true},
		{name: "browser bin set", browserBin: "/usr/bin/chromium"},
		{name: "desktop", wantBin: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCIEnv(t)
			if tt.ci {
				t.Setenv("CI", "true")
			}
			stubContainer(t, tt.container)
			t.Setenv("ROD_NO_SANDBOX", tt.noSandbox)
			t.Setenv("ROD_BROWSER_BIN", tt.browserBin)

			hint := ForBrowserConnect()

			if !strings.HasPrefix(hint, "\n  hint: ") {
				t.Errorf("hint format inconsistent: %q", hint)
			}
			if got := strings.Contains(hint, "ROD_NO_SANDBOX"); got != tt.wantSandbox {
				t.Errorf("mentions ROD_NO_SANDBOX = %v, want %v (%q)", got, tt.wantSandbox, hint)
			}
			if got := strings.Contains(hint, "ROD_BROWSER_BIN"); got != tt.wantBin {
				t.Errorf("mentions ROD_BROWSER_BIN = %v, want %v (%q)", got, tt.wantBin, hint)
			}
			if !strings.Contains(hint, "booklet doctor") {
				t.Errorf("hint %q does not mention booklet doctor", hint)
			}
		})
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	userPath := filepath.Join("home", "ada", ".config", "go-booklet", "duplex.yaml")

	tests := []struct {
		name     string
		paths    []string
		contains string
	}{
		{name: "no paths", paths: nil, contains: "--config"},
		{name: "user config path", paths: []string{"duplex.yaml", userPath}, contains: "or create " + userPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForConfigNotFound(tt.paths)
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("ForConfigNotFound() = %q, want it to contain %q", hint, tt.contains)
			}
		})
	}
}

func TestForProtectedSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{path: "novel.pdf", want: "-upw <password> novel.pdf unlocked.pdf"},
		{path: "My Novel.pdf", want: "'My Novel.pdf'"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if hint := ForProtectedSource(tt.path); !strings.Contains(hint, tt.want) {
				t.Errorf("ForProtectedSource(%q) = %q, want it to contain %q", tt.path, hint, tt.want)
			}
		})
	}
}

func TestForStyleNotFound(t *testing.T) {
	t.Parallel()

	if hint := ForStyleNotFound(nil); hint != "" {
		t.Errorf("ForStyleNotFound(nil) = %q, want empty", hint)
	}
	if hint := ForStyleNotFound([]string{"book", "large-print"}); !strings.Contains(hint, "book, large-print") {
		t.Errorf("ForStyleNotFound() = %q, want style list", hint)
	}
}

func TestFormat_Consistency(t *testing.T) {
	t.Parallel()

	all := map[string]string{
		"timeout":   ForTimeout(),
		"output":    ForOutputDirectory(),
		"signature": ForSignature(),
		"skipped":   ForSkippedPages(),
		"protected": ForProtectedSource("a.pdf"),
		"config":    ForConfigNotFound(nil),
	}

	for name, h := range all {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("%s hint format inconsistent: %q", name, h)
		}
	}
	if format("") != "" || formatHints(nil) != "" {
		t.Error("empty hints should format to empty strings")
	}
}
