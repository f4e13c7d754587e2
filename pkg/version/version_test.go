package version_test

import (
	"runtime"
	"testing"

	"github.com/docformat-toolkit/docformat/pkg/version"
)

func TestFullString(t *testing.T) {
	orig := version.Version
	defer func() { version.Version = orig }()

	version.Version = "dev"
	if got := version.FullString(); got != "docformat development version" {
		t.Errorf("FullString() = %q", got)
	}
	version.Version = "1.2.0"
	if got := version.FullString(); got != "docformat 1.2.0" {
		t.Errorf("FullString() = %q", got)
	}
	if version.String() != "1.2.0" {
		t.Errorf("String() = %q", version.String())
	}
}

func TestInfo(t *testing.T) {
	info := version.Info()
	for _, key := range []string{"version", "buildDate", "gitCommit", "goVersion"} {
		if info[key] == "" {
			t.Errorf("Info()[%q] is empty", key)
		}
	}
	if info["goVersion"] != runtime.Version() {
		t.Errorf("goVersion = %q", info["goVersion"])
	}
}
