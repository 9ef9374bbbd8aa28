package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func withBuildInfo(t *testing.T, bi *debug.BuildInfo, ok bool) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, ok }
	t.Cleanup(func() { readBuildInfo = orig })
}

func TestResolveFromVCS(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}, true)

	got := resolve()
	want := Info{Version: "v0.3.0", Commit: "abc123-dirty", Date: "2026-01-02T03:04:05Z"}
	if got != want {
		t.Errorf("resolve() = %+v, want %+v", got, want)
	}
}

func TestResolveLdflagsWin(t *testing.T) {
	origV, origC := Version, Commit
	Version, Commit = "v1.0.0", "deadbeef"
	t.Cleanup(func() { Version, Commit = origV, origC })

	withBuildInfo(t, &debug.BuildInfo{
		Main:     debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}, {Key: "vcs.modified", Value: "true"}},
	}, true)

	got := resolve()
	if got.Version != "v1.0.0" || got.Commit != "deadbeef" {
		t.Errorf("resolve() = %+v, ldflags values should win", got)
	}
}

func TestResolveDevelBuild(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true)
	if got := resolve(); got.Version != "dev" {
		t.Errorf("Version = %q, want dev", got.Version)
	}

	withBuildInfo(t, nil, false)
	if got := resolve(); got != (Info{Version: Version, Commit: Commit, Date: Date}) {
		t.Errorf("resolve() without build info = %+v", got)
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	if !strings.HasPrefix(tmpl, "{{.Name}} version ") || !strings.Contains(tmpl, "commit: ") {
		t.Errorf("Template() = %q", tmpl)
	}
	if !strings.Contains(String(), "built: ") {
		t.Errorf("String() = %q", String())
	}
}
