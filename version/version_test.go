package version

import "testing"

func setBuild(t *testing.T, v, commit, built string) {
	t.Helper()
	ov, oc, ob := Version, GitCommit, BuildTime
	t.Cleanup(func() { Version, GitCommit, BuildTime = ov, oc, ob })
	Version, GitCommit, BuildTime = v, commit, built
}

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		built   string
		release bool
	}{
		{"dev build", "dev", "", "", false},
		{"release", "1.2.0", "abc1234def", "2026-01-15T10:30:00Z", true},
		{"dirty tag", "1.2.0-dirty", "abc1234", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBuild(t, tt.version, tt.commit, tt.built)
			info := Get()
			if info.Version != tt.version || info.Release != tt.release {
				t.Fatalf("info = %+v", info)
			}
			if tt.commit != "" && info.GitCommit != tt.commit[:7] {
				t.Fatalf("commit = %q", info.GitCommit)
			}
			if tt.built != "" && info.BuildTime.Year() != 2026 {
				t.Fatalf("build time = %v", info.BuildTime)
			}
		})
	}
}

func TestShort(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "1.0.0", GitCommit: "abc1234"}, "1.0.0-abc1234"},
		{Info{Version: "1.0.0", GitCommit: "abc1234", Dirty: true}, "1.0.0-abc1234-dirty"},
	}
	for _, tt := range tests {
		if got := tt.info.Short(); got != tt.want {
			t.Errorf("Short() = %q, want %q", got, tt.want)
		}
	}
}
