package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	tests := []struct {
		name        string
		info        *debug.BuildInfo
		version     string
		commit      string
		wantVersion string
		wantCommit  string
	}{
		{
			name: "vcs stamp",
			info: &debug.BuildInfo{
				Main: debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef"},
					{Key: "vcs.time", Value: "2024-05-06T07:08:09Z"},
				},
			},
			wantVersion: "dev-20240506",
			wantCommit:  "0123456",
		},
		{
			name: "dirty tree",
			info: &debug.BuildInfo{
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			wantVersion: "",
			wantCommit:  "abc-dirty",
		},
		{
			name:        "module version from go install",
			info:        &debug.BuildInfo{Main: debug.Module{Version: "v1.2.3"}},
			wantVersion: "v1.2.3",
			wantCommit:  "",
		},
		{
			name: "ldflags win",
			info: &debug.BuildInfo{
				Main:     debug.Module{Version: "v1.2.3"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "fffffff"}},
			},
			version:     "v9.9.9",
			commit:      "1111111",
			wantVersion: "v9.9.9",
			wantCommit:  "1111111",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotVersion, gotCommit := fromBuildInfo(tt.info, tt.version, tt.commit)
			if gotVersion != tt.wantVersion {
				t.Errorf("version = %q, want %q", gotVersion, tt.wantVersion)
			}
			if gotCommit != tt.wantCommit {
				t.Errorf("commit = %q, want %q", gotCommit, tt.wantCommit)
			}
		})
	}
}

func TestVersionIsSet(t *testing.T) {
	if Version == "" || Commit == "" {
		t.Errorf("Version = %q, Commit = %q, want both set after init", Version, Commit)
	}
	if !strings.Contains(Full(), Version) {
		t.Errorf("Full() = %q, want it to contain %q", Full(), Version)
	}
	if !strings.HasPrefix(UserAgent(), "wgadmin/"+Version) {
		t.Errorf("UserAgent() = %q", UserAgent())
	}
}
