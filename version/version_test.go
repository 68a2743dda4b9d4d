package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	tests := []struct {
		name string
		in   Info
		want Info
	}{
		{
			name: "ldflags unset",
			in:   Info{CommitHash: "dev", BuildTime: "unknown", Version: "dev"},
			want: Info{CommitHash: "0123456789abcdef", BuildTime: "2026-01-02T03:04:05Z", Version: "v1.2.3"},
		},
		{
			name: "ldflags win",
			in:   Info{CommitHash: "fedcba9", BuildTime: "today", Version: "v9.0.0"},
			want: Info{CommitHash: "fedcba9", BuildTime: "today", Version: "v9.0.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in
			fillFromBuildInfo(&got, bi)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFillFromBuildInfoSkipsDevel(t *testing.T) {
	info := Info{Version: "dev"}
	fillFromBuildInfo(&info, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	assert.Equal(t, "dev", info.Version)
}

func TestString(t *testing.T) {
	info := Info{CommitHash: "0123456789abcdef", BuildTime: "today", Version: "v1.0.0"}
	assert.Equal(t, "configstruct v1.0.0 (commit 0123456, built today)", info.String())
	assert.Equal(t, "abc", Info{CommitHash: "abc"}.Short())
}
