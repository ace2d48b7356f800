package appdir

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestPaths(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"config in dir", ConfigPath("/tmp/x"), filepath.Join("/tmp/x", ConfigFile)},
		{"config empty base", ConfigPath(""), ConfigFile},
		{"log in dir", LogPath("/tmp/x"), filepath.Join("/tmp/x", LogFile)},
		{"log empty base", LogPath(""), LogFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestHome(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if got := Home(); !strings.HasSuffix(got, Dir) {
		t.Errorf("Home() = %q, want suffix %q", got, Dir)
	}
}
