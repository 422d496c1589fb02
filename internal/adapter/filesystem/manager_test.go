package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vertextoedge/bulkfetch/internal/domain"
)

func TestNewManager_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "out")

	m, err := NewManager(root)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	info, err := os.Stat(m.RootDir())
	if err != nil {
		t.Fatalf("output root was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("output root is not a directory")
	}
}

func TestManager_Resolve(t *testing.T) {
	root := t.TempDir()
	m, err := NewManager(root)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	tests := []struct {
		name     string
		destName string
		want     string
		wantErr  bool
	}{
		{
			name:     "plain name",
			destName: "archive.tar.gz",
			want:     filepath.Join(m.RootDir(), "archive.tar.gz"),
		},
		{
			name:     "nested name",
			destName: "sub/dir/a.bin",
			want:     filepath.Join(m.RootDir(), "sub", "dir", "a.bin"),
		},
		{
			name:     "absolute name is anchored under the root",
			destName: "/etc/passwd",
			want:     filepath.Join(m.RootDir(), "etc", "passwd"),
		},
		{
			name:     "traversal is rejected",
			destName: "../escape.bin",
			wantErr:  true,
		},
		{
			name:     "nested traversal is rejected",
			destName: "sub/../../escape.bin",
			wantErr:  true,
		},
		{
			name:     "empty name is rejected",
			destName: "",
			wantErr:  true,
		},
		{
			name:     "dot resolves to the root and is rejected",
			destName: ".",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Resolve(tt.destName)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Resolve(%q) expected error, got %q", tt.destName, got)
				}
				if !errors.Is(err, domain.ErrOutsideRoot) {
					t.Errorf("Resolve(%q) error = %v, want ErrOutsideRoot", tt.destName, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.destName, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %v, want %v", tt.destName, got, tt.want)
			}
		})
	}
}

func TestManager_FreeSpace(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	free, err := m.FreeSpace()
	if err != nil {
		t.Fatalf("FreeSpace() error = %v", err)
	}
	if free == 0 {
		t.Error("FreeSpace() = 0, want > 0 on a writable temp dir")
	}
}
