package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vertextoedge/bulkfetch/internal/domain"
	"github.com/vertextoedge/bulkfetch/internal/port"
)

// Manager anchors destination paths to the output root directory. Every
// path handed to a download task goes through Resolve so a manifest entry
// can never write outside the root.
type Manager struct {
	rootDir string
}

// Ensure Manager implements port.SpaceProbe
var _ port.SpaceProbe = (*Manager)(nil)

// NewManager creates the output root if needed and returns a manager
// anchored to its absolute path.
func NewManager(rootDir string) (*Manager, error) {
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output dir: %w", err)
	}

	return &Manager{rootDir: abs}, nil
}

// RootDir returns the output root directory
func (m *Manager) RootDir() string {
	return m.rootDir
}

// Resolve joins a destination name to the output root. Names that resolve
// outside the root (directory traversal) or to the root itself are
// rejected with domain.ErrOutsideRoot.
func (m *Manager) Resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", domain.ErrOutsideRoot)
	}

	path := filepath.Join(m.rootDir, name)
	if path == m.rootDir {
		return "", fmt.Errorf("%w: %q", domain.ErrOutsideRoot, name)
	}

	rel, err := filepath.Rel(m.rootDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", domain.ErrOutsideRoot, name)
	}

	return path, nil
}
