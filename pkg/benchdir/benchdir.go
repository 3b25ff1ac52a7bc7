// Package benchdir holds the path knowledge for the .chatbench/ project
// directory: the client config file and the gitignored local/ state
// directory where logs are written.
package benchdir

import (
	"os"
	"path/filepath"
)

// DefaultName is the directory name looked up in the working directory.
const DefaultName = ".chatbench"

// Dir is a value object that resolves paths within a .chatbench/ directory.
type Dir struct {
	root string
}

// New creates a Dir rooted at the given path. The path is made absolute. No
// I/O is performed.
func New(root string) Dir {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}

	return Dir{root: abs}
}

// Root returns the absolute path to the .chatbench/ directory.
func (d Dir) Root() string { return d.root }

// ConfigPath returns the path to the client config file.
func (d Dir) ConfigPath() string { return filepath.Join(d.root, "config.yaml") }

// LocalDir returns the path to the local (gitignored) runtime state directory.
func (d Dir) LocalDir() string { return filepath.Join(d.root, "local") }

// LogPath returns the default client log file.
func (d Dir) LogPath() string { return filepath.Join(d.root, "local", "chatbench.log") }

// GitignorePath returns the path to the .gitignore file inside .chatbench/.
func (d Dir) GitignorePath() string { return filepath.Join(d.root, ".gitignore") }

// Exists reports whether the root directory exists on disk.
func (d Dir) Exists() bool {
	info, err := os.Stat(d.root)

	return err == nil && info.IsDir()
}

// HasConfig reports whether config.yaml exists.
func (d Dir) HasConfig() bool {
	_, err := os.Stat(d.ConfigPath())

	return err == nil
}
