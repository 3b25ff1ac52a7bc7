package benchdir

import (
	"fmt"
	"os"
)

const gitignoreContent = "local/\n"

const skeletonConfig = `# chatbench client configuration.
base_url: http://localhost:8000
greeting: "Hello! How can I help you today?"
parameters:
  temperature: 0.7
  max_output_tokens: 100
  top_p: 0.9
  top_k: 50
`

// EnsureStructure creates local/ and .gitignore when they are missing. It is
// idempotent and never touches existing files.
func EnsureStructure(d Dir) error {
	if err := os.MkdirAll(d.LocalDir(), 0o750); err != nil {
		return fmt.Errorf("benchdir: create local dir: %w", err)
	}

	if err := writeIfMissing(d.GitignorePath(), []byte(gitignoreContent)); err != nil {
		return fmt.Errorf("benchdir: gitignore: %w", err)
	}

	return nil
}

// Bootstrap creates the directory with a skeleton config.
func Bootstrap(d Dir) error {
	return BootstrapWithConfig(d, []byte(skeletonConfig))
}

// BootstrapWithConfig creates the directory layout and writes config unless a
// config file already exists.
func BootstrapWithConfig(d Dir, config []byte) error {
	if err := os.MkdirAll(d.Root(), 0o750); err != nil {
		return fmt.Errorf("benchdir: create root: %w", err)
	}

	if err := EnsureStructure(d); err != nil {
		return err
	}

	if err := writeIfMissing(d.ConfigPath(), config); err != nil {
		return fmt.Errorf("benchdir: config: %w", err)
	}

	return nil
}

func writeIfMissing(path string, data []byte) error {
	if _, err := os.Stat(path); err == nil {
		return nil // already exists
	}

	return os.WriteFile(path, data, 0o600)
}
