// Package fixture loads configuration documents by logical name from a directory tree.
package fixture

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/jacentio/cradleconf/cradle"
)

// DefaultDir is the logical directory fixtures live in, relative to the root.
const DefaultDir = "test_json_configurations"

// Config holds configuration for a Loader.
type Config struct {
	// Dir is the directory under the root holding the documents.
	// Empty means the root itself.
	// Default: "test_json_configurations"
	Dir string

	// Ext is the file extension appended to names.
	// Default: ".json"
	Ext string
}

// DefaultConfig returns the layout used by the configuration test fixtures.
func DefaultConfig() Config {
	return Config{
		Dir: DefaultDir,
		Ext: ".json",
	}
}

// validate ensures config values are usable.
func (c *Config) validate() {
	if c.Ext == "" {
		c.Ext = ".json"
	}
	if c.Ext[0] != '.' {
		c.Ext = "." + c.Ext
	}
}

// Loader resolves names to files under a root directory.
type Loader struct {
	root   string
	config Config
}

// NewLoader creates a Loader rooted at root.
func NewLoader(root string, config Config) *Loader {
	config.validate()
	return &Loader{
		root:   root,
		config: config,
	}
}

// Path resolves name to a file path. The result never escapes the fixture directory.
func (l *Loader) Path(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("fixture name cannot be empty")
	}
	path, err := securejoin.SecureJoin(filepath.Join(l.root, l.config.Dir), name+l.config.Ext)
	if err != nil {
		return "", fmt.Errorf("resolve fixture %q: %w", name, err)
	}
	return path, nil
}

// Load returns the full UTF-8 content of the named document.
// It returns an error wrapping cradle.ErrResourceNotFound when the file doesn't exist.
func (l *Loader) Load(name string) (string, error) {
	path, err := l.Path(name)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: can not load resource by path %s", cradle.ErrResourceNotFound, path)
		}
		return "", fmt.Errorf("read fixture %s: %w", path, err)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("fixture %s is not valid UTF-8", path)
	}
	return string(data), nil
}
