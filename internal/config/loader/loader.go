// Package loader reads configuration files and environment variables into
// nested maps for the layer manager.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for files whose extension has no loader.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Loader reads configuration into a nested map.
type Loader interface {
	// Load returns nil, nil when the source doesn't exist.
	Load() (map[string]any, error)
}

// FileSystem abstracts file access for tests.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return OSFS{}
}

// Format is a configuration file syntax.
type Format uint8

const (
	// FormatTOML is the default format.
	FormatTOML Format = iota
	// FormatYAML covers .yaml and .yml files.
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// DetectFormat picks a format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", "":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ForPath returns a file loader matching the extension of path.
func ForPath(fsys FileSystem, path string) (*FileLoader, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if fsys == nil {
		fsys = DefaultFS()
	}
	return &FileLoader{fs: fsys, path: path, format: format}, nil
}

// FileLoader loads a single TOML or YAML file.
type FileLoader struct {
	fs     FileSystem
	path   string
	format Format
}

// Path returns the file the loader reads.
func (l *FileLoader) Path() string { return l.path }

// Format returns the file syntax.
func (l *FileLoader) Format() Format { return l.format }

// Load reads and parses the file.
func (l *FileLoader) Load() (map[string]any, error) {
	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", l.path, err)
	}
	return Parse(l.format, l.path, data)
}

// Parse decodes data in the given format. source names the data in errors.
func Parse(format Format, source string, data []byte) (map[string]any, error) {
	switch format {
	case FormatYAML:
		return parseYAML(source, data)
	default:
		return parseTOML(source, data)
	}
}

// ParseReader decodes a reader in the given format.
func ParseReader(format Format, r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(format, "<reader>", data)
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
