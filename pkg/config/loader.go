package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Common errors for handler file loading.
var (
	ErrFileNotFound     = errors.New("handler file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidJSON      = errors.New("invalid JSON syntax")
	ErrInvalidYAML      = errors.New("invalid YAML syntax")
	ErrEmptyFile        = errors.New("handler file is empty")
	ErrNoFiles          = errors.New("no handler files match pattern")
)

// Format is a handler file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the format from the file extension (.yaml, .yml for
// YAML, otherwise JSON).
func FormatForPath(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		return FormatYAML
	}
	return FormatJSON
}

// LoadFromFile reads and validates a handler file.
// Returns wrapped errors for common failure cases.
func LoadFromFile(path string) (*File, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	f, err := Parse(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Source = path
	return f, nil
}

// LoadGlob loads every file matching pattern, in lexical order, and merges them
// into one File. Handlers keep file order. Options come from the first file
// that sets them. Supports ** via doublestar.
func LoadGlob(pattern string) (*File, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expanding glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFiles, pattern)
	}
	sort.Strings(matches)

	merged := &File{Source: pattern}
	for _, match := range matches {
		f, err := LoadFromFile(match)
		if err != nil {
			return nil, err
		}
		if merged.Options == nil {
			merged.Options = f.Options
		}
		merged.Handlers = append(merged.Handlers, f.Handlers...)
	}
	return merged, nil
}

// Load reads path as a single file, or as a glob when it contains a glob
// metacharacter.
func Load(path string) (*File, error) {
	if strings.ContainsAny(path, "*?[{") {
		return LoadGlob(path)
	}
	return LoadFromFile(path)
}

// Parse decodes and validates handler file bytes.
func Parse(data []byte, format Format) (*File, error) {
	if format == FormatYAML {
		return ParseYAML(data)
	}
	return ParseJSON(data)
}

// ParseJSON parses JSON bytes into a File with validation.
func ParseJSON(data []byte) (*File, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyFile
	}
	if !json.Valid(data) {
		return nil, ErrInvalidJSON
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if err := ValidateDocument(doc); err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &f, nil
}

// ParseYAML parses YAML bytes into a File with validation.
func ParseYAML(data []byte) (*File, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyFile
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	if err := ValidateDocument(doc); err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return &f, nil
}

// ToYAML marshals a File to YAML bytes.
func ToYAML(f *File) ([]byte, error) {
	if f == nil {
		return nil, errors.New("file cannot be nil")
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal to YAML: %w", err)
	}
	return data, nil
}

// ToJSON marshals a File to formatted JSON bytes.
func ToJSON(f *File) ([]byte, error) {
	if f == nil {
		return nil, errors.New("file cannot be nil")
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	return append(data, '\n'), nil
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	return data, nil
}
