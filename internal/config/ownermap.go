// Package config loads the tool's configuration documents: the owner map
// and the settings file. Configuration problems fail fast; silently
// ignoring a broken document would produce misleading digests.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidOwnerMap indicates an owner map document exists but is not the
// expected flat identifier-to-name mapping.
var ErrInvalidOwnerMap = errors.New("owner map is not a flat identifier-to-name mapping")

// OwnerMap maps a short identifier (typically initials) to a display name.
// Absent entries pass the raw identifier through unchanged, so no owner map
// at all behaves as the identity mapping.
type OwnerMap map[string]string

// Resolve returns the display name for an identifier, falling back to a
// case-insensitive match and then to the identifier itself.
func (m OwnerMap) Resolve(id string) string {
	id = strings.TrimSpace(id)
	if name, ok := m[id]; ok {
		return name
	}
	for key, name := range m {
		if strings.EqualFold(key, id) {
			return name
		}
	}
	return id
}

// LoadOwnerMap reads an owner map document. YAML and JSON bodies both
// parse (JSON is a YAML subset), so the document format stays a caller
// choice. A missing or structurally invalid document is an error; use
// LoadOwnerMapIfPresent for the optional default path.
func LoadOwnerMap(path string) (OwnerMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading owner map %s: %w", path, err)
	}

	var m map[string]string
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidOwnerMap, path, err)
	}

	owners := make(OwnerMap, len(m))
	for id, name := range m {
		id = strings.TrimSpace(id)
		name = strings.TrimSpace(name)
		if id == "" || name == "" {
			return nil, fmt.Errorf("%w: %s: empty identifier or name", ErrInvalidOwnerMap, path)
		}
		owners[id] = name
	}
	return owners, nil
}

// LoadOwnerMapIfPresent loads the owner map at path when the file exists,
// degrading to the identity mapping when it does not. An existing but
// invalid document is still an error.
func LoadOwnerMapIfPresent(path string) (OwnerMap, error) {
	if path == "" {
		return OwnerMap{}, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return OwnerMap{}, nil
	}
	return LoadOwnerMap(path)
}
