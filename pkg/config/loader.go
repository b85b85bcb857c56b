package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/getmockd/mockd/pkg/admin"
	"github.com/getmockd/mockd/pkg/mapping"
)

// Common load errors.
var (
	ErrFileNotFound = errors.New("static mapping file not found")
	ErrEmptyFile    = errors.New("static mapping file is empty")
)

// staticMappingFile is the on-disk shape of one static mapping document:
// either a single mapping object or a "mappings" array of them, mirroring
// WireMock's own __files/mappings layout convention.
type staticMappingFile struct {
	Mappings []admin.MappingDTO `json:"mappings,omitempty" yaml:"mappings,omitempty"`
	admin.MappingDTO           `yaml:",inline"`
}

func (f *staticMappingFile) dtos() []admin.MappingDTO {
	if len(f.Mappings) > 0 {
		return f.Mappings
	}
	if f.Request.Type != "" {
		return []admin.MappingDTO{f.MappingDTO}
	}
	return nil
}

// LoadFromFile reads one static mapping document (YAML or JSON, detected by
// extension; any extension other than .yaml/.yml is treated as JSON) and
// converts every mapping it declares.
func LoadFromFile(path string) ([]*mapping.Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	var file staticMappingFile
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("%s: invalid YAML: %w", path, err)
		}
	} else {
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("%s: invalid JSON: %w", path, err)
		}
	}

	dtos := file.dtos()
	mappings := make([]*mapping.Mapping, 0, len(dtos))
	for i, dto := range dtos {
		m, err := admin.ToMapping(dto)
		if err != nil {
			return nil, fmt.Errorf("%s: mapping %d: %w", path, i, err)
		}
		mappings = append(mappings, m)
	}
	return mappings, nil
}
