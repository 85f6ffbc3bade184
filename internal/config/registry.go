package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/framework-progress/internal/core/domain"
)

//go:embed frameworks.yaml
var defaultRegistry []byte

type registryFile struct {
	Frameworks []struct {
		ID     int    `yaml:"id"`
		Family string `yaml:"family"`
	} `yaml:"frameworks"`
}

// LoadFrameworkRegistry reads the framework id table from path, or the
// embedded default when path is empty.
func LoadFrameworkRegistry(path string) (map[int]domain.Family, error) {
	raw := defaultRegistry
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read framework registry: %w", err)
		}
		raw = data
	}
	return ParseFrameworkRegistry(raw)
}

func ParseFrameworkRegistry(raw []byte) (map[int]domain.Family, error) {
	var file registryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse framework registry: %w", err)
	}

	out := make(map[int]domain.Family, len(file.Frameworks))
	for _, entry := range file.Frameworks {
		family, err := domain.ParseFamily(entry.Family)
		if err != nil {
			return nil, fmt.Errorf("framework %d: %w", entry.ID, err)
		}
		if _, dup := out[entry.ID]; dup {
			return nil, fmt.Errorf("framework %d listed twice", entry.ID)
		}
		out[entry.ID] = family
	}
	return out, nil
}
