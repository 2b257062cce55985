package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed roadmap.yaml
var defaultRoadmap []byte

// file is the on-disk YAML shape of a catalog.
type file struct {
	Title  string  `yaml:"title"`
	Phases []Phase `yaml:"phases"`
}

// Default returns the built-in career roadmap.
func Default() *Catalog {
	c, err := Parse(defaultRoadmap)
	if err != nil {
		panic(fmt.Sprintf("embedded roadmap is invalid: %v", err))
	}
	return c
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(f.Title, f.Phases)
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Marshal encodes a catalog as YAML, the inverse of Parse.
func Marshal(c *Catalog) ([]byte, error) {
	return yaml.Marshal(file{Title: c.title, Phases: c.phases})
}
