package review

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the YAML form of a pipeline definition.
type Manifest struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Stages      []Stage `yaml:"stages"`
}

// LoadManifest reads a pipeline definition from a YAML file and validates
// it into a Pipeline.
func LoadManifest(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse pipeline manifest %s: %w", path, err)
	}

	return NewPipeline(manifest.Name, manifest.Stages)
}
