package config

import (
	"os"

	yamlv2 "gopkg.in/yaml.v2"
)

// ToolEntry switches one registered tool on or off.
type ToolEntry struct {
	Name    string `yaml:"name"`
	Enabled bool   `yaml:"enabled"`
}

// ToolFile is the optional tool enablement file. Tools absent from the file
// stay enabled.
type ToolFile struct {
	Tools []ToolEntry `yaml:"tools"`
}

// LoadToolFile reads a tool enablement file.
func LoadToolFile(path string) (*ToolFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg ToolFile
	if err := yamlv2.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Enabled reports whether name should be registered. Unknown names default
// to enabled; a nil receiver enables everything.
func (c *ToolFile) Enabled(name string) bool {
	if c == nil {
		return true
	}
	for _, t := range c.Tools {
		if t.Name == name {
			return t.Enabled
		}
	}
	return true
}
