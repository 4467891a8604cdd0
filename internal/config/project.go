package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const ProjectConfigFile = ".clockodo.json"

// ProjectConfig holds per-directory defaults for clocks and logged entries.
type ProjectConfig struct {
	CustomerID int `json:"customer_id,omitempty"`
	ProjectID  int `json:"project_id,omitempty"`
	ServiceID  int `json:"service_id,omitempty"`
}

// LoadProjectConfig reads a .clockodo.json from the given directory.
func LoadProjectConfig(dir string) (*ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(dir, ProjectConfigFile))
	if err != nil {
		return nil, fmt.Errorf("no %s found in %s", ProjectConfigFile, dir)
	}
	var pc ProjectConfig
	if err := json.Unmarshal(data, &pc); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ProjectConfigFile, err)
	}
	return &pc, nil
}

// LoadProjectConfigFromCwd reads .clockodo.json from the current working directory.
func LoadProjectConfigFromCwd() (*ProjectConfig, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return LoadProjectConfig(cwd)
}

// SaveProjectConfig writes a .clockodo.json to the given directory.
func SaveProjectConfig(dir string, pc *ProjectConfig) error {
	data, err := json.MarshalIndent(pc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(filepath.Join(dir, ProjectConfigFile), data, 0o644)
}
