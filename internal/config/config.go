// Package config handles the fastboot dotdir and known-device presets.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Paths holds the locations used by the CLI.
type Paths struct {
	Home    string // ~/.fastboot
	Devices string // device preset file
	Logs    string // log directory
	CLILog  string // default CLI log file
}

// GetPaths returns the paths for the current user.
func GetPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	fbHome := filepath.Join(home, ".fastboot")
	logsDir := filepath.Join(fbHome, "logs")
	return &Paths{
		Home:    fbHome,
		Devices: filepath.Join(fbHome, "devices.yaml"),
		Logs:    logsDir,
		CLILog:  filepath.Join(logsDir, "fastboot.log"),
	}, nil
}

// EnsureDirectories creates the required directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.Home, p.Logs} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// Preset names a VID/PID pair so users don't have to remember hex IDs.
type Preset struct {
	Name      string `yaml:"name"`
	VendorID  uint16 `yaml:"vendor-id"`
	ProductID uint16 `yaml:"product-id"`
}

type presetFile struct {
	Devices []Preset `yaml:"devices"`
}

// LoadPresets reads device presets from path. A missing file is not an
// error; it simply yields no presets.
func LoadPresets(path string) ([]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var pf presetFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	for _, p := range pf.Devices {
		if p.Name == "" {
			return nil, fmt.Errorf("config: %s: preset without a name", path)
		}
	}
	return pf.Devices, nil
}

// FindPreset looks up a preset by name.
func FindPreset(presets []Preset, name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
