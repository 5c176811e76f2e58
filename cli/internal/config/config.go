// Package config stores nctirs CLI profiles in ~/.nctirs/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

const (
	DefaultOpenSearchURL = "https://localhost:9200"
	DefaultIndex         = "nctirs-threats"
	DefaultNATSURL       = "nats://localhost:4222"
)

type Config struct {
	CurrentProfile string              `yaml:"current_profile"`
	Profiles       map[string]*Profile `yaml:"profiles"`
	path           string
}

// Profile holds connection settings for one environment.
type Profile struct {
	OpenSearchURL      string `yaml:"opensearch_url"`
	OpenSearchUsername string `yaml:"opensearch_username,omitempty"`
	OpenSearchPassword string `yaml:"opensearch_password,omitempty"`
	Insecure           bool   `yaml:"insecure,omitempty"`
	Index              string `yaml:"index"`
	NATSURL            string `yaml:"nats_url"`
}

// DefaultProfile targets a local development stack.
func DefaultProfile() *Profile {
	return &Profile{
		OpenSearchURL: DefaultOpenSearchURL,
		Index:         DefaultIndex,
		NATSURL:       DefaultNATSURL,
	}
}

func Default() *Config {
	return &Config{
		CurrentProfile: "default",
		Profiles:       make(map[string]*Profile),
	}
}

// DefaultPath returns ~/.nctirs/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".nctirs", "config.yaml"), nil
}

// Load reads cfgFile, or the default path when empty. A missing file yields
// the default config.
func Load(cfgFile string) (*Config, error) {
	if cfgFile == "" {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		cfgFile = path
	}

	cfg := Default()
	cfg.path = cfgFile

	data, err := os.ReadFile(cfgFile)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", cfgFile, err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]*Profile)
	}

	return cfg, nil
}

func (c *Config) Save() error {
	if c.path == "" {
		path, err := DefaultPath()
		if err != nil {
			return err
		}
		c.path = path
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// Profiles may hold OpenSearch credentials.
	return os.WriteFile(c.path, data, 0600)
}

// SaveProfile stores p under name, makes it current and writes the file.
func (c *Config) SaveProfile(name string, p *Profile) error {
	if c.Profiles == nil {
		c.Profiles = make(map[string]*Profile)
	}

	c.Profiles[name] = p
	c.CurrentProfile = name
	return c.Save()
}

// GetProfile returns the named profile, or the current one when name is
// empty. Unset fields are filled from DefaultProfile.
func (c *Config) GetProfile(name string) (*Profile, error) {
	if name == "" {
		name = c.CurrentProfile
	}

	profile, ok := c.Profiles[name]
	if !ok {
		if name == "default" {
			return DefaultProfile(), nil
		}
		return nil, fmt.Errorf("profile '%s' not found", name)
	}

	merged := *profile
	def := DefaultProfile()
	if merged.OpenSearchURL == "" {
		merged.OpenSearchURL = def.OpenSearchURL
	}
	if merged.Index == "" {
		merged.Index = def.Index
	}
	if merged.NATSURL == "" {
		merged.NATSURL = def.NATSURL
	}
	return &merged, nil
}

func (c *Config) RemoveProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile '%s' not found", name)
	}

	delete(c.Profiles, name)

	if c.CurrentProfile == name {
		c.CurrentProfile = ""
	}

	return c.Save()
}

// ProfileNames returns the stored profile names in sorted order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
