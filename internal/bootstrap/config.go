package bootstrap

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the seed data loaded at startup.
type Config struct {
	Users      []UserSeed      `yaml:"users"`
	Candidates []CandidateSeed `yaml:"candidates"`
}

// UserSeed describes an account to create. Password is plain text and hashed on load.
type UserSeed struct {
	Username  string `yaml:"username"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName"`
	Role      string `yaml:"role"`
	Enabled   *bool  `yaml:"enabled"`
}

// CandidateSeed describes a candidate to create.
type CandidateSeed struct {
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName"`
	Email     string `yaml:"email"`
	Phone     string `yaml:"phone"`
	Position  string `yaml:"position"`
}

// LoadFile reads a YAML seed file. Unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML seed data.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return &cfg, nil
}
