package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = ".tquery.yaml"

// Config is the content of a .tquery.yaml file.
type Config struct {
	Name          string            `yaml:"name"`
	CaseSensitive bool              `yaml:"case_sensitive"`
	Color         bool              `yaml:"color"`
	JSON          bool              `yaml:"json"`
	Aliases       map[string]string `yaml:"aliases,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{Name: "tquery"}
}

// Load reads the configuration at path. A missing file is not an error and
// yields Default().
func Load(path string) (Config, error) {
	config := Default()

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		// an empty file decodes to io.EOF
		if errors.Is(err, io.EOF) {
			return config, nil
		}
		return config, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return config, nil
}

// Write stores config at path, creating or truncating the file.
func Write(path string, config Config) error {
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(d)
	return err
}
