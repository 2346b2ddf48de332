package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the project config file looked up from the working directory upwards
const ConfigFileName = "localdump.yaml"

// ErrNoConfigFile is returned by FindConfigFile when no config file exists
var ErrNoConfigFile = errors.New("no config file found in project or ~/.localdump/config.yaml")

// DefaultTables is the ordered list of tables exported when none are configured
var DefaultTables = []string{
	"users",
	"courses",
	"payments",
	"student_registrations",
	"tutor_payments",
	"enrollments",
	"messages",
	"course_options",
	"registration_form_options",
	"registration_form_settings",
	"settings",
	"chapters",
	"lessons",
	"live_classes",
}

// Config holds the settings for one export run
type Config struct {
	Database           string   `yaml:"database"`
	Output             string   `yaml:"output"`
	Tables             []string `yaml:"tables"`
	NoBackslashEscapes bool     `yaml:"no_backslash_escapes"`
	// Timezone is an IANA name such as "UTC"; datetimes are converted to it
	// before writing. Empty keeps them as the driver returns them.
	Timezone           string   `yaml:"timezone,omitempty"`

	// Path is the config file the settings were read from, empty for defaults
	Path string `yaml:"-"`
}

// DefaultConfig returns the settings used when no config file is found
func DefaultConfig() Config {
	return Config{
		Database: filepath.Join("backend", "database", "database.sqlite"),
		Output:   "local_data_dump.sql",
		Tables:   append([]string(nil), DefaultTables...),
	}
}

// Location resolves Timezone, returning nil when it is empty
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// FindConfigFile tries to find the localdump config file in the current directory
// or any parent directory, falling back to the global config if needed
func FindConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return FindConfigFileFrom(dir)
}

// FindConfigFileFrom is FindConfigFile starting at dir
func FindConfigFileFrom(dir string) (string, error) {
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached root directory
		}
		dir = parent
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", ErrNoConfigFile
	}

	globalConfig := filepath.Join(homeDir, ".localdump", "config.yaml")
	if _, err := os.Stat(globalConfig); err == nil {
		return globalConfig, nil
	}

	return "", ErrNoConfigFile
}

// ReadConfig reads a config file on top of the defaults. Relative paths in a
// project config file are resolved against the directory holding it.
func ReadConfig(configPath string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return config, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parsing config file: %w", err)
	}
	config.Path = configPath

	if filepath.Base(configPath) == ConfigFileName {
		projectRoot := filepath.Dir(configPath)
		config.Database = resolvePath(projectRoot, config.Database)
		config.Output = resolvePath(projectRoot, config.Output)
	}

	return config, nil
}

// LoadConfig reads the config file at path, or the discovered one when path
// is empty. Without any config file the defaults are returned.
func LoadConfig(path string) (Config, error) {
	if path != "" {
		return ReadConfig(path)
	}

	configPath, err := FindConfigFile()
	if errors.Is(err, ErrNoConfigFile) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("finding config file: %w", err)
	}
	return ReadConfig(configPath)
}

// WriteConfig writes config as YAML to path
func WriteConfig(path string, config Config) error {
	yamlData, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("creating yaml: %w", err)
	}
	if err := os.WriteFile(path, yamlData, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func resolvePath(root, path string) string {
	// connection URLs are left alone
	if path == "" || strings.Contains(path, "://") || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
