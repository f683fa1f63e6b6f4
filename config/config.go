// ABOUTME: Configuration record passed into every metadata operation
// ABOUTME: Layers defaults, the XDG config file, a project .env file and BIGMETA_* variables
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/harperreed/bigmeta/objects"
	"github.com/harperreed/bigmeta/store"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// AppName names the XDG config directory.
	AppName = "bigmeta"

	// ConfigFileName is the user config file inside the XDG config directory.
	ConfigFileName = "config.yaml"

	// EnvFileName is the project-level override file.
	EnvFileName = ".env"

	// DefaultDirectory is the conventional metadata source directory.
	DefaultDirectory = "force-app/main/default"

	// DefaultDeployerURL is the hosted deployer used by the README button.
	DefaultDeployerURL = "https://hosted-scratch.herokuapp.com/"

	// DefaultButtonURL is the badge image of the README button.
	DefaultButtonURL = "https://raw.githubusercontent.com/mshanemc/deploy-to-sfdx/master/client-src/resources/images/sfdx_it_now.png"
)

// Config holds every setting the commands need.
type Config struct {
	// Directory is the metadata root holding objects/ and permissionsets/
	Directory string `yaml:"directory"`

	// DefaultDirection is used when a field is indexed without a direction
	DefaultDirection objects.SortDirection `yaml:"default_direction"`

	Store StoreConfig `yaml:"store"`

	DeployerURL string `yaml:"deployer_url"`
	ButtonURL   string `yaml:"button_url"`

	Verbose bool `yaml:"verbose"`
}

// StoreConfig selects the persistence driver.
type StoreConfig struct {
	// Driver is fs, badger or sqlite
	Driver string `yaml:"driver"`

	// Path locates the badger directory or sqlite file; unused by fs
	Path string `yaml:"path"`
}

// DefaultConfig returns a new config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Directory:        DefaultDirectory,
		DefaultDirection: objects.SortAscending,
		Store:            StoreConfig{Driver: store.DriverFS},
		DeployerURL:      DefaultDeployerURL,
		ButtonURL:        DefaultButtonURL,
	}
}

// Path returns the XDG location of the user config file.
func Path() string {
	return filepath.Join(xdg.ConfigHome, AppName, ConfigFileName)
}

// Load reads the user config file and the .env file in the working directory.
func Load() (*Config, error) {
	return LoadFrom(Path(), EnvFileName)
}

// LoadFrom reads configPath (YAML, optional) then applies overrides from
// envFile (optional) and the process environment, which wins over envFile.
func LoadFrom(configPath, envFile string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	dotenv := map[string]string{}
	if envFile != "" {
		dotenv, err = godotenv.Read(envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
		if dotenv == nil {
			dotenv = map[string]string{}
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := applyEnvOverrides(cfg, lookup); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// applyEnvOverrides applies environment variable overrides:
// - BIGMETA_DIRECTORY
// - BIGMETA_DEFAULT_DIRECTION
// - BIGMETA_STORE_DRIVER
// - BIGMETA_STORE_PATH
// - BIGMETA_DEPLOYER_URL
// - BIGMETA_BUTTON_URL
// - BIGMETA_VERBOSE.
func applyEnvOverrides(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("BIGMETA_DIRECTORY", &cfg.Directory)
	str("BIGMETA_STORE_DRIVER", &cfg.Store.Driver)
	str("BIGMETA_STORE_PATH", &cfg.Store.Path)
	str("BIGMETA_DEPLOYER_URL", &cfg.DeployerURL)
	str("BIGMETA_BUTTON_URL", &cfg.ButtonURL)

	var direction string
	str("BIGMETA_DEFAULT_DIRECTION", &direction)
	if direction != "" {
		cfg.DefaultDirection = objects.SortDirection(direction)
	}

	if v, ok := lookup("BIGMETA_VERBOSE"); ok && strings.TrimSpace(v) != "" {
		verbose, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("BIGMETA_VERBOSE: %w", err)
		}
		cfg.Verbose = verbose
	}
	return nil
}

// Validate rejects settings no command can work with and rewrites the
// default direction in its canonical form.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Directory) == "" {
		return errors.New("directory must not be empty")
	}
	dir, err := objects.ParseSortDirection(string(c.DefaultDirection))
	if err != nil {
		return fmt.Errorf("default_direction: %w", err)
	}
	c.DefaultDirection = dir
	known := false
	for _, d := range store.Drivers() {
		if c.Store.Driver == d {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("%w: %q", store.ErrUnknownDriver, c.Store.Driver)
	}
	return nil
}

// StorePath returns where the badger or sqlite driver keeps its data,
// defaulting to a hidden directory in the working directory.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	switch c.Store.Driver {
	case store.DriverBadger:
		return filepath.Join("."+AppName, "badger")
	case store.DriverSQLite:
		return filepath.Join("."+AppName, "metadata.db")
	}
	return ""
}

// Save writes the config as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
