package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/satfiles/satfiles/internal/dataset"
)

const (
	// DirName is the per-user state directory under the home directory.
	DirName = ".satfiles"

	fileName = "config.yaml"
	lockName = ".config.lock"
)

// Config holds tool-wide settings and the dataset definitions the CLI
// resolves selectors against. Values layer as defaults, then the config
// file, then environment variables.
type Config struct {
	// DataDir is the root directory instrument data lives under. Required
	// before any inventory can be built.
	DataDir string `yaml:"data_dir,omitempty"`

	// HomeDir overrides where catalogs and state are stored. Empty means
	// ~/.satfiles.
	HomeDir string `yaml:"home_dir,omitempty"`

	// Store selects the catalog backend: text, memory or sqlite.
	Store string `yaml:"store,omitempty"`

	Datasets []dataset.Definition `yaml:"datasets,omitempty"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{Store: "text"}
}

// Path returns the default config file location.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, DirName, fileName), nil
}

// Load reads the config at path, layering it over the defaults and
// applying environment overrides. A missing file is not an error; the
// defaults and environment still apply. An empty path means the default
// location.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadFile reads the config at path over the defaults without applying
// environment overrides. Edit-and-save flows use this form so transient
// environment values never end up written into the file.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = Path(); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SATFILES_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("SATFILES_HOME"); v != "" {
		c.HomeDir = v
	}
	if v := os.Getenv("SATFILES_STORE"); v != "" {
		c.Store = v
	}
}

// Home returns the state directory, resolving the default when no
// override is set.
func (c *Config) Home() (string, error) {
	if c.HomeDir != "" {
		return c.HomeDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// Save writes the config to path under an advisory lock, so concurrent
// invocations cannot interleave partial writes. The catalog store files
// are deliberately not covered by this lock. An empty path means the
// default location.
func Save(path string, c *Config) error {
	if path == "" {
		var err error
		if path, err = Path(); err != nil {
			return err
		}
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	lock, err := acquireLock(filepath.Join(dir, lockName))
	if err != nil {
		return fmt.Errorf("failed to acquire config lock: %w", err)
	}
	defer releaseLock(lock)

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}

func acquireLock(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("another process is updating the config")
	}
	return f, nil
}

func releaseLock(f *os.File) {
	syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
	f.Close()
}
