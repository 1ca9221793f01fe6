package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/kbukum/stagekit/logger"
	"github.com/kbukum/stagekit/validation"
)

// Config contains the configuration for a pipeline instance.
// Projects extend this by embedding it in their own config structs.
type Config struct {
	// CacheRoot is the base directory under which all stage caches live.
	CacheRoot string `yaml:"cache_root" mapstructure:"cache_root" validate:"required"`
	// Workers is the worker-pool size for parallel stage execution.
	// Zero means use the available hardware parallelism.
	Workers int `yaml:"workers" mapstructure:"workers" validate:"min=0"`
	// Logging configures the structured logger.
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to the configuration.
func (c *Config) ApplyDefaults() {
	if c.CacheRoot == "" {
		c.CacheRoot = defaultCacheRoot()
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = "stagekit"
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	return c.Logging.Validate()
}

// defaultCacheRoot resolves the per-user cache directory, falling back to
// a path under the working directory when no user cache dir is available.
func defaultCacheRoot() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "stagekit")
	}
	return filepath.Join(".", ".stagekit-cache")
}
