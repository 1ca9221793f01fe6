package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for environment variable overrides,
// e.g. STAGEKIT_CACHE_ROOT, STAGEKIT_WORKERS, STAGEKIT_LOGGING_LEVEL.
const envPrefix = "STAGEKIT"

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct .env file path (optional)
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load loads configuration into the provided cfg struct. It searches for
// stagekit.yml and .env files in standard locations, binds environment
// variables under the STAGEKIT_ prefix, and unmarshals the result into cfg.
func Load(cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	configFile := lc.ConfigFile
	if configFile == "" {
		configFile = findConfigFile(lc.FileSystem)
	}
	envFile := lc.EnvFile
	if envFile == "" {
		envFile = findEnvFile(lc.FileSystem)
	}

	v := viper.New()

	// 1. Load YAML config first (base configuration)
	if configFile != "" && lc.FileSystem.Exists(configFile) {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	// 2. Load .env file before binding so its variables are visible
	if envFile != "" && lc.FileSystem.Exists(envFile) {
		if err := lc.FileSystem.LoadEnv(envFile); err != nil {
			return fmt.Errorf("loading .env file %s: %w", envFile, err)
		}
	}

	// 3. Enable environment variable overrides
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	// 4. Unmarshal into config struct
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshaling config: %w", err)
	}

	return nil
}

// bindEnvKeys binds the known configuration keys so AutomaticEnv picks
// them up even when they are absent from the config file.
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"cache_root",
		"workers",
		"logging.level",
		"logging.format",
		"logging.output",
		"logging.no_color",
		"logging.service_name",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// findConfigFile searches for stagekit.yml in standard locations.
func findConfigFile(fs FileSystem) string {
	searchPaths := []string{
		"./stagekit.yml",
		"./config/stagekit.yml",
		"../config/stagekit.yml",
	}
	for _, path := range searchPaths {
		if fs.Exists(path) {
			return path
		}
	}
	return ""
}

// findEnvFile searches for .env files in standard locations.
func findEnvFile(fs FileSystem) string {
	searchPaths := []string{
		".env.stagekit",
		".env",
	}
	for _, path := range searchPaths {
		if fs.Exists(path) {
			return path
		}
	}
	return ""
}
