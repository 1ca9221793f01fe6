// Package config provides configuration loading for the pipeline engine.
//
// Configuration is resolved from (in order of precedence) environment
// variables under the STAGEKIT_ prefix, a .env file, and a stagekit.yml
// file. Callers embed Config in their own structs or use it directly:
//
//	var cfg config.Config
//	if err := config.Load(&cfg); err != nil { ... }
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil { ... }
package config
