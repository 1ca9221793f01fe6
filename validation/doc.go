// Package validation provides input validation for pipeline configuration.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    CacheRoot string `validate:"required"`
//	    Workers   int    `validate:"min=0"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("cache_root", cfg.CacheRoot)
//	err := v.Validate()
package validation
