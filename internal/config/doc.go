// Package config loads and validates the forwardd configuration file.
//
// Configuration is YAML with ${ENV} expansion, loaded in three layers:
// Load (parse), LoadWithDefaults (fill optional fields), and
// LoadAndValidate (reject nonsense before the driver starts).
package config
