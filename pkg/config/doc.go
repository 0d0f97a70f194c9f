// Package config provides configuration management for the notes export
// service.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. The resulting *Config is
// passed explicitly to the constructors that need it.
//
// # Configuration Loading
//
// Configuration can be loaded in three ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("notesexport.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("notesexport.yaml")
//
//  3. From an optional file, falling back to defaults when it is absent:
//     cfg, err := config.LoadOptional("notesexport.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention NOTESEXPORT_SECTION_FIELD.
// For example:
//
//   - NOTESEXPORT_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - NOTESEXPORT_STORAGE_EXPORTS_DIR overrides storage.exports_dir
//   - NOTESEXPORT_AUTH_TOKEN overrides auth.token
//
// PORT replaces the port of server.listen_address.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	server:
//	  listen_address: ":3001"
//	  base_path: "/api"
//
//	storage:
//	  exports_dir: "/var/lib/notesexport"
//
//	retention:
//	  group_by: "day"
//	  schedule: "0 3 * * *"
//
//	auth:
//	  token_file: "/run/secrets/notesexport-token"
//	  watch_token_file: true
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//	  tracing:
//	    enabled: true
//	    endpoint: "otel-collector:4317"
//	    insecure: true
package config
