// Package config loads the OLA report processor configuration.
//
// # Configuration Sources
//
// Configuration is layered, later sources overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A YAML file: $OLA_CONFIG_FILE, ./config.yaml or ./configs/config.yaml
//  3. Environment variables with the OLA_ prefix
//
// # Environment Variables
//
// Variables follow the section and field names:
//
//	OLA_SERVER_PORT=8080
//	OLA_LOGGING_LEVEL=debug
//	OLA_REPORT_OUTPUT_DIR=/srv/reports
//	OLA_DIRECTORY_USERS_FILE=/etc/ola/users.yaml
//	OLA_TELEMETRY_ENABLE_TRACING=true
//
// # User Directory
//
// The completion user directory is built in. LoadUserDirectory reads an
// optional YAML replacement with the same semantics.
package config
