// Package config loads runtime configuration for the Poshtyar CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config (or $CONFIG).
//  3. Command-line flags.
//
// Supported flags
//
//	-a string   base URL of the server, e.g. http://localhost:5000
//	-t int      request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "server_url": "http://localhost:5000",
//	  "request_timeout": "30s"
//	}
package config
