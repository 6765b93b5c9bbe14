// Package config loads and validates Hearth Core configuration.
//
// Configuration is read from a YAML file, merged over built-in defaults,
// and then overridden by HEARTH_* environment variables. A configuration
// that fails validation is rejected at startup rather than surfacing as
// runtime misbehaviour.
//
// # Example
//
//	database:
//	  path: "./data/hearth.db"
//	  wal_mode: true
//	  busy_timeout: 5
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "stdout"
//	notifications:
//	  capacity: 50
//	energy:
//	  seed_samples: true
package config
