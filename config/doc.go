// Package config loads the bucketctl configuration.
//
// A run is configured from a YAML file, environment variables and CLI flags,
// merged by field into a single Config and validated with
// go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file (required, config.yaml by default)
//  3. Environment variables (BUCKETCTL_ prefix)
//  4. CLI flags that were explicitly set
//
// The action flags (upload, download, list_files) are not configuration:
// they always start unset and only CLI flags turn one of them on.
//
// # Usage
//
//	cfg, err := config.Load("config.yaml", cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	switch cfg.Action() {
//	case bucketctl.ActionUpload:
//	    // ...
//	}
//
// # Environment Variables
//
// Config keys map to environment variables with the BUCKETCTL_ prefix:
//   - host → BUCKETCTL_HOST
//   - access_key → BUCKETCTL_ACCESS_KEY
//   - log.level → BUCKETCTL_LOG_LEVEL
//
// # Validation
//
// Only settings with a fixed domain are validated:
//   - provider must be minio or s3
//   - log level must be debug, info, warn, or error
//   - region must be set
//
// Host, credentials and bucket are passed to the storage backend as is;
// a missing value fails when the backend is contacted.
package config
