package app

import "os"

// GetDefaults returns the config/db/log paths to fall back to, checking
// environment variables before the built-in defaults.
//
// Environment variables:
//   - BACKUPCTL_CONFIG_PATH: config file location (default: ./backupctl.toml)
//   - BACKUPCTL_DB_PATH: database file location (default: ./backups.db)
//   - BACKUPCTL_LOG_DIR: log directory (default: ./log)
func GetDefaults() map[string]string {
	return map[string]string{
		"config_path": envOr("BACKUPCTL_CONFIG_PATH", "./backupctl.toml"),
		"db_path":     envOr("BACKUPCTL_DB_PATH", "./backups.db"),
		"log_dir":     envOr("BACKUPCTL_LOG_DIR", "./log"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
