// Package config provides user configuration management for wgadmin.
//
// The configuration is a small YAML file that records where the admin API
// lives and how the CLI should behave. The file follows OS-specific
// conventions for its location.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/wgadmin/config.yaml or $HOME/.config/wgadmin/config.yaml
//   - macOS: $HOME/.config/wgadmin/config.yaml
//   - Windows: %LOCALAPPDATA%\wgadmin\config.yaml
//
// # Precedence
//
// Command-line flags override environment variables, which override the
// config file, which overrides compiled-in defaults. A .env file in the
// working directory is loaded into the environment at startup and so sits
// between real environment variables and the config file.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	cfg.ApplyEnv()
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// # Security
//
// Passwords are never stored. The bearer token lives in the session store
// (OS keyring or a 0600 token file), not in this file.
package config
