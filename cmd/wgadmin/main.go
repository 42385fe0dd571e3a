// Wgadmin is an operator console for a WireGuard VPN admin API.
//
// It signs in to the API, lists, creates and revokes VPN clients, hands out
// generated client configurations and triggers a sync of the live WireGuard
// interface. Running without arguments launches the full-screen console.
//
// Usage:
//
//	wgadmin [command] [flags]
//
// See 'wgadmin --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/wgadmin/wgadmin/internal/config"
	"github.com/wgadmin/wgadmin/internal/logging"
	"github.com/wgadmin/wgadmin/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Persistent flags
var (
	apiURLFlag     string
	logLevelFlag   string
	logFileFlag    string
	tokenStoreFlag string
)

// Resolved per invocation by loadSettings
var (
	cfg       *config.Config
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "wgadmin",
	Short: "WireGuard VPN admin console",
	Long: `An operator console for a WireGuard VPN admin API.

Sign in, list and search VPN clients, create clients (server-generated or
with your own public key), revoke them and sync the peer registry to the
WireGuard interface.

If no command is specified, the interactive console will launch automatically.`,
	Version:       version.Full(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConsole,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Assigned here: loadSettings refers back to rootCmd
	rootCmd.PersistentPreRunE = loadSettings

	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "Admin API base URL (overrides config and "+config.EnvAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error (default silent)")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&tokenStoreFlag, "token-store", "", "Token storage: auto, keyring, file, memory")

	rootCmd.AddCommand(versionCmd)
}

// loadSettings resolves configuration with the precedence
// flags > environment > .env > config file > defaults, then starts logging
func loadSettings(cmd *cobra.Command, args []string) error {
	// .env never overrides variables that are already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	dir, err := config.GetConfigDir()
	if err != nil {
		return err
	}
	configDir = dir

	loaded, err := config.Load()
	if err != nil {
		return err
	}
	loaded.ApplyEnv()

	if apiURLFlag != "" {
		loaded.Server.BaseURL = apiURLFlag
	}
	if logLevelFlag != "" {
		loaded.Logging.Level = logLevelFlag
	}
	if logFileFlag != "" {
		loaded.Logging.File = logFileFlag
	}
	if tokenStoreFlag != "" {
		loaded.Auth.TokenStore = tokenStoreFlag
	}

	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	logFile := cfg.Logging.File
	if logFile == "" && cfg.Logging.Level != "" && isConsoleCommand(cmd) {
		// stderr belongs to the full-screen console
		logFile = defaultLogFile()
	}
	return logging.Initialize(cfg.Logging.Level, logFile)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wgadmin %s (commit: %s)\n", version.Version, version.Commit)
	},
}
