package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xhit/go-str2duration/v2"
	"gopkg.in/yaml.v3"

	"github.com/wgadmin/wgadmin/internal/config"
	"github.com/wgadmin/wgadmin/internal/discovery"
	"github.com/wgadmin/wgadmin/internal/ui"
)

// Discover and config command flags
var (
	discoverTimeout string
	discoverSave    bool
	initForce       bool
)

func init() {
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetURLCmd)

	discoverCmd.Flags().StringVarP(&discoverTimeout, "timeout", "t", discovery.DefaultScanTimeout.String(), "How long to listen for answers (e.g. 5s, 1m)")
	discoverCmd.Flags().BoolVar(&discoverSave, "save", false, "Store the discovered API URL in the config file (only when exactly one server answers)")

	configInitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
}

// discoverCmd browses mDNS for admin API servers
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find admin API servers on the local network",
	Long: `Browse mDNS for admin API servers advertising ` + discovery.ServiceType + `.

With --save, a single discovered server becomes the configured API URL.`,
	Example: `  wgadmin discover
  wgadmin discover --timeout 10s --save`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	timeout, err := str2duration.ParseDuration(discoverTimeout)
	if err != nil {
		return fmt.Errorf("invalid timeout %q: %w", discoverTimeout, err)
	}
	if timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", discoverTimeout)
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader("Discover Servers", "wgadmin discover",
		ui.Param{Key: "Service", Value: discovery.ServiceType},
		ui.Param{Key: "Timeout", Value: timeout.String()},
	)

	ctx := cmd.Context()
	progressDone := make(chan struct{})
	progressCtx, stopProgress := context.WithCancel(ctx)
	if stderr := cmd.ErrOrStderr(); ui.IsTerminal(stderr) {
		go func() {
			defer close(progressDone)
			ui.NewCountdown("Scanning", timeout).Run(progressCtx, stderr)
		}()
	} else {
		close(progressDone)
	}

	servers, err := discovery.Scan(ctx, timeout)
	stopProgress()
	<-progressDone
	if err != nil {
		p.PrintFailure("Discovery failed", err)
		return err
	}

	if len(servers) == 0 {
		p.PrintWarning("No servers found",
			ui.Param{Key: "Hint", Value: "check the server advertises " + discovery.ServiceType + " or pass --api-url"},
		)
		return nil
	}

	details := make([]ui.Param, 0, len(servers))
	for i, s := range servers {
		value := s.BaseURL()
		if v := s.Version(); v != "" {
			value += " (v" + v + ")"
		}
		details = append(details, ui.Param{Key: strconv.Itoa(i+1) + ". " + s.Name, Value: value})
	}
	p.PrintSuccess(fmt.Sprintf("Found %d server(s)", len(servers)), details...)

	if !discoverSave {
		return nil
	}
	if len(servers) > 1 {
		return fmt.Errorf("%d servers found, run 'wgadmin config set-url URL' to pick one", len(servers))
	}
	return saveBaseURL(p, servers[0].BaseURL())
}

// configCmd groups config file management
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and edit the config file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after applying the config file, .env,
WGADMIN_* environment variables and flags.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}

		source := path
		if !config.Exists(path) {
			source = path + " (not created, showing defaults)"
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s\n", source)
		fmt.Fprint(out, string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		if config.Exists(path) && !initForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}
		if err := cfg.SaveTo(path); err != nil {
			return err
		}
		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Config written",
			ui.Param{Key: "Path", Value: path},
			ui.Param{Key: "API", Value: cfg.Server.BaseURL},
		)
		return nil
	},
}

var configSetURLCmd = &cobra.Command{
	Use:     "set-url URL",
	Short:   "Set the admin API base URL",
	Example: `  wgadmin config set-url http://vpn.lan:9191`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveBaseURL(ui.NewPrinter(cmd.OutOrStdout()), strings.TrimSpace(args[0]))
	},
}

// saveBaseURL validates and persists a new base URL.
// Only the URL changes; other settings are reloaded from the file so that
// environment and flag overrides are not written back.
func saveBaseURL(p *ui.Printer, baseURL string) error {
	stored, err := config.Load()
	if err != nil {
		return err
	}
	stored.Server.BaseURL = strings.TrimRight(baseURL, "/")
	if err := stored.Validate(); err != nil {
		return err
	}
	path, err := stored.Save()
	if err != nil {
		return err
	}
	cfg.Server.BaseURL = stored.Server.BaseURL
	p.PrintSuccess("API URL saved",
		ui.Param{Key: "API", Value: stored.Server.BaseURL},
		ui.Param{Key: "Path", Value: path},
	)
	return nil
}
