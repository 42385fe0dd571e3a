package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wgadmin/wgadmin/internal/api"
	"github.com/wgadmin/wgadmin/internal/console"
	"github.com/wgadmin/wgadmin/internal/session"
	"github.com/wgadmin/wgadmin/internal/tui"
	"github.com/wgadmin/wgadmin/internal/ui"
)

// errSessionExpired replaces any unauthorized error surfaced by a command.
// The stored token has already been cleared by the store when it is returned.
var errSessionExpired = errors.New("session expired, run `wgadmin login`")

// errNotSignedIn is returned by commands that need a stored token
var errNotSignedIn = errors.New("not signed in, run `wgadmin login`")

// Session command flags
var (
	loginUsername string
	passwordStdin bool
)

func init() {
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(healthCmd)

	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (default from config, usually admin)")
	loginCmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
}

// newStore builds the API client and token store from the resolved config
func newStore() (*console.Store, session.Store, error) {
	tokens, err := session.Open(cfg.Auth.TokenStore, configDir)
	if err != nil {
		return nil, nil, err
	}
	client := api.NewClient(cfg.Server.BaseURL)
	client.SetTimeout(cfg.Server.Timeout)
	return console.NewStore(client, tokens), tokens, nil
}

// signedInStore restores the stored session, failing when there is none
func signedInStore(ctx context.Context) (*console.Store, error) {
	store, _, err := newStore()
	if err != nil {
		return nil, err
	}
	if err := store.Bootstrap(ctx); err != nil {
		return nil, commandError(err)
	}
	if !store.IsAuthenticated() {
		if store.Snapshot().Error == console.MsgSessionExpired {
			return nil, errSessionExpired
		}
		return nil, errNotSignedIn
	}
	return store, nil
}

// commandError maps unauthorized API errors to the re-login hint
func commandError(err error) error {
	if api.IsUnauthorized(err) {
		return errSessionExpired
	}
	return err
}

func isConsoleCommand(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd == consoleCmd
}

func defaultLogFile() string {
	return filepath.Join(configDir, "wgadmin.log")
}

// consoleCmd launches the interactive console
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Launch the interactive console",
	Long: `Launch the full-screen console.

The console restores a stored session when there is one and otherwise opens
on the sign-in screen. From the dashboard you can search and page through
clients, create and revoke them, copy or save generated configs and sync
the peer registry.`,
	Example: `  # Launch the console (default command)
  wgadmin

  # Against a specific server
  wgadmin console --api-url http://vpn.lan:9191`,
	RunE: runConsole,
}

func runConsole(cmd *cobra.Command, args []string) error {
	store, _, err := newStore()
	if err != nil {
		return err
	}
	return tui.Run(tui.Options{
		Store:       store,
		BaseURL:     cfg.Server.BaseURL,
		Username:    cfg.Auth.Username,
		DownloadDir: cfg.Output.DownloadDir,
	})
}

// loginCmd signs in and stores the token
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the admin API",
	Long: `Exchange a username and password for an API token.

The password is prompted for without echo. The token is stored in the OS
keyring when available (or a 0600 file in the config directory) and used by
every other command until it expires or you run 'wgadmin logout'.`,
	Example: `  # Interactive prompt
  wgadmin login

  # Scripted
  echo "$WG_PASSWORD" | wgadmin login --username admin --password-stdin`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	username := loginUsername
	if username == "" {
		username = cfg.Auth.Username
	}

	password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), passwordStdin)
	if err != nil {
		return err
	}

	store, tokens, err := newStore()
	if err != nil {
		return err
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "Sign In",
		Command: "wgadmin login",
		Params: []ui.Param{
			{Key: "API", Value: cfg.Server.BaseURL},
			{Key: "User", Value: username},
		},
		Output: cmd.OutOrStdout(),
	})
	return runner.Run(cmd.Context(), func(ctx context.Context) ([]ui.Param, error) {
		if err := store.Login(ctx, username, password); err != nil {
			return nil, err
		}
		snap := store.Snapshot()
		details := []ui.Param{
			{Key: "Token store", Value: tokens.Kind()},
			{Key: "Clients", Value: strconv.Itoa(len(snap.Clients))},
		}
		if left, ok := snap.TimeLeft(); ok {
			details = append(details, ui.Param{Key: "Expires in", Value: tui.FormatRemaining(left)})
		}
		return details, nil
	})
}

// readPassword reads a line from in when fromStdin is set, and otherwise
// prompts on the terminal without echo
func readPassword(in io.Reader, prompt io.Writer, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		password := strings.TrimRight(line, "\r\n")
		if password == "" {
			return "", errors.New("empty password on stdin")
		}
		return password, nil
	}

	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "", errors.New("stdin is not a terminal, use --password-stdin")
	}
	fmt.Fprint(prompt, "Password: ")
	raw, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return "", errors.New("empty password")
	}
	return string(raw), nil
}

// logoutCmd clears the stored token
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, tokens, err := newStore()
		if err != nil {
			return err
		}
		store.Logout()
		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Signed out",
			ui.Param{Key: "Token store", Value: tokens.Kind()},
		)
		return nil
	},
}

// statusCmd reports session and API state
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sign-in state, session expiry and API health",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, tokens, err := newStore()
	if err != nil {
		return err
	}

	// A failed restore still leaves a useful status to report
	_ = store.Bootstrap(ctx)
	health := store.CheckHealth(ctx)
	snap := store.Snapshot()

	details := []ui.Param{
		{Key: "API", Value: cfg.Server.BaseURL},
		{Key: "Health", Value: healthText(health)},
		{Key: "Token store", Value: tokens.Kind()},
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	if !snap.Auth.IsAuthenticated {
		reason := "Not signed in"
		if snap.Error != "" {
			reason = snap.Error
		}
		details = append(details, ui.Param{Key: "Session", Value: reason})
		p.PrintWarning("Not signed in", details...)
		return nil
	}

	sessionText := "active"
	if left, ok := snap.TimeLeft(); ok {
		sessionText = fmt.Sprintf("expires in %s (%s)", tui.FormatRemaining(left), snap.Auth.ExpiresAt.Local().Format(time.RFC1123))
	}
	details = append(details,
		ui.Param{Key: "Session", Value: sessionText},
		ui.Param{Key: "Clients", Value: fmt.Sprintf("%d total, %d active", snap.Stats.Total, snap.Stats.Active)},
	)
	p.PrintSuccess("Signed in", details...)
	return nil
}

func healthText(h console.Health) string {
	switch h {
	case console.HealthOK:
		return "healthy"
	case console.HealthDown:
		return "unreachable"
	}
	return "unknown"
}

// syncCmd applies the peer registry to the WireGuard interface
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Apply the peer registry to the WireGuard interface",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := signedInStore(cmd.Context())
		if err != nil {
			return err
		}
		runner := ui.NewRunner(ui.RunnerConfig{
			Title:   "Sync Peers",
			Command: "wgadmin sync",
			Params:  []ui.Param{{Key: "API", Value: cfg.Server.BaseURL}},
			Wait:    "Applying peers to the WireGuard interface",
			Output:  cmd.OutOrStdout(),
		})
		err = runner.Run(cmd.Context(), func(ctx context.Context) ([]ui.Param, error) {
			resp, err := store.Sync(ctx)
			if err != nil {
				return nil, err
			}
			return []ui.Param{{Key: "Applied peers", Value: strconv.Itoa(resp.AppliedPeers)}}, nil
		})
		return commandError(err)
	},
}

// healthCmd checks API reachability without signing in
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the admin API is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := api.NewClient(cfg.Server.BaseURL)
		client.SetTimeout(cfg.Server.Timeout)

		runner := ui.NewRunner(ui.RunnerConfig{
			Title:   "Health Check",
			Command: "wgadmin health",
			Params:  []ui.Param{{Key: "API", Value: cfg.Server.BaseURL}},
			Output:  cmd.OutOrStdout(),
		})
		return runner.Run(cmd.Context(), func(ctx context.Context) ([]ui.Param, error) {
			resp, err := client.CheckHealth(ctx)
			if err != nil {
				return nil, err
			}
			if !resp.OK {
				return nil, errors.New("API reported not ok")
			}
			return []ui.Param{{Key: "Status", Value: "ok"}}, nil
		})
	},
}
