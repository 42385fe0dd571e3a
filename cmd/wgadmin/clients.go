package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wgadmin/wgadmin/internal/api"
	"github.com/wgadmin/wgadmin/internal/console"
	"github.com/wgadmin/wgadmin/internal/tui"
	"github.com/wgadmin/wgadmin/internal/ui"
)

// Output formats
const (
	formatTable = "table"
	formatJSON  = "json"
)

// Client command flags
var (
	listSearch   string
	listPage     int
	listAll      bool
	outputFormat string
	publicKey    string
	saveConfig   bool
	assumeYes    bool
)

func init() {
	rootCmd.AddCommand(clientsCmd)
	clientsCmd.AddCommand(clientsListCmd)
	clientsCmd.AddCommand(clientsCreateCmd)
	clientsCmd.AddCommand(clientsRevokeCmd)

	clientsCmd.PersistentFlags().StringVar(&outputFormat, "format", formatTable, "Output format (table, json)")

	clientsListCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Filter by name, IP or public key (case-insensitive)")
	clientsListCmd.Flags().IntVarP(&listPage, "page", "p", 1, "Page to show")
	clientsListCmd.Flags().BoolVarP(&listAll, "all", "a", false, "Show every matching client instead of one page")

	clientsCreateCmd.Flags().StringVar(&publicKey, "public-key", "", "Use this WireGuard public key; the server then generates no config")
	clientsCreateCmd.Flags().BoolVar(&saveConfig, "save", false, "Write the generated config to wg-<name>.conf in the download directory")

	clientsRevokeCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Revoke without asking for confirmation")
}

func checkFormat() error {
	switch outputFormat {
	case formatTable, formatJSON:
		return nil
	}
	return fmt.Errorf("unknown format %q (want table or json)", outputFormat)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}

var clientsCmd = &cobra.Command{
	Use:     "clients",
	Aliases: []string{"client"},
	Short:   "List, create and revoke VPN clients",
}

// clientsListCmd prints the client registry
var clientsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List VPN clients",
	Long: `List the VPN clients registered on the server.

Results are paged like the console (8 per page). The search term matches
name, IP address or public key, case-insensitively.`,
	Example: `  # First page
  wgadmin clients list

  # Search and page
  wgadmin clients list --search laptop --page 2

  # Everything, for scripting
  wgadmin clients list --all --format json`,
	Args: cobra.NoArgs,
	RunE: runClientsList,
}

func runClientsList(cmd *cobra.Command, args []string) error {
	if err := checkFormat(); err != nil {
		return err
	}
	store, err := signedInStore(cmd.Context())
	if err != nil {
		return err
	}

	filtered := console.FilterClients(store.Snapshot().Clients, listSearch)
	pages := console.PageCount(len(filtered))
	page := console.ClampPage(listPage, pages)

	shown := filtered
	if !listAll {
		shown = console.Paginate(filtered, page)
	}

	if outputFormat == formatJSON {
		if shown == nil {
			shown = []api.Client{}
		}
		return writeJSON(cmd.OutOrStdout(), shown)
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	if len(filtered) == 0 && listSearch != "" {
		p.Println(ui.MutedStyle.Render("  No clients found matching your search."))
		return nil
	}
	p.PrintClients(shown)
	if listAll {
		p.Println(ui.RenderPageSummary(len(shown), len(filtered), 1, 1))
	} else {
		p.Println(ui.RenderPageSummary(len(shown), len(filtered), page, pages))
	}
	return nil
}

// clientsCreateCmd creates a client
var clientsCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a VPN client",
	Long: `Create a VPN client.

Without --public-key the server generates the keypair and returns a ready
WireGuard config, which is printed (and written to disk with --save). With
--public-key the server only registers the peer and no config is produced.`,
	Example: `  # Server-generated keys, save wg-laptop.conf
  wgadmin clients create laptop --save

  # Bring your own key
  wgadmin clients create router --public-key "$(wg pubkey < router.key)"`,
	Args: cobra.ExactArgs(1),
	RunE: runClientsCreate,
}

func runClientsCreate(cmd *cobra.Command, args []string) error {
	if err := checkFormat(); err != nil {
		return err
	}
	name := strings.TrimSpace(args[0])
	if name == "" {
		return console.ErrNameRequired
	}
	key := strings.TrimSpace(publicKey)
	if key != "" {
		if err := tui.ValidatePublicKey(key); err != nil {
			return err
		}
	}

	store, err := signedInStore(cmd.Context())
	if err != nil {
		return err
	}

	if outputFormat == formatJSON {
		created, err := store.CreateClient(cmd.Context(), console.ClientRequest{Name: name, PublicKey: key})
		if err != nil {
			return commandError(err)
		}
		if saveConfig && created.HasConfig() {
			if _, err := console.SaveConfig(cfg.Output.DownloadDir, created); err != nil {
				return err
			}
		}
		return writeJSON(cmd.OutOrStdout(), created)
	}

	params := []ui.Param{
		{Key: "API", Value: cfg.Server.BaseURL},
		{Key: "Name", Value: name},
	}
	if key != "" {
		params = append(params, ui.Param{Key: "Public key", Value: key})
	}

	var created *api.CreateClientResponse
	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "Create Client",
		Command: "wgadmin clients create",
		Params:  params,
		Output:  cmd.OutOrStdout(),
	})
	err = runner.Run(cmd.Context(), func(ctx context.Context) ([]ui.Param, error) {
		resp, err := store.CreateClient(ctx, console.ClientRequest{Name: name, PublicKey: key})
		if err != nil {
			return nil, err
		}
		created = resp
		details := []ui.Param{
			{Key: "ID", Value: resp.ID.String()},
			{Key: "Assigned IP", Value: resp.IP},
		}
		if saveConfig && resp.HasConfig() {
			path, err := console.SaveConfig(cfg.Output.DownloadDir, resp)
			if err != nil {
				return nil, err
			}
			details = append(details, ui.Param{Key: "Saved to", Value: path})
		}
		return details, nil
	})
	if err != nil {
		return commandError(err)
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.Newline()
	p.PrintConfig(*created)
	return nil
}

// clientsRevokeCmd revokes a client by ID
var clientsRevokeCmd = &cobra.Command{
	Use:     "revoke ID",
	Aliases: []string{"delete", "rm"},
	Short:   "Revoke a VPN client",
	Long: `Revoke a VPN client by ID. The peer is removed from the server
immediately. You are asked to confirm unless --yes is given.`,
	Example: `  wgadmin clients revoke 12
  wgadmin clients revoke 12 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runClientsRevoke,
}

func runClientsRevoke(cmd *cobra.Command, args []string) error {
	id := api.ClientID(strings.TrimSpace(args[0]))

	store, err := signedInStore(cmd.Context())
	if err != nil {
		return err
	}

	client, ok := console.FindClient(store.Snapshot().Clients, id)
	if !ok {
		return fmt.Errorf("no client with ID %s, run 'wgadmin clients list'", id)
	}

	if !assumeYes && !ui.ConfirmRevoke(cmd.InOrStdin(), cmd.OutOrStdout(), client) {
		return nil
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "Revoke Client",
		Command: "wgadmin clients revoke",
		Params: []ui.Param{
			{Key: "API", Value: cfg.Server.BaseURL},
			{Key: "Client", Value: fmt.Sprintf("%s (ID %s)", client.Name, client.ID)},
		},
		Output: cmd.OutOrStdout(),
	})
	err = runner.Run(cmd.Context(), func(ctx context.Context) ([]ui.Param, error) {
		if err := store.Revoke(ctx, id); err != nil {
			return nil, err
		}
		return []ui.Param{
			{Key: "Name", Value: client.Name},
			{Key: "IP", Value: client.IP},
		}, nil
	})
	return commandError(err)
}
