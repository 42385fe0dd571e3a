// Package ui provides terminal output components for the wgadmin CLI.
//
// Unlike the interactive console in package tui, these components follow a
// "run once and exit" pattern: each command renders a header, does its work
// and prints a result box.
//
// # Components
//
//   - Header: command banner showing the operation and its parameters
//   - Result: success, failure and warning boxes; failures carry the API
//     client's troubleshooting hint
//   - ConfigBox: a generated WireGuard config, printed verbatim
//   - RenderClientTable: the client list as a table
//   - Countdown: a progress bar over a fixed window, used by discovery
//   - ConfirmRevoke: the y/N prompt before a revocation
//
// # Usage Pattern
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:   "Sync Peers",
//	    Command: "wgadmin sync",
//	    Params:  []ui.Param{{Key: "API", Value: baseURL}},
//	})
//
//	err := runner.Run(ctx, func(ctx context.Context) ([]ui.Param, error) {
//	    resp, err := store.Sync(ctx)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return []ui.Param{{Key: "Applied peers", Value: strconv.Itoa(resp.AppliedPeers)}}, nil
//	})
//
// Output width follows the terminal when writing to one and falls back to
// MaxContentWidth for pipes and files.
package ui
