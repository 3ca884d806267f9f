package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"deltakey/internal/api"
	"deltakey/internal/config"
)

func newSessionCommand(ctx *commandContext) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Manage identification sessions",
	}

	sessionCmd.AddCommand(newSessionNewCommand(ctx))
	sessionCmd.AddCommand(newSessionListCommand(ctx))
	sessionCmd.AddCommand(newSessionShowCommand(ctx))
	sessionCmd.AddCommand(newSessionDeleteCommand(ctx))

	return sessionCmd
}

func newSessionNewCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new identification session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd.Context(), func(cfg *config.Config, svc *api.KeyService) error {
				state, err := svc.NewSession()
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, state)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Session %s\n", state.SessionID)
				fmt.Fprintf(out, "%d items in play\n", state.RemainingCount)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the session state as JSON")
	return cmd
}

func newSessionListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd.Context(), func(cfg *config.Config, svc *api.KeyService) error {
				list, err := svc.Sessions()
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, list)
				}
				out := cmd.OutOrStdout()
				if len(list.Sessions) == 0 {
					fmt.Fprintln(out, "No stored sessions")
					return nil
				}
				for _, id := range list.Sessions {
					fmt.Fprintln(out, id)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the session list as JSON")
	return cmd
}

func newSessionShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <session>",
		Short: "Show a session's filters and remaining items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd.Context(), func(cfg *config.Config, svc *api.KeyService) error {
				state, err := svc.State(args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, state)
				}
				printSessionState(cmd, state)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the session state as JSON")
	return cmd
}

// newStateCommand is a top-level shorthand for `session show` driven by the
// same --session flag as the other identification commands.
func newStateCommand(ctx *commandContext) *cobra.Command {
	var sessionID string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show the current session's filters and remaining items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd.Context(), func(cfg *config.Config, svc *api.KeyService) error {
				state, err := svc.State(sessionID)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, state)
				}
				printSessionState(cmd, state)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session identifier")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the session state as JSON")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func newSessionDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session>",
		Short: "Delete a stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd.Context(), func(cfg *config.Config, svc *api.KeyService) error {
				if err := svc.DeleteSession(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
				return nil
			})
		},
	}
}

func printSessionState(cmd *cobra.Command, state api.SessionState) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Session %s\n", state.SessionID)

	if len(state.Filters) == 0 {
		fmt.Fprintln(out, "No filters applied")
	} else {
		rows := make([][]string, 0, len(state.Filters))
		for i, f := range state.Filters {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				strconv.Itoa(f.Character),
				f.Value,
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Step", "Character", "Value"},
			rows,
			[]columnAlignment{alignRight, alignRight, alignLeft},
		))
	}

	printRemaining(cmd, state.RemainingItems)
}

func printRemaining(cmd *cobra.Command, items []api.ItemSummary) {
	out := cmd.OutOrStdout()
	switch len(items) {
	case 0:
		fmt.Fprintln(out, "No items match the applied filters")
	case 1:
		fmt.Fprintf(out, "%s %s\n", highlight(out, text.FgGreen, "Identified:"), items[0].Name)
	default:
		rows := make([][]string, 0, len(items))
		for _, item := range items {
			rows = append(rows, []string{strconv.Itoa(item.Number), item.Name})
		}
		fmt.Fprintf(out, "%d items remain\n", len(items))
		fmt.Fprintln(out, renderTable(
			[]string{"Item", "Name"},
			rows,
			[]columnAlignment{alignRight, alignLeft},
		))
	}
}
