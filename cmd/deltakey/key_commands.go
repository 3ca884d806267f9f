package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"deltakey/internal/api"
	"deltakey/internal/config"
)

func newProposeCommand(ctx *commandContext) *cobra.Command {
	var sessionID string
	var exclude []int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Suggest the most discriminating character to examine next",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd.Context(), func(cfg *config.Config, svc *api.KeyService) error {
				resp, err := svc.Propose(sessionID, exclude)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, resp)
				}

				out := cmd.OutOrStdout()
				if resp.NoCandidate {
					fmt.Fprintln(out, "No character can narrow the remaining items further")
					return nil
				}

				p := resp.Proposal
				fmt.Fprintf(out, "Character %d: %s (%s)\n", p.Character.Number, p.Character.Description, p.Character.TypeLabel)
				if p.Character.Units != "" {
					fmt.Fprintf(out, "Measured in %s\n", p.Character.Units)
				}
				printStates(cmd, p.Character)
				fmt.Fprintln(out, renderTable(
					[]string{"Value", "Items"},
					valueRows(p.Values),
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session identifier")
	cmd.Flags().IntSliceVar(&exclude, "exclude", nil, "Character numbers to skip (repeatable)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the proposal as JSON")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func newFilterCommand(ctx *commandContext) *cobra.Command {
	var sessionID string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "filter <character> <value>",
		Aliases: []string{"add-filter"},
		Short:   "Apply a character observation to a session",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			character, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid character number %q", args[0])
			}
			return ctx.withService(cmd.Context(), func(cfg *config.Config, svc *api.KeyService) error {
				result, err := svc.ApplyFilter(sessionID, character, args[1])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, result)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %d,%s; %d items remain\n", character, args[1], result.RemainingCount)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session identifier")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the filter result as JSON")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func newUndoCommand(ctx *commandContext) *cobra.Command {
	var sessionID string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Remove the most recent filter from a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd.Context(), func(cfg *config.Config, svc *api.KeyService) error {
				result, err := svc.Undo(sessionID)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, result)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d filters applied; %d items remain\n", result.FilterCount, result.RemainingCount)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session identifier")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the result as JSON")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func newResetCommand(ctx *commandContext) *cobra.Command {
	var sessionID string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear every filter from a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd.Context(), func(cfg *config.Config, svc *api.KeyService) error {
				result, err := svc.Reset(sessionID)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, result)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Session reset; %d items in play\n", result.RemainingCount)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session identifier")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the result as JSON")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func newValuesCommand(ctx *commandContext) *cobra.Command {
	var sessionID string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "values <character>",
		Short: "Show a character's distinct values across the remaining items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			character, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid character number %q", args[0])
			}
			return ctx.withService(cmd.Context(), func(cfg *config.Config, svc *api.KeyService) error {
				resp, err := svc.Values(sessionID, character)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, resp)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Character %d: %s (%s)\n", resp.Character.Number, resp.Character.Description, resp.Character.TypeLabel)
				printStates(cmd, resp.Character)
				if len(resp.Values) == 0 {
					fmt.Fprintln(out, "No concrete codings among the remaining items")
					return nil
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Value", "Items"},
					valueRows(resp.Values),
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session identifier")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the value breakdown as JSON")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var sessionID string
	var maxSteps int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "identify",
		Short: "Run the automatic identification loop on a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd.Context(), func(cfg *config.Config, svc *api.KeyService) error {
				steps := maxSteps
				if steps <= 0 {
					steps = cfg.Key.MaxAutoSteps
				}
				result, err := svc.Identify(sessionID, steps)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, result)
				}

				out := cmd.OutOrStdout()
				if len(result.Steps) == 0 {
					fmt.Fprintln(out, "Nothing to do; session is already narrowed")
				} else {
					rows := make([][]string, 0, len(result.Steps))
					for i, step := range result.Steps {
						rows = append(rows, []string{
							strconv.Itoa(i + 1),
							strconv.Itoa(step.Character),
							step.Value,
							strconv.Itoa(step.Remaining),
						})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"Step", "Character", "Value", "Remaining"},
						rows,
						[]columnAlignment{alignRight, alignRight, alignLeft, alignRight},
					))
				}
				printRemaining(cmd, result.RemainingItems)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session identifier")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "Cap on automatic steps (defaults to the configured limit)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the identification result as JSON")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func printStates(cmd *cobra.Command, character api.CharacterSummary) {
	if len(character.States) == 0 {
		return
	}
	out := cmd.OutOrStdout()
	for _, state := range character.States {
		fmt.Fprintf(out, "  %d. %s\n", state.Number, state.Description)
	}
}

func valueRows(values []api.ValueOption) [][]string {
	rows := make([][]string, 0, len(values))
	for _, v := range values {
		rows = append(rows, []string{v.Value, strconv.Itoa(v.Count)})
	}
	return rows
}
