package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"deltakey/internal/api"
	"deltakey/internal/config"
)

func newCharactersCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "characters",
		Short: "List the characters of the loaded dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd.Context(), func(cfg *config.Config, svc *api.KeyService) error {
				chars := svc.Characters()
				if jsonOutput {
					return writeJSON(cmd, chars)
				}

				rows := make([][]string, 0, len(chars))
				for _, c := range chars {
					detail := c.TypeLabel
					if c.Units != "" {
						detail += " (" + c.Units + ")"
					}
					rows = append(rows, []string{
						strconv.Itoa(c.Number),
						c.Description,
						detail,
						strconv.Itoa(len(c.States)),
						yesNo(c.Mandatory),
						yesNo(c.OmitFromKey),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"#", "Character", "Type", "States", "Mandatory", "Omitted"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the character list as JSON")
	return cmd
}

func newItemsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List the items of the loaded dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd.Context(), func(cfg *config.Config, svc *api.KeyService) error {
				items := svc.Items()
				if jsonOutput {
					return writeJSON(cmd, items)
				}

				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, []string{strconv.Itoa(item.Number), item.Name, item.Comment})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"#", "Name", "Comment"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the item list as JSON")
	return cmd
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show record counts for the loaded dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd.Context(), func(cfg *config.Config, svc *api.KeyService) error {
				stats := svc.Stats()
				if jsonOutput {
					return writeJSON(cmd, stats)
				}

				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Records", "Count"},
					[][]string{
						{"Characters", strconv.Itoa(stats.Characters)},
						{"States", strconv.Itoa(stats.States)},
						{"Items", strconv.Itoa(stats.Items)},
						{"Attributes", strconv.Itoa(stats.Attributes)},
						{"Dependencies", strconv.Itoa(stats.Dependencies)},
					},
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the statistics as JSON")
	return cmd
}
