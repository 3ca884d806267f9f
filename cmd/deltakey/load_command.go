package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"deltakey/internal/config"
	"deltakey/internal/delta"
	"deltakey/internal/store"
)

func newLoadCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "load <dir>",
		Short: "Parse a DELTA dataset directory and store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				db, err := parseDatasetDir(cfg, args[0])
				if err != nil {
					var list delta.ErrorList
					if errors.As(err, &list) {
						out := cmd.ErrOrStderr()
						for _, parseErr := range list {
							fmt.Fprintln(out, parseErr)
						}
						return fmt.Errorf("dataset has %d errors", len(list))
					}
					return err
				}

				if err := st.Replace(cmd.Context(), db); err != nil {
					return fmt.Errorf("store dataset: %w", err)
				}

				stats, err := st.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, stats)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Loaded dataset into %s\n", st.Path())
				table := renderTable(
					[]string{"Records", "Count"},
					[][]string{
						{"Characters", strconv.Itoa(stats.Characters)},
						{"States", strconv.Itoa(stats.States)},
						{"Items", strconv.Itoa(stats.Items)},
						{"Attributes", strconv.Itoa(stats.Attributes)},
						{"Dependencies", strconv.Itoa(stats.Dependencies)},
					},
					[]columnAlignment{alignLeft, alignRight},
				)
				fmt.Fprintln(out, table)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit dataset statistics as JSON")
	return cmd
}

func parseDatasetDir(cfg *config.Config, dir string) (*delta.Database, error) {
	expanded, err := config.ExpandPath(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve dataset directory: %w", err)
	}

	charsPath, specsPath, itemsPath := cfg.DatasetFiles(expanded)
	chars, err := os.ReadFile(charsPath)
	if err != nil {
		return nil, fmt.Errorf("read characters file: %w", err)
	}
	specs, err := os.ReadFile(specsPath)
	if err != nil {
		return nil, fmt.Errorf("read specifications file: %w", err)
	}
	items, err := os.ReadFile(itemsPath)
	if err != nil {
		return nil, fmt.Errorf("read items file: %w", err)
	}

	return delta.Parse(string(chars), string(specs), string(items))
}
