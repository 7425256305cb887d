package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/TechXTT/crud"
	"github.com/spf13/cobra"
)

func newCreateCmd(s *session) *cobra.Command {
	var table, data string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Insert one record, or each record of a JSON array",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, isBatch, err := crud.DecodeJSON(strings.NewReader(data))
			if err != nil {
				return err
			}
			return s.run(cmd, func(ctx context.Context, m *crud.Mapper) error {
				if !isBatch {
					if err := m.Create(ctx, table, batch[0]); err != nil {
						return err
					}
					return printJSON(cmd, true)
				}
				return printResults(cmd, m.CreateBatch(ctx, table, batch))
			})
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "Table to insert into")
	cmd.Flags().StringVar(&data, "data", "", "JSON object or array of objects")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func newReadCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "read <query>",
		Short: "Run a query and print its rows as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(cmd, func(ctx context.Context, m *crud.Mapper) error {
				rows, err := m.Read(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, rows)
			})
		},
	}
}

func newUpdateCmd(s *session) *cobra.Command {
	var table, data, id, pk string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the row with the given id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, isBatch, err := crud.DecodeJSON(strings.NewReader(data))
			if err != nil {
				return err
			}
			target := crud.MustValueOf(id)
			if n, ok := target.Int64(); ok {
				target = crud.Int(n)
			}
			return s.run(cmd, func(ctx context.Context, m *crud.Mapper) error {
				if !isBatch {
					if err := m.Update(ctx, table, batch[0], target, pk); err != nil {
						return err
					}
					return printJSON(cmd, true)
				}
				return printResults(cmd, m.UpdateBatch(ctx, table, batch, target, pk))
			})
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "Table to update")
	cmd.Flags().StringVar(&data, "data", "", "JSON object or array of objects")
	cmd.Flags().StringVar(&id, "id", "", "Primary-key value of the row")
	cmd.Flags().StringVar(&pk, "pk", "", "Primary-key column (looked up when empty)")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newDeleteCmd(s *session) *cobra.Command {
	var (
		table, pk string
		id        int64
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the row with the given id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(cmd, func(ctx context.Context, m *crud.Mapper) error {
				deleted, err := m.Delete(ctx, table, id, pk)
				if err != nil {
					return err
				}
				return printJSON(cmd, deleted)
			})
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "Table to delete from")
	cmd.Flags().Int64Var(&id, "id", 0, "Primary-key value of the row")
	cmd.Flags().StringVar(&pk, "pk", "", "Primary-key column (looked up when empty)")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

// printResults prints one boolean per row and fails if any row failed.
func printResults(cmd *cobra.Command, results []error) error {
	ok := make([]bool, len(results))
	failed := 0
	for i, err := range results {
		ok[i] = err == nil
		if err != nil {
			failed++
			cmd.PrintErrf("row %d: %v\n", i, err)
		}
	}
	if err := printJSON(cmd, ok); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d rows failed", failed, len(results))
	}
	return nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	out, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
