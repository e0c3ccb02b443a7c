package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docset/docset/docset"
	"github.com/docset/docset/internal/cliopt"
	"github.com/docset/docset/internal/cliutil"
)

func NewTablesCommand(g *cliopt.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "list the tables of the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return openStore(cmd, g, func(ctx context.Context, s *docset.Store[cliutil.Document]) error {
				names, err := s.TableNames(ctx)
				if err != nil {
					return err
				}
				if cliutil.ParseOutputFormat(g.Format) == cliutil.FormatJSON {
					return cliutil.PrintJSON(cmd.OutOrStdout(), names)
				}
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return nil
			})
		},
	}
}
