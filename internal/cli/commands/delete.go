package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docset/docset/docset"
	"github.com/docset/docset/internal/cliopt"
	"github.com/docset/docset/internal/cliutil"
)

func NewDeleteCommand(g *cliopt.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>...",
		Short: "delete documents by key",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return openStore(cmd, g, func(ctx context.Context, s *docset.Store[cliutil.Document]) error {
				for _, key := range args {
					ok, err := s.Delete(ctx, key)
					if err != nil {
						return err
					}
					if ok {
						fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", key)
					} else {
						fmt.Fprintf(cmd.OutOrStdout(), "not found %s\n", key)
					}
				}
				return nil
			})
		},
	}
}
