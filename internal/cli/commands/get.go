package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/docset/docset/docset"
	"github.com/docset/docset/internal/cliopt"
	"github.com/docset/docset/internal/cliutil"
)

func NewGetCommand(g *cliopt.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "print the document stored under a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return openStore(cmd, g, func(ctx context.Context, s *docset.Store[cliutil.Document]) error {
				doc, err := s.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return cliutil.PrintJSON(cmd.OutOrStdout(), doc)
			})
		},
	}
}
