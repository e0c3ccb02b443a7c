package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docset/docset/internal/cli/commands"
	"github.com/docset/docset/internal/cliopt"
	"github.com/docset/docset/internal/logging"
)

func NewRootCommand() *cobra.Command {
	g := cliopt.DefaultGlobalOptions()

	root := &cobra.Command{
		Use:           "docset",
		Short:         "a document store with precomputed index columns",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := g.Load(cmd.Flags()); err != nil {
				return err
			}
			logging.SetGlobalLogger(logging.New(cmd.ErrOrStderr(), g.Config.Log.Level, g.Config.Log.Format))
			logging.Debug().
				Str("backend", g.Config.Backend).
				Str("table", g.Config.Table).
				Msg("configuration loaded")
			return nil
		},
	}
	cliopt.BindGlobalFlags(root.PersistentFlags(), &g)

	root.AddCommand(
		commands.NewPutCommand(&g),
		commands.NewGetCommand(&g),
		commands.NewDeleteCommand(&g),
		commands.NewFindCommand(&g),
		commands.NewCountCommand(&g),
		commands.NewExplainCommand(&g),
		commands.NewTablesCommand(&g),
	)
	return root
}

// Execute runs the CLI and returns an exit code.
func Execute(argv []string) int {
	root := NewRootCommand()
	root.SetArgs(argv)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
