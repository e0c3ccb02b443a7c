package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docset/docset/docset"
	"github.com/docset/docset/internal/cliopt"
	"github.com/docset/docset/internal/cliutil"
)

const criteriaHelp = `Criteria are written name:op:value, or name:value for eq. Operators:
eq, eqm, gt, ge, lt, le, contains (or =, >, >=, <, <=, ~). Criteria naming an
undeclared index are ignored.`

func NewFindCommand(g *cliopt.GlobalOptions) *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "find [criteria...]",
		Short: "list documents matching criteria, tags and a date range",
		Long:  "List one page of matching documents ordered by key.\n\n" + criteriaHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := f.filter(args)
			if err != nil {
				return err
			}
			return openStore(cmd, g, func(ctx context.Context, s *docset.Store[cliutil.Document]) error {
				out := cmd.OutOrStdout()
				switch cliutil.ParseOutputFormat(g.Format) {
				case cliutil.FormatKeys:
					keys, err := s.Keys(ctx, filter)
					if err != nil {
						return err
					}
					for _, k := range keys {
						fmt.Fprintln(out, k)
					}
				case cliutil.FormatJSON:
					docs, err := s.Find(ctx, filter)
					if err != nil {
						return err
					}
					return cliutil.PrintJSON(out, docs)
				default:
					docs, err := s.Find(ctx, filter)
					if err != nil {
						return err
					}
					for _, d := range docs {
						if err := cliutil.PrintJSON(out, d); err != nil {
							return err
						}
					}
					fmt.Fprintf(out, "--- %d documents ---\n", len(docs))
				}
				return nil
			})
		},
	}
	f.bind(cmd)
	f.bindPaging(cmd)
	return cmd
}

func NewCountCommand(g *cliopt.GlobalOptions) *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "count [criteria...]",
		Short: "count documents matching criteria, tags and a date range",
		Long:  "Count matching documents.\n\n" + criteriaHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := f.filter(args)
			if err != nil {
				return err
			}
			return openStore(cmd, g, func(ctx context.Context, s *docset.Store[cliutil.Document]) error {
				n, err := s.Count(ctx, filter)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			})
		},
	}
	f.bind(cmd)
	return cmd
}

func NewExplainCommand(g *cliopt.GlobalOptions) *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "explain [criteria...]",
		Short: "print the SQL find would run, with values inlined",
		Long:  "Print the find statement without running it.\n\n" + criteriaHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := f.filter(args)
			if err != nil {
				return err
			}
			return openStore(cmd, g, func(ctx context.Context, s *docset.Store[cliutil.Document]) error {
				sql, err := s.Explain(filter)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), sql)
				return nil
			})
		},
	}
	f.bind(cmd)
	f.bindPaging(cmd)
	return cmd
}
