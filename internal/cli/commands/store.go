package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/docset/docset/docset"
	"github.com/docset/docset/docset/planner"
	"github.com/docset/docset/docset/query"
	"github.com/docset/docset/internal/cliopt"
	"github.com/docset/docset/internal/cliutil"
)

// openStore opens the configured store, runs fn and closes the store.
func openStore(cmd *cobra.Command, g *cliopt.GlobalOptions, fn func(ctx context.Context, s *docset.Store[cliutil.Document]) error) (err error) {
	cfg := g.Config
	reg, err := cliutil.NewRegistry(cfg)
	if err != nil {
		return err
	}

	opts := docset.DefaultStoreOptions()
	opts.Table = cfg.Table
	opts.IndexSuffix = cfg.IndexSuffix
	opts.DefaultTake = cfg.Paging.DefaultTake
	opts.MaxTake = cfg.Paging.MaxTake

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := docset.Open(ctx, cliutil.NewAdapter(cfg), reg, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(ctx, s)
}

type filterFlags struct {
	tags []string
	from string
	till string
	skip int
	take int
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.tags, "tag", "t", nil, "required tag (repeatable)")
	cmd.Flags().StringVar(&f.from, "from", "", "earliest timestamp, inclusive")
	cmd.Flags().StringVar(&f.till, "till", "", "latest timestamp, exclusive")
}

func (f *filterFlags) bindPaging(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.skip, "skip", 0, "documents to skip")
	cmd.Flags().IntVar(&f.take, "take", 0, "documents to return (0 = configured default)")
}

var timeLayouts = []string{planner.TimestampLayout, time.RFC3339, "2006-01-02"}

func parseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid time %q (want %s)", s, strings.Join(timeLayouts, ", "))
}

// filter builds a docset.Filter from the flags and the criteria arguments,
// each written name:op:value or name:value.
func (f *filterFlags) filter(args []string) (docset.Filter, error) {
	out := docset.Filter{Tags: f.tags, Skip: f.skip, Take: f.take}
	for _, a := range args {
		c, err := query.ParseCriteria(a)
		if err != nil {
			return docset.Filter{}, err
		}
		out.Criteria = append(out.Criteria, c)
	}
	var err error
	if out.From, err = parseTime(f.from); err != nil {
		return docset.Filter{}, err
	}
	if out.Till, err = parseTime(f.till); err != nil {
		return docset.Filter{}, err
	}
	return out, nil
}
