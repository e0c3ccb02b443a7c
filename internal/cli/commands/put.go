package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docset/docset/docset"
	"github.com/docset/docset/internal/cliopt"
	"github.com/docset/docset/internal/cliutil"
)

// batchLine is one line of put --batch input.
type batchLine struct {
	Key    string           `json:"key"`
	Tags   []string         `json:"tags"`
	Doc    cliutil.Document `json:"doc"`
	Delete bool             `json:"delete"`
}

func NewPutCommand(g *cliopt.GlobalOptions) *cobra.Command {
	var data string
	var tags []string
	var batch bool

	cmd := &cobra.Command{
		Use:   "put [key]",
		Short: "store a JSON document",
		Long: `Store a JSON document read from --data or stdin. Without a key a
UUID is generated. With --batch, stdin holds JSON lines of the form
{"key": "...", "tags": [...], "doc": {...}} or {"key": "...", "delete": true},
applied in one transaction.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return openStore(cmd, g, func(ctx context.Context, s *docset.Store[cliutil.Document]) error {
				if batch {
					return runBatch(ctx, cmd, s)
				}

				raw := data
				if raw == "" {
					b, err := io.ReadAll(cmd.InOrStdin())
					if err != nil {
						return fmt.Errorf("read stdin: %w", err)
					}
					raw = string(b)
				}
				var doc cliutil.Document
				if err := json.Unmarshal([]byte(raw), &doc); err != nil {
					return fmt.Errorf("invalid document: %w", err)
				}

				if len(args) == 0 {
					key, err := s.Insert(ctx, doc, tags...)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", docset.Inserted, key)
					return nil
				}
				action, err := s.Upsert(ctx, args[0], doc, tags...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", action, args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "document JSON (default: read stdin)")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tag (repeatable)")
	cmd.Flags().BoolVar(&batch, "batch", false, "read JSON lines from stdin and apply them in one transaction")
	return cmd
}

func runBatch(ctx context.Context, cmd *cobra.Command, s *docset.Store[cliutil.Document]) error {
	b := docset.NewBatch[cliutil.Document]()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var bl batchLine
		if err := json.Unmarshal([]byte(text), &bl); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		var err error
		if bl.Delete {
			err = b.Delete(bl.Key)
		} else {
			err = b.Put(bl.Key, bl.Doc, bl.Tags...)
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	n, err := b.Execute(ctx, s)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "applied %d of %d operations\n", n, b.Len())
	return nil
}
