package main

import (
	"encoding/json"
	"fmt"

	"regform/internal/logging"
	"regform/internal/registration"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var lookupMerge bool

// lookupCmd queries stored customer records
var lookupCmd = &cobra.Command{
	Use:   "lookup PHONE...",
	Short: "Look up stored customers by phone number",
	Long: `Fetches the stored customer record for every phone number given and
prints the results as JSON, in argument order. Lookups run concurrently,
at most client.max_concurrent_lookups at a time.

With --merge each record is shown as the draft it would prefill.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupMerge, "merge", false, "Show each record merged into an empty draft")
}

// lookupResult is one line of lookup output.
type lookupResult struct {
	Phone  string              `json:"phone"`
	Record registration.Record `json:"record,omitempty"`
	Draft  *registration.Draft `json:"draft,omitempty"`
	Error  string              `json:"error,omitempty"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	svc := newClient(cfg)
	log := logging.Get(logging.CategoryLookup)

	results := make([]lookupResult, len(args))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.GetMaxConcurrentLookups())
	for i, phone := range args {
		g.Go(func() error {
			res := lookupResult{Phone: phone}
			rec, err := svc.Lookup(gctx, phone)
			if err != nil {
				// One missing customer should not cancel the others.
				log.Debug("Lookup failed", zap.String("phone", phone), zap.Error(err))
				res.Error = err.Error()
			} else {
				res.Record = rec
				if lookupMerge {
					d := registration.Merge(registration.Draft{}, rec)
					res.Draft = &d
				}
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}
