package cmd

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/msalah0e/ontomap/internal/mapping"
	"github.com/msalah0e/ontomap/internal/service"
	"github.com/msalah0e/ontomap/internal/telemetry"
	"github.com/msalah0e/ontomap/internal/ui"
	"github.com/spf13/cobra"
)

func expandCmd() *cobra.Command {
	var (
		fixturePath string
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "expand <ontology-id>...",
		Short: "Query mapping counts among ontologies",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var f *service.Fixture
			if fixturePath != "" {
				var err error
				if f, err = service.LoadFixture(fixturePath); err != nil {
					ui.Bad.Printf("  Failed to load fixture: %v\n", err)
					os.Exit(1)
				}
			}
			metrics := telemetry.NewMetrics()
			svc, source, err := mappingService(cfg, f, offlineMode, metrics, logger)
			if err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Service.Timeout.Duration)
			defer cancel()
			agg, err := svc.MappingCounts(ctx, args)
			if err != nil {
				ui.Bad.Printf("  Could not load mapping counts from %s: %v\n", source, err)
				os.Exit(1)
			}
			report := newExpandReport(args, agg)

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					ui.Bad.Printf("  %v\n", err)
					os.Exit(1)
				}
				return
			}

			ui.Banner("mapping counts")
			fmt.Printf("  %s %s\n\n", ui.Subtle.Sprint("Source:"), source)
			if len(report.Records) == 0 {
				fmt.Println("  No mappings found")
				return
			}
			rows := make([][]string, 0, len(report.Records))
			for _, r := range report.Records {
				rows = append(rows, []string{r.Source, r.Target, ui.Count(r.Count)})
			}
			ui.Table([]string{"SOURCE", "TARGET", "COUNT"}, rows)

			top := slices.MaxFunc(report.Records, func(a, b service.CountRecord) int { return cmp.Compare(a.Count, b.Count) })
			fmt.Printf("\n  %s %s %s\n", ui.Subtle.Sprint("Largest:"), ui.Mapping(top.Source, top.Target),
				ui.Info.Sprintf("(%s)", ui.Count(top.Count)))

			if len(report.Totals) > 0 {
				fmt.Println()
				ui.Info.Println("  Totals per pair (both directions)")
				rows = rows[:0]
				for _, p := range report.Totals {
					rows = append(rows, []string{p.A, p.B, ui.Count(p.Count)})
				}
				ui.Table([]string{"ONTOLOGY", "ONTOLOGY", "TOTAL"}, rows)
			}
		},
	}

	cmd.Flags().StringVarP(&fixturePath, "fixture", "f", "", "Answer from a YAML fixture (used with --offline or without a base_url)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON")
	return cmd
}

type pairTotal struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Count int    `json:"count"`
}

type expandReport struct {
	Ontologies []string              `json:"ontologies"`
	Records    []service.CountRecord `json:"records"`
	Totals     []pairTotal           `json:"totals"`
}

// newExpandReport lists the records as returned and the symmetric total of
// every requested pair that has mappings.
func newExpandReport(ids []string, agg *mapping.Aggregator) expandReport {
	r := expandReport{
		Ontologies: ids,
		Records:    make([]service.CountRecord, 0, agg.Size()),
		Totals:     []pairTotal{},
	}
	for c := range agg.All() {
		r.Records = append(r.Records, service.CountRecord{Source: c.SourceID(), Target: c.TargetID(), Count: c.Count()})
	}
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			if n := agg.Lookup(ids[i], ids[j]); n > 0 {
				r.Totals = append(r.Totals, pairTotal{A: ids[i], B: ids[j], Count: n})
			}
		}
	}
	return r
}
