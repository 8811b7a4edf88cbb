// Package report re-renders persisted sweep runs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/qcutools/qcubench/internal/result"
)

// Generate reads the rows stored in a run directory and writes them in
// the requested format (table, markdown, json).
func Generate(runDir, format string, w io.Writer) error {
	rows, err := collectRows(runDir)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no sweep points found in %s", runDir)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Distance < rows[j].Distance
	})

	switch format {
	case "markdown":
		return writeMarkdown(rows, w)
	case "json":
		return writeJSON(rows, w)
	default:
		return writeTable(rows, w)
	}
}

func collectRows(runDir string) ([]*result.SweepRow, error) {
	var rows []*result.SweepRow
	err := filepath.Walk(runDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		name := info.Name()
		if strings.HasPrefix(name, "point-") && strings.HasSuffix(name, ".json") {
			row, err := result.ReadRow(path)
			if err != nil {
				return nil
			}
			rows = append(rows, row)
		}
		return nil
	})
	return rows, err
}

func writeTable(rows []*result.SweepRow, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DIST\tDETECTORS\tLATENCY (US)\tTHROUGHPUT (HZ)\tSTATUS")
	fmt.Fprintln(tw, strings.Repeat("-", 60))
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%d\t%.2f\t%.0f\t%s\n",
			r.Distance, r.Detectors, r.LatencyUS, r.ThroughputHz, r.Status)
	}
	return tw.Flush()
}

func writeMarkdown(rows []*result.SweepRow, w io.Writer) error {
	fmt.Fprintln(w, "| Dist | Detectors | Latency (us) | Throughput (Hz) | Status |")
	fmt.Fprintln(w, "|---|---|---|---|---|")
	for _, r := range rows {
		fmt.Fprintf(w, "| %d | %d | %.2f | %.0f | %s |\n",
			r.Distance, r.Detectors, r.LatencyUS, r.ThroughputHz, r.Status)
	}
	return nil
}

func writeJSON(rows []*result.SweepRow, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
