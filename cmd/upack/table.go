package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/limenVTech/UDCS-Packer/internal/pipeline"
)

// renderSummary formats the per-stage counters and warnings as the run's
// closing report.
func renderSummary(results []pipeline.Result) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Stage", "Outcome", "Warnings"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	for _, res := range results {
		tw.AppendRow(table.Row{res.Stage, formatCounts(res.Counts), len(res.Warnings)})
	}

	out := tw.Render()
	for _, res := range results {
		for _, warning := range res.Warnings {
			out += fmt.Sprintf("\n%s: %s", res.Stage, warning)
		}
	}
	return out
}

func formatCounts(counts []pipeline.Count) string {
	if len(counts) == 0 {
		return "no changes"
	}
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s %d", strings.ReplaceAll(c.Name, "_", " "), c.Value))
	}
	return strings.Join(parts, ", ")
}
