package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/liamjtomlinson-star/automated-tiktok-poster/internal/pipeline"
)

// titleWidth caps story titles in the summary table.
const titleWidth = 40

// summaryTable renders a per-story batch summary.
func summaryTable(outcome pipeline.BatchOutcome) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Story", "Title", "Duration", "Result"})

	for _, ok := range outcome.Succeeded {
		tw.AppendRow(table.Row{
			ok.Story.ID,
			truncate(ok.Story.Title, titleWidth),
			fmt.Sprintf("%.1fs", ok.Result.Duration),
			ok.Paths.Video,
		})
	}
	for _, failed := range outcome.Failed {
		tw.AppendRow(table.Row{
			failed.StoryID,
			"",
			"",
			fmt.Sprintf("failed: %v", failed.Err),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// truncate shortens s to at most width runes, marking the cut.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
