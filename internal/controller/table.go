package controller

import (
	"bytes"
	"fmt"
	"time"

	m "github.com/mouse-blink/mdsift/internal/model"
	"github.com/olekukonko/tablewriter"
)

func summaryTable(summary m.Summary) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	table.Append([]string{"Files searched", fmt.Sprintf("%d", summary.Files)})
	table.Append([]string{"Files matched", fmt.Sprintf("%d", summary.FilesMatched)})
	table.Append([]string{"Blocks scanned", fmt.Sprintf("%d", summary.Blocks)})
	table.Append([]string{"Matches", fmt.Sprintf("%d", summary.Matches)})
	table.Append([]string{"Unreadable files", fmt.Sprintf("%d", summary.Unreadable)})

	if summary.Cancelled {
		table.Append([]string{"Cancelled", "yes"})
	}

	table.Append([]string{"Elapsed", summary.Elapsed.Round(time.Millisecond).String()})

	table.Render()

	return tableBuffer.String()
}

func outlineTable(outlines []m.FileOutline) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Headings", "Blocks"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER})

	blocks := 0

	for _, outline := range outlines {
		if outline.Err != nil {
			table.Append([]string{string(outline.Path), "-", "unreadable"})
			continue
		}

		table.Append([]string{
			string(outline.Path),
			fmt.Sprintf("%d", outline.Headings),
			fmt.Sprintf("%d", outline.Blocks),
		})

		blocks += outline.Blocks
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(outlines)),
		"",
		fmt.Sprintf("%d", blocks),
	})

	table.Render()

	return tableBuffer.String()
}
