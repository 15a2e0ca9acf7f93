package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/dmitrymomot/metaqueue/pkg/imagemeta"
	"github.com/dmitrymomot/metaqueue/pkg/itemstate"
	"github.com/dmitrymomot/metaqueue/pkg/queue"
	"github.com/dmitrymomot/metaqueue/pkg/quota"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func renderResults(items []queue.Item) string {
	headers := []string{"File", "Status", "Size", "Format", "Dimensions", "Attempts", "Detail"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight, alignLeft}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		row := []string{
			it.Name,
			string(it.Status),
			humanize.Bytes(uint64(max(it.Size, 0))),
			"", "",
			strconv.Itoa(it.Attempts),
			"",
		}
		switch it.Status {
		case itemstate.Completed:
			format, _ := it.Result[imagemeta.KeyFormat].(string)
			width, _ := it.Result[imagemeta.KeyWidth].(int)
			height, _ := it.Result[imagemeta.KeyHeight].(int)
			sum, _ := it.Result[imagemeta.KeySHA256].(string)
			row[3] = format
			row[4] = fmt.Sprintf("%dx%d", width, height)
			row[6] = shortHash(sum)
		case itemstate.Error:
			row[6] = it.Error
		}
		rows = append(rows, row)
	}
	return renderTable(headers, rows, aligns)
}

func summarize(items []queue.Item) string {
	var completed, failed int
	for _, it := range items {
		switch it.Status {
		case itemstate.Completed:
			completed++
		case itemstate.Error:
			failed++
		}
	}
	return fmt.Sprintf("%d files: %d completed, %d failed", len(items), completed, failed)
}

func formatUsage(u quota.Usage) string {
	if u.Limit == quota.Unlimited {
		return fmt.Sprintf("quota %s: %d used today, unlimited", u.Operation, u.Current)
	}
	return fmt.Sprintf("quota %s: %d/%d used today, resets %s",
		u.Operation, u.Current, u.Limit, humanize.Time(u.ResetAt))
}

func shortHash(sum string) string {
	if len(sum) > 12 {
		return "sha256:" + sum[:12]
	}
	return sum
}
