package cmd

import (
	"io"
	"time"

	"quotes-scraper/crawler"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderSummary prints the outcome of a run as a table
func renderSummary(out io.Writer, s crawler.Summary, runErr error) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Item", "Value"})

	t.AppendRow(table.Row{"Pages", len(s.Pages)})
	if len(s.Pages) > 0 {
		t.AppendRow(table.Row{"Last page", s.Pages[len(s.Pages)-1]})
	}
	t.AppendRow(table.Row{"Quotes", s.Quotes})
	if s.Partial {
		t.AppendRow(table.Row{"Partial", "yes"})
	}
	t.AppendRow(table.Row{"Authors", s.Authors})
	t.AppendRow(table.Row{"Authors failed", s.AuthorsFailed})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Quotes output", orDash(s.QuotesTarget)})
	t.AppendRow(table.Row{"Authors output", orDash(s.AuthorsTarget)})
	t.AppendRow(table.Row{"Elapsed", s.Elapsed.Round(time.Millisecond).String()})

	status := "OK"
	if runErr != nil {
		status = "FAILED"
	}
	t.AppendFooter(table.Row{"Status", status})

	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
