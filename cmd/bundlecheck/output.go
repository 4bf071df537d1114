package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/John-Robertt/bundlecheck/internal/domain"
	"github.com/John-Robertt/bundlecheck/internal/logging"
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
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	cfgs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		cfgs = append(cfgs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			WidthMax:    60,
		})
	}
	tw.SetColumnConfigs(cfgs)
	return tw.Render()
}

// emitReport：stdout 是终端且未要求 --json 时输出表格；否则 stdout 只输出一个 CheckReport JSON，
// 摘要写 stderr。
func emitReport(stdout, stderr io.Writer, rr domain.CheckReport, asJSON bool) error {
	if asJSON || !logging.IsTerminal(stdout) {
		enc := json.NewEncoder(stdout)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(rr); err != nil {
			return err
		}
		fmt.Fprintln(stderr, summaryLine(rr))
		return nil
	}

	fmt.Fprintln(stdout, renderReportTable(rr))
	fmt.Fprintln(stdout, summaryLine(rr))
	fmt.Fprintln(stdout, libraryLine(rr.Library, time.Now()))
	return nil
}

func renderReportTable(rr domain.CheckReport) string {
	rows := make([][]string, 0, len(rr.Items))
	for _, it := range rr.Items {
		rows = append(rows, []string{
			fmt.Sprintf("%d", it.Index+1),
			it.Status.Label(),
			it.Title,
			itemNote(it),
		})
	}
	return renderTable(
		[]string{"#", "状态", "标题", "说明"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	)
}

// itemNote：拥有本体总要提示 DLC 无法确认；其余只在匹配到的库标题与页面标题不同时说明。
func itemNote(it domain.CheckItem) string {
	switch {
	case it.Status == domain.StatusBaseOwned:
		return it.Verdict().Hint()
	case it.Status == domain.StatusNotOwned, it.MatchTitle == it.Title:
		return ""
	default:
		return it.Verdict().Hint()
	}
}

func summaryLine(rr domain.CheckReport) string {
	s := rr.Summary
	return fmt.Sprintf("完成：total=%d owned=%d wishlisted=%d base_owned=%d not_owned=%d",
		len(rr.Items), s.Owned, s.Wishlisted, s.BaseOwned, s.NotOwned,
	)
}

func libraryLine(lib domain.LibraryInfo, now time.Time) string {
	src := "刚刚同步"
	if lib.FromCache {
		src = "缓存"
	}
	return fmt.Sprintf("Steam 库：已拥有 %s，愿望单 %s（%s，%s）",
		humanize.Comma(int64(lib.Owned)),
		humanize.Comma(int64(lib.Wishlisted)),
		src,
		syncedAgo(lib.FetchedAt, now),
	)
}

func syncedAgo(at, now time.Time) string {
	if at.IsZero() {
		return "从未同步"
	}
	return "上次同步 " + humanize.RelTime(at, now, "ago", "from now")
}
