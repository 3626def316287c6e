// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/pdiddy/filing-engine/pkg/types"
)

// column describes one table column of a ledger listing.
type column[T any] struct {
	header string
	align  text.Align
	value  func(T) string
}

var filingColumns = []column[types.Filing]{
	{"CIK", text.AlignLeft, func(f types.Filing) string { return f.CIK }},
	{"Company", text.AlignLeft, func(f types.Filing) string { return f.Company }},
	{"Form", text.AlignLeft, func(f types.Filing) string { return f.Form }},
	{"Accession", text.AlignLeft, func(f types.Filing) string { return f.AccessionNumber }},
	{"Filed", text.AlignLeft, func(f types.Filing) string { return formatDate(f.FilingDate) }},
	{"Path", text.AlignLeft, func(f types.Filing) string { return f.SubmissionPath }},
}

var runColumns = []column[types.Run]{
	{"Run", text.AlignLeft, func(r types.Run) string { return r.ID }},
	{"Started", text.AlignLeft, func(r types.Run) string { return r.StartedAt.Local().Format(time.DateTime) }},
	{"Form", text.AlignLeft, func(r types.Run) string { return r.Form }},
	{"Companies", text.AlignRight, func(r types.Run) string { return strconv.Itoa(r.Companies) }},
	{"Downloaded", text.AlignRight, func(r types.Run) string { return strconv.Itoa(r.Downloaded) }},
	{"Skipped", text.AlignRight, func(r types.Run) string { return strconv.Itoa(r.Skipped) }},
	{"Status", text.AlignLeft, func(r types.Run) string { return string(r.Status) }},
	{"Error", text.AlignLeft, func(r types.Run) string { return r.Error }},
}

// renderTable renders one row per item, headers left-aligned.
func renderTable[T any](items []T, columns []column[T]) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, c := range columns {
		header[i] = c.header
		configs[i] = table.ColumnConfig{Number: i + 1, Align: c.align, AlignHeader: text.AlignLeft}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, item := range items {
		row := make(table.Row, len(columns))
		for i, c := range columns {
			row[i] = c.value(item)
		}
		tw.AppendRow(row)
	}
	return tw.Render()
}
