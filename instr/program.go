package instr

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// NoActiveLine disables the active line marker of a listing.
const NoActiveLine = -1

// Program is an ordered list of instructions. Index 0 is line 1.
type Program []Instruction

// Line converts an instruction index to the line number shown to users.
func Line(idx int) int {
	return idx + 1
}

// Describe renders the program as a table. The instruction at index active,
// if any, is marked.
func Describe(p Program, active int) string {
	return Listing{Active: active}.Render(p)
}

// Listing configures how a program is rendered.
type Listing struct {
	// Active is the index of the marked instruction, or NoActiveLine.
	Active int
	// Color paints the active row in inverse colors.
	Color bool
	// Title is printed above the table when not empty.
	Title string
}

// Render draws the table.
func (l Listing) Render(p Program) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	if l.Title != "" {
		tw.SetTitle(l.Title)
	}

	tw.AppendHeader(table.Row{
		"#", "LABEL", "IN7", "IN6", "5", "4", "3", "2", "1", "0", "VALUE",
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 11, Align: text.AlignLeft},
	})

	for idx, in := range p {
		tw.AppendRow(l.row(idx, in))
	}

	if l.Color && l.Active >= 0 && l.Active < len(p) {
		marker := l.lineCell(l.Active)
		tw.SetRowPainter(table.RowPainter(func(row table.Row) text.Colors {
			if len(row) > 0 && row[0] == marker {
				return text.Colors{text.BgWhite, text.FgBlack}
			}
			return nil
		}))
	}

	return tw.Render()
}

func (l Listing) row(idx int, in Instruction) table.Row {
	row := table.Row{l.lineCell(idx), in.Label()}

	in7, in6, hasCond := conditionsOf(in)
	if hasCond {
		row = append(row, conditionCell(in7), conditionCell(in6))
	} else {
		row = append(row, "", "")
	}

	if s, ok := in.(SetOutput); ok {
		for pos := 5; pos >= 0; pos-- {
			if s.Bits&(1<<pos) != 0 {
				row = append(row, "1")
			} else {
				row = append(row, "0")
			}
		}
	} else {
		row = append(row, "", "", "", "", "", "")
	}

	return append(row, valueCell(in))
}

func (l Listing) lineCell(idx int) string {
	if idx == l.Active {
		return fmt.Sprintf("> %d", Line(idx))
	}

	return strconv.Itoa(Line(idx))
}

func conditionsOf(in Instruction) (in7, in6 Condition, ok bool) {
	switch in := in.(type) {
	case Until:
		return in.In7, in.In6, true
	case If:
		return in.In7, in.In6, true
	case Count:
		return in.In7, in.In6, true
	default:
		return Ignored, Ignored, false
	}
}

func conditionCell(c Condition) string {
	if c.IsIgnored() {
		return "▒"
	}

	return c.String()
}

func valueCell(in Instruction) string {
	switch in := in.(type) {
	case SetOutput:
		return in.Hold.String()
	case Repeat:
		if in.Counted() {
			return strconv.Itoa(in.Count)
		}
	case Count:
		if in.Target > 0 {
			return strconv.Itoa(in.Target)
		}
	}

	return ""
}
