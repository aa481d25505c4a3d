// Package ui renders comparison results and status messages for the
// terminal.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/berbicanes/queryark/compare"
)

var (
	AddedColor     = lipgloss.Color("#00FF88")
	RemovedColor   = lipgloss.Color("#FF4444")
	ChangedColor   = lipgloss.Color("#FFB800")
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SecondaryColor = lipgloss.Color("#6C757D")

	AddedStyle   = lipgloss.NewStyle().Foreground(AddedColor)
	RemovedStyle = lipgloss.NewStyle().Foreground(RemovedColor)
	ChangedStyle = lipgloss.NewStyle().Foreground(ChangedColor)

	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	successPrinter = color.New(color.FgGreen, color.Bold)
	errorPrinter   = color.New(color.FgRed, color.Bold)
	warnPrinter    = color.New(color.FgYellow, color.Bold)
)

func PrintSuccess(format string, args ...interface{}) {
	successPrinter.Printf("✓ "+format+"\n", args...)
}

func PrintError(format string, args ...interface{}) {
	errorPrinter.Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}

func PrintWarning(format string, args ...interface{}) {
	warnPrinter.Printf("⚠ "+format+"\n", args...)
}

func PrintInfo(format string, args ...interface{}) {
	fmt.Println(SecondaryStyle.Render(fmt.Sprintf(format, args...)))
}

// PrintHeader frames the two sides being compared.
func PrintHeader(title, source, target string) {
	header := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(0, 2).
		Render(lipgloss.JoinVertical(
			lipgloss.Left,
			TitleStyle.Render(title),
			SecondaryStyle.Render(fmt.Sprintf("%s → %s", source, target)),
		))
	fmt.Println(header)
}

func statusMark(status compare.DiffStatus) string {
	switch status {
	case compare.StatusAdded:
		return AddedStyle.Render("+ added")
	case compare.StatusRemoved:
		return RemovedStyle.Render("- removed")
	case compare.StatusChanged:
		return ChangedStyle.Render("~ changed")
	default:
		return SecondaryStyle.Render("  unchanged")
	}
}

// PrintStructuralDiff renders a table-vs-table comparison grouped by
// object kind, skipping unchanged entries unless verbose is set.
func PrintStructuralDiff(result *compare.StructuralResult, verbose bool) {
	data := pterm.TableData{{"Kind", "Name", "Status", "Details"}}
	for _, d := range result.Columns {
		if d.Status == compare.StatusUnchanged && !verbose {
			continue
		}
		data = append(data, []string{"column", d.Name, statusMark(d.Status), strings.Join(d.Changes, "; ")})
	}
	for _, d := range result.Indexes {
		if d.Status == compare.StatusUnchanged && !verbose {
			continue
		}
		data = append(data, []string{"index", d.Name, statusMark(d.Status), strings.Join(d.Changes, "; ")})
	}
	for _, d := range result.ForeignKeys {
		if d.Status == compare.StatusUnchanged && !verbose {
			continue
		}
		data = append(data, []string{"foreign key", d.Name, statusMark(d.Status), strings.Join(d.Changes, "; ")})
	}

	if len(data) == 1 {
		PrintSuccess("no structural differences")
		return
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	PrintSummary(result.Summary)
}

// PrintDataDiff renders row-level differences. Unchanged rows are always
// skipped; values in changed columns are highlighted on both sides.
func PrintDataDiff(result *compare.DataDiffResult) {
	data := pterm.TableData{{"Key", "Status", "Source", "Target"}}
	for _, row := range result.Rows {
		if row.Status == compare.StatusUnchanged {
			continue
		}
		data = append(data, []string{
			row.Key,
			statusMark(row.Status),
			renderRow(row.Source, row.ChangedColumns),
			renderRow(row.Target, row.ChangedColumns),
		})
	}
	if len(data) == 1 {
		PrintSuccess("no data differences")
		return
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	PrintSummary(result.Summary)
}

// PrintCompareResult renders a result-set comparison.
func PrintCompareResult(result *compare.CompareResult) {
	if result.Positional {
		PrintInfo("no key columns selected, comparing row by row in order")
	}
	data := pterm.TableData{{"Key", "Status", "Source", "Target"}}
	for _, row := range result.Rows {
		if row.Status == compare.StatusUnchanged {
			continue
		}
		data = append(data, []string{
			row.Key,
			statusMark(row.Status),
			renderRow(row.Source, row.ChangedColumns),
			renderRow(row.Target, row.ChangedColumns),
		})
	}
	if len(data) == 1 {
		PrintSuccess("result sets match")
		return
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	PrintSummary(result.Summary)
}

func renderRow(values []any, changed []int) string {
	if values == nil {
		return SecondaryStyle.Render("(absent)")
	}
	changedSet := make(map[int]bool, len(changed))
	for _, i := range changed {
		changedSet[i] = true
	}
	parts := make([]string, len(values))
	for i, v := range values {
		s := formatValue(v)
		if changedSet[i] {
			s = ChangedStyle.Render(s)
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func PrintSummary(s compare.Summary) {
	fmt.Printf("%s  %s  %s  %s\n",
		AddedStyle.Render(fmt.Sprintf("%d added", s.Added)),
		RemovedStyle.Render(fmt.Sprintf("%d removed", s.Removed)),
		ChangedStyle.Render(fmt.Sprintf("%d changed", s.Changed)),
		SecondaryStyle.Render(fmt.Sprintf("%d unchanged", s.Unchanged)))
}

// PrintSQL renders a migration script as a fenced markdown code block.
func PrintSQL(script string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return err
	}
	out, err := r.Render("```sql\n" + script + "\n```")
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

// PrintTable prints a plain table, used for schema and connection listings.
func PrintTable(headers []string, rows [][]string) {
	data := pterm.TableData{headers}
	data = append(data, rows...)
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// Spinner starts a spinner for long-running loads.
func Spinner(message string) *pterm.SpinnerPrinter {
	spinner, _ := pterm.DefaultSpinner.Start(message)
	return spinner
}
