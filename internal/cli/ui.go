package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/junction/pkg/pipeline"
)

// uiOut receives status output. Stdout is reserved for answers.
var uiOut io.Writer = os.Stderr

// Palette (ANSI 256).
var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorRed   = lipgloss.Color("167")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleNumber for answers and counts.
	StyleNumber = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
)

// statusLine writes icon and the formatted message as one line to uiOut.
func statusLine(icon string, style lipgloss.Style, format string, args []any) {
	fmt.Fprintln(uiOut, style.Render(icon)+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { statusLine(iconSuccess, styleIconSuccess, format, args) }
func printError(format string, args ...any)   { statusLine(iconError, styleIconError, format, args) }
func printInfo(format string, args ...any)    { statusLine(iconInfo, styleIconInfo, format, args) }

// printDetail prints an indented dim line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints an output path.
func printFile(path string) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value with the label padded to a column.
func printKeyValue(key, value string) {
	fmt.Fprintln(uiOut, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// statsLine summarizes a run: "  20 boxes · 1000 connections · 3 circuits · fresh".
func statsLine(res *pipeline.Result) string {
	parts := []string{
		fmt.Sprintf("%d boxes", res.Input.Len()),
		fmt.Sprintf("%d connections", res.Connections),
		fmt.Sprintf("%d circuits", len(res.Circuits)),
	}
	status := StyleDim.Render("fresh")
	if res.CacheInfo.ResultHit {
		status = styleCached.Render("cached")
	}
	return "  " + StyleDim.Render(strings.Join(parts, " · ")+" · ") + status
}

func printStats(res *pipeline.Result) {
	fmt.Fprintln(uiOut, statsLine(res))
}
