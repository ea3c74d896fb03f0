package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/legalscan/pkg/scan"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for failures.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleSection = lipgloss.NewStyle().Bold(true).Foreground(colorGray)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints run statistics on a single line.
func printStats(archives, notices, licenses int) {
	parts := []string{
		fmt.Sprintf("%d archives", archives),
		fmt.Sprintf("%d notices", notices),
		fmt.Sprintf("%d licenses", licenses),
	}
	fmt.Println("  " + StyleDim.Render(strings.Join(parts, " · ")))
}

// =============================================================================
// Diagnostics
// =============================================================================

// printDiagnostics writes the end-of-run report to w: counts first, then
// one section per non-empty list.
func printDiagnostics(w io.Writer, d scan.Diagnostics) {
	fmt.Fprintln(w, StyleTitle.Render("Diagnostics"))
	fmt.Fprintf(w, "  unique notices   %s\n", StyleNumber.Render(fmt.Sprint(d.UniqueNotices)))
	fmt.Fprintf(w, "  unique licenses  %s\n", StyleNumber.Render(fmt.Sprint(d.UniqueLicenses)))

	section := func(title string, style lipgloss.Style, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(w, "\n%s %s\n", styleSection.Render(title), StyleDim.Render(fmt.Sprintf("(%d)", len(items))))
		for _, it := range items {
			fmt.Fprintln(w, "  "+style.Render(it))
		}
	}

	section("Duplicate notices", StyleDim, d.DuplicateNotices)
	section("Duplicate licenses", StyleDim, d.DuplicateLicenses)
	section("Missing notices", StyleWarning, d.MissingNotices)
	section("Missing licenses", StyleWarning, d.MissingLicenses)

	reviews := make([]string, 0, len(d.ManualReview))
	for _, r := range d.ManualReview {
		line := r.Archive + ": " + r.Reason
		if r.Hint != "" {
			line += " (" + r.Hint + ")"
		}
		reviews = append(reviews, line)
	}
	section("Manual review", StyleWarning, reviews)
	section("Potential legal files", StyleValue, d.PotentialFiles)

	failures := make([]string, 0, len(d.Failures))
	for _, f := range d.Failures {
		failures = append(failures, fmt.Sprintf("%s: [%s] %s", f.Archive, f.Code, f.Message))
	}
	section("Failures", StyleError, failures)

	if d.Clean() {
		fmt.Fprintln(w, "\n"+styleIconSuccess.Render(iconSuccess)+" every archive has a notice and a license")
	}
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Utilities
// =============================================================================

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}
