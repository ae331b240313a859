package styles

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Symbols - Unicode with ASCII fallbacks
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "●"
	SymbolPending = "○"
	SymbolArrow   = "→"
	SymbolAsc     = "▲"
	SymbolDesc    = "▼"
	SymbolFilter  = "⚑"
	SymbolPin     = "┃"
)

var noColor bool

// SetNoColor disables colors regardless of the environment (--no-color).
func SetNoColor(v bool) { noColor = v }

// NoColor checks if colors should be disabled
func NoColor() bool {
	return noColor || os.Getenv("NO_COLOR") != "" || os.Getenv("DEALGRID_NO_COLOR") != ""
}

// IsAccessible checks if accessibility mode is enabled
// When enabled: no animations, no spinner, simplified output
func IsAccessible() bool {
	return os.Getenv("DEALGRID_ACCESSIBLE") == "1" || os.Getenv("DEALGRID_ACCESSIBLE") == "true"
}

// Base text styles
var (
	Bold      = lipgloss.NewStyle().Bold(true)
	Dim       = lipgloss.NewStyle().Foreground(Muted)
	Underline = lipgloss.NewStyle().Underline(true)
)

// Semantic styles - use these instead of raw colors
var (
	// Message types
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	InfoStyle    = lipgloss.NewStyle().Foreground(Info)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)

	// Grid vocabulary
	IDStyle         = lipgloss.NewStyle().Foreground(ColorID)
	SystemViewStyle = lipgloss.NewStyle().Foreground(ColorSystemView).Bold(true)
	CustomViewStyle = lipgloss.NewStyle().Foreground(ColorCustomView).Bold(true)
	CountStyle      = lipgloss.NewStyle().Foreground(TextSecondary)

	// Diff display
	DiffAddLine     = lipgloss.NewStyle().Foreground(ColorDiffAdd)
	DiffRemoveLine  = lipgloss.NewStyle().Foreground(ColorDiffRemove)
	DiffContextLine = lipgloss.NewStyle().Foreground(ColorDiffContext)
	DiffFileHeader  = lipgloss.NewStyle().Bold(true)
	DiffHunkHeader  = lipgloss.NewStyle().Foreground(Info)

	// Interactive TUI
	SelectedStyle = lipgloss.NewStyle().
			Background(BgHighlight).
			Foreground(TextPrimary)
	ActiveCellStyle = lipgloss.NewStyle().
			Background(BgActive).
			Foreground(TextPrimary).
			Bold(true)
	HeaderStyle       = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	PinnedHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPinned)
	DragStyle         = lipgloss.NewStyle().Reverse(true)

	// Help bar
	HelpKey   = lipgloss.NewStyle().Foreground(Accent)
	HelpValue = lipgloss.NewStyle().Foreground(Muted)
)

// ═══════════════════════════════════════════════════════════════════════════
// Render functions - centralized formatting with NoColor support
// ═══════════════════════════════════════════════════════════════════════════

// render applies a style if colors are enabled
func render(s lipgloss.Style, text string) string {
	if NoColor() {
		return text
	}
	return s.Render(text)
}

// Render exposes render for packages that build their own styles.
func Render(s lipgloss.Style, text string) string {
	return render(s, text)
}

// ID formats a row uid or view id (optionally shortened to its tail)
func ID(id string, short bool) string {
	if short && len(id) > 7 {
		id = strings.ToLower(id[len(id)-7:])
	}
	return render(IDStyle, id)
}

// View formats a view name according to its kind
func View(name string, system bool) string {
	if system {
		return render(SystemViewStyle, name)
	}
	return render(CustomViewStyle, name)
}

// Count formats a row count
func Count(n int) string {
	return render(CountStyle, fmt.Sprintf("%d", n))
}

// ═══════════════════════════════════════════════════════════════════════════
// Message formatters - structured output
// ═══════════════════════════════════════════════════════════════════════════

// SuccessMsg formats a success message with checkmark
func SuccessMsg(msg string) string {
	symbol := SymbolSuccess
	if NoColor() {
		symbol = "+"
	}
	return fmt.Sprintf("%s %s", render(SuccessStyle, symbol), msg)
}

// ErrorMsg formats an error message
func ErrorMsg(title string) string {
	return render(ErrorStyle, "Error: "+title)
}

// WarningMsg formats a warning message
func WarningMsg(msg string) string {
	symbol := SymbolWarning
	if NoColor() {
		symbol = "!"
	}
	return fmt.Sprintf("%s %s", render(WarningStyle, symbol), msg)
}

// InfoMsg formats an info message
func InfoMsg(msg string) string {
	return render(InfoStyle, msg)
}

// MutedMsg formats muted/secondary text
func MutedMsg(msg string) string {
	return render(MutedStyle, msg)
}

// ═══════════════════════════════════════════════════════════════════════════
// Section formatters - consistent output structure
// ═══════════════════════════════════════════════════════════════════════════

// SectionHeader formats a section header
func SectionHeader(title string) string {
	return render(Bold, title)
}

// HelpLine formats a help line (key description)
func HelpLine(key, description string) string {
	return fmt.Sprintf("  %s %s", render(HelpKey, key), render(MutedStyle, description))
}

// Indent returns text indented by n spaces
func Indent(text string, n int) string {
	prefix := strings.Repeat(" ", n)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func Yellow(s string) string      { return render(WarningStyle, s) }
func Green(s string) string       { return render(SuccessStyle, s) }
func Red(s string) string         { return render(ErrorStyle, s) }
func Cyan(s string) string        { return render(InfoStyle, s) }
func Mute(s string) string        { return render(MutedStyle, s) }
func WarningText(s string) string { return render(WarningStyle, s) }

func Mutef(format string, a ...any) string  { return Mute(fmt.Sprintf(format, a...)) }
func Boldf(format string, a ...any) string  { return render(Bold, fmt.Sprintf(format, a...)) }
func Greenf(format string, a ...any) string { return Green(fmt.Sprintf(format, a...)) }
