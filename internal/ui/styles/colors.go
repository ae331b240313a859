package styles

import "github.com/charmbracelet/lipgloss"

// Color palette, dark mode optimized
var (
	// Primary semantic colors
	Accent  = lipgloss.Color("#7C3AED") // violet-500 - highlights, interactive
	Success = lipgloss.Color("#10B981") // emerald-500 - success, additions
	Warning = lipgloss.Color("#F59E0B") // amber-500 - warnings, pending
	Error   = lipgloss.Color("#EF4444") // red-500 - errors, deletions
	Info    = lipgloss.Color("#3B82F6") // blue-500 - info, ids
	Muted   = lipgloss.Color("#6B7280") // gray-500 - secondary text

	// Text colors
	TextPrimary   = lipgloss.Color("#F9FAFB") // gray-50 - main text
	TextSecondary = lipgloss.Color("#9CA3AF") // gray-400 - descriptions

	// Background colors
	BgHighlight = lipgloss.Color("#1F2937") // gray-800 - selected rows
	BgActive    = lipgloss.Color("#4C1D95") // violet-900 - active cell
	BgBorder    = lipgloss.Color("#374151") // gray-700 - borders
)

// Semantic color aliases for clarity
var (
	ColorID         = Info    // row uids, view ids
	ColorSystemView = Success // built-in views
	ColorCustomView = Accent  // user views
	ColorPinned     = Warning // pinned column headers
	ColorSorted     = Info    // sort indicators
	ColorFiltered   = Warning // filter indicators

	// Diff colors
	ColorDiffAdd     = Success // rows only in the second view
	ColorDiffRemove  = Error   // rows only in the first view
	ColorDiffContext = Muted   // rows in both
)
