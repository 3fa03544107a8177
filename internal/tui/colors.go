package tui

import "github.com/balkashynov/focuslens/internal/models"

// Color constants for the focuslens TUI theme
const (
	ColorBorder = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"
	ColorPlaceholder   = "#6D7383"
	ColorHelpText      = "240" // Dark grey for help text

	// Accent Colors
	ColorAccentMain   = "#FF9B42" // Clock digits, active borders
	ColorAccentBright = "#FFE8A3" // Current field, highlights

	// Category Colors
	ColorWork     = "#7CD8FF"
	ColorLearning = "#9BE7B3"

	// State Colors
	ColorError   = "#EF4444" // Validation errors
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B" // Overdue
)

// categoryColor is the badge color of a project category
func categoryColor(c models.ProjectCategory) string {
	if c == models.CategoryLearning {
		return ColorLearning
	}
	return ColorWork
}
