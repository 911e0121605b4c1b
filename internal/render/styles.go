package render

import "github.com/charmbracelet/lipgloss"

var (
	colorGreen  = lipgloss.Color("42")
	colorRed    = lipgloss.Color("196")
	colorYellow = lipgloss.Color("214")
	colorBlue   = lipgloss.Color("39")
	colorPurple = lipgloss.Color("135")
	colorDim    = lipgloss.Color("240")
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorBlue)

var countBadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("0")).
	Background(colorGreen).
	Padding(0, 1)

var scenarioStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorPurple).
	MarginTop(1)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(colorBlue).
			PaddingLeft(1).
			MarginTop(1)

	idBadgeStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	titleStyle = lipgloss.NewStyle().
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	passStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	failStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

// Story priorities and statuses as the tracker names them.
var priorityColors = map[string]lipgloss.Color{
	"Highest": colorRed,
	"High":    colorYellow,
	"Medium":  colorBlue,
	"Low":     colorGreen,
	"Lowest":  colorDim,
}

var statusColors = map[string]lipgloss.Color{
	"To Do":       colorDim,
	"In Progress": colorBlue,
	"Done":        colorGreen,
	"Blocked":     colorRed,
}
