package lipgloss

import "github.com/charmbracelet/lipgloss"

var (
	Red    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	Green  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F"))
	Yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD75F"))
	Info   = lipgloss.NewStyle().Foreground(lipgloss.Color("#87D7FF")).Bold(true)

	// BoxStyle frames summaries such as file info blocks.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5FAFFF")).
			Padding(0, 1)
)
