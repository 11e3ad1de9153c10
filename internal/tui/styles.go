package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
const (
	ColorHeader    = lipgloss.Color("39")
	ColorMuted     = lipgloss.Color("245")
	ColorFixed     = lipgloss.Color("236")
	ColorHover     = lipgloss.Color("238")
	ColorSelectedF = lipgloss.Color("229")
	ColorSelectedB = lipgloss.Color("57")
	ColorError     = lipgloss.Color("196")
	ColorResize    = lipgloss.Color("214")
)

//nolint:gochecknoglobals // Shared immutable styles.
var (
	headerStyle   = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	resizeStyle   = lipgloss.NewStyle().Foreground(ColorResize).Bold(true)
	fixedStyle    = lipgloss.NewStyle().Background(ColorFixed)
	hoverStyle    = lipgloss.NewStyle().Background(ColorHover)
	selectedStyle = lipgloss.NewStyle().Foreground(ColorSelectedF).Background(ColorSelectedB)
	mutedStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	statusStyle   = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	errorStyle    = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
)
