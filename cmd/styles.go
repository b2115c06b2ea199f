package cmd

import "github.com/charmbracelet/lipgloss"

const (
	colorBlue  = lipgloss.Color("12")
	colorGreen = lipgloss.Color("10")
	colorRed   = lipgloss.Color("9")
	colorGray  = lipgloss.Color("8")
)

var (
	successStyle = lipgloss.NewStyle().Foreground(colorGreen)
	infoStyle    = lipgloss.NewStyle().Foreground(colorBlue)
	dimStyle     = lipgloss.NewStyle().Foreground(colorGray)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
)
