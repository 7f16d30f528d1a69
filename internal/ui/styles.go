package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}
	purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}
	green  = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
	red    = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	muted  = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
)

type Styles struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Section   lipgloss.Style
	Session   lipgloss.Style
	Button    lipgloss.Style
	Disabled  lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	UserLabel lipgloss.Style
	UserText  lipgloss.Style
	BotLabel  lipgloss.Style
	Muted     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		Subtitle:  lipgloss.NewStyle().Foreground(muted),
		Section:   lipgloss.NewStyle().Bold(true).Foreground(purple),
		Session:   lipgloss.NewStyle().Foreground(muted).Italic(true),
		Button:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		Disabled:  lipgloss.NewStyle().Foreground(muted),
		Success:   lipgloss.NewStyle().Foreground(green),
		Error:     lipgloss.NewStyle().Foreground(red),
		UserLabel: lipgloss.NewStyle().Bold(true).Foreground(accent),
		UserText:  lipgloss.NewStyle().PaddingLeft(2),
		BotLabel:  lipgloss.NewStyle().Bold(true).Foreground(purple),
		Muted:     lipgloss.NewStyle().Foreground(muted),
	}
}
