package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

const (
	accent  = lipgloss.Color("#E50914")
	success = lipgloss.Color("#04B575")
	danger  = lipgloss.Color("#FF5F5F")
	caution = lipgloss.Color("#FFA500")
	muted   = lipgloss.Color("#626262")
)

var styles = newTheme()

// theme groups the styles shared by every view.
type theme struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	frame lipgloss.Style
}

func newTheme() theme {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	return theme{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(accent).Padding(0, 1).MarginBottom(1),
		ok:    fg(success).Bold(true),
		err:   fg(danger).Bold(true),
		warn:  fg(caution),
		help:  fg(muted).Italic(true),
		frame: lipgloss.NewStyle().Padding(1, 2),
	}
}

// itemDelegate renders list rows with the accent color on the selected row.
func itemDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(accent).BorderLeftForeground(accent)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.Foreground(accent).BorderLeftForeground(accent)
	return d
}
