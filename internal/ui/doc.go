// Package ui holds the terminal styles shared by the CLI and the text formatter.
//
// Output written to a non-terminal is left unstyled by lipgloss, so piping `top` output stays plain.
package ui
