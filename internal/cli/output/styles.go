package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles shared by CLI rendering.
type Styles struct {
	Header    lipgloss.Style
	Subheader lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
}

// NewStyles returns the default style set.
func NewStyles() *Styles {
	return &Styles{
		Header:    lipgloss.NewStyle().Bold(true),
		Subheader: lipgloss.NewStyle().Bold(true).Faint(true),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Muted:     lipgloss.NewStyle().Faint(true),
	}
}

// Styles exposes the renderer's style set for callers that need to
// style values inline before handing them to Table.
func (r *Renderer) Styles() *Styles {
	return r.styles
}
