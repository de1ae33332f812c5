package transcripts

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorTitle  = lipgloss.Color("#C678DD")
	colorStep   = lipgloss.Color("#61AFEF")
	colorChange = lipgloss.Color("#98C379")
	colorMuted  = lipgloss.Color("#828997")
	colorNotice = lipgloss.Color("#E5C07B")
	colorError  = lipgloss.Color("#E06C75")
)

// Styler renders blocks for a color terminal.
type Styler struct {
	styles map[Kind]lipgloss.Style
}

func NewStyler() Styler {
	return Styler{
		styles: map[Kind]lipgloss.Style{
			Title:   lipgloss.NewStyle().Foreground(colorTitle).Bold(true),
			Intro:   lipgloss.NewStyle().Italic(true),
			Step:    lipgloss.NewStyle().Foreground(colorStep),
			After:   lipgloss.NewStyle().Bold(true),
			Change:  lipgloss.NewStyle().Foreground(colorChange),
			Context: lipgloss.NewStyle().Foreground(colorMuted),
			Notice:  lipgloss.NewStyle().Foreground(colorNotice),
			Error:   lipgloss.NewStyle().Foreground(colorError),
		},
	}
}

func (s Styler) Render(b Block) string {
	var sb strings.Builder
	for _, line := range b.Lines {
		text := Plain(line)
		style, ok := s.styles[line.Kind]
		if ok {
			// style each physical line so leading blank lines stay unstyled
			parts := strings.Split(text, "\n")
			for i, part := range parts {
				if part != "" {
					parts[i] = style.Render(part)
				}
			}
			text = strings.Join(parts, "\n")
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String()
}
