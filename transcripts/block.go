package transcripts

import "strings"

// Block is the ordered output of one action, appended to a scrollback as a unit.
type Block struct {
	Lines []Line
}

func (b *Block) Add(kind Kind, text string) {
	b.Lines = append(b.Lines, Line{
		Kind: kind,
		Text: text,
	})
}

func (b *Block) Blank() {
	b.Add(Blank, "")
}

func (b *Block) Append(lines ...Line) {
	b.Lines = append(b.Lines, lines...)
}

func (b Block) Len() int {
	return len(b.Lines)
}

// String renders the block as plain text.
func (b Block) String() string {
	var sb strings.Builder
	for _, line := range b.Lines {
		sb.WriteString(Plain(line))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Plain renders a single line without styling. The result has no trailing
// newline, but may contain inner ones.
func Plain(line Line) string {
	switch line.Kind {
	case Step:
		return "\n" + line.Text
	case After:
		return "  " + line.Text
	case Change:
		return "    • " + line.Text
	case Context:
		return "  Here we have: " + line.Text
	case Output, Error:
		return strings.TrimRight(line.Text, "\n")
	}
	return line.Text
}
