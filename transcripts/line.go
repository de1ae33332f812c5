package transcripts

type Kind uint8

const (
	Blank Kind = iota
	Title
	Intro
	Step
	After
	Change
	Context
	Output
	Notice
	Error
)

var kindNames = [...]string{
	Blank:   "blank",
	Title:   "title",
	Intro:   "intro",
	Step:    "step",
	After:   "after",
	Change:  "change",
	Context: "context",
	Output:  "output",
	Notice:  "notice",
	Error:   "error",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Line is one display line. Text carries no indentation or bullet; those are
// added when rendering, according to Kind. Step texts may span several lines.
type Line struct {
	Kind Kind
	Text string
}
