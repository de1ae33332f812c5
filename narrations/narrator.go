package narrations

import (
	"fmt"
	"slices"
	"strings"

	"github.com/reusee/tutor/traces"
	"github.com/reusee/tutor/transcripts"
	"github.com/samber/lo"
)

const (
	Intro = "We are going to walk through your code one step at a time."

	DefaultMaxChanges = 3
	DefaultMaxContext = 2
)

// functionPrefix marks display strings of callables, which are never narrated.
const functionPrefix = "<function"

type Narration struct {
	Lines []transcripts.Line
	// Steps is the number of narrated steps.
	Steps int
}

type Narrator struct {
	MaxChanges int
	MaxContext int
}

// Narrate describes steps for a beginner. It is a pure function of its
// arguments. final is the environment after the last step.
func (n Narrator) Narrate(steps []traces.Step, final traces.Snapshot) (ret Narration) {
	if len(steps) == 0 {
		return
	}
	maxChanges := n.MaxChanges
	if maxChanges <= 0 {
		maxChanges = DefaultMaxChanges
	}
	maxContext := n.MaxContext
	if maxContext <= 0 {
		maxContext = DefaultMaxContext
	}

	add := func(kind transcripts.Kind, text string) {
		ret.Lines = append(ret.Lines, transcripts.Line{
			Kind: kind,
			Text: text,
		})
	}

	add(transcripts.Intro, Intro)

	seenLoops := make(map[int]bool)
	for i, step := range steps {
		after := final
		if i+1 < len(steps) {
			after = steps[i+1].Locals
		}

		stripped := strings.TrimLeft(step.Text, " \t")
		var header string
		switch {
		case strings.HasPrefix(stripped, "for "):
			if seenLoops[step.Line] {
				continue
			}
			seenLoops[step.Line] = true
			header = "Step %d: We set up a loop:\n    %s\nThis means we will repeat the indented lines for each value."
		case strings.HasPrefix(stripped, "while "):
			if seenLoops[step.Line] {
				continue
			}
			seenLoops[step.Line] = true
			header = "Step %d: We set up a while-loop:\n    %s\nThis means we will keep repeating while the condition is True."
		default:
			header = "Step %d: We run this line:\n    %s"
		}
		ret.Steps++
		add(transcripts.Step, fmt.Sprintf(header, ret.Steps, step.Text))

		changes, context := diff(step.Locals, after)
		if len(changes) > 0 {
			add(transcripts.After, "After this step:")
			for _, text := range changes[:min(len(changes), maxChanges)] {
				add(transcripts.Change, text)
			}
		} else {
			for _, text := range context[:min(len(context), maxContext)] {
				add(transcripts.Context, text)
			}
		}
	}

	return
}

// diff compares two snapshots in sorted name order.
func diff(before, after traces.Snapshot) (changes []string, context []string) {
	names := lo.Union(lo.Keys(before), lo.Keys(after))
	slices.Sort(names)

	for _, name := range names {
		beforeValue, hadBefore := before[name]
		afterValue, hasAfter := after[name]
		if strings.HasPrefix(beforeValue, functionPrefix) ||
			strings.HasPrefix(afterValue, functionPrefix) {
			continue
		}

		switch {
		case !hadBefore:
			changes = append(changes, fmt.Sprintf("%s is now %s", name, afterValue))
		case !hasAfter:
			changes = append(changes, fmt.Sprintf("%s used to be %s here", name, beforeValue))
		case beforeValue != afterValue:
			changes = append(changes, fmt.Sprintf("%s goes from %s to %s", name, beforeValue, afterValue))
		default:
			context = append(context, fmt.Sprintf("%s is %s", name, afterValue))
		}
	}

	return
}
