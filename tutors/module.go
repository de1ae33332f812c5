package tutors

import (
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/tutor/logs"
	"github.com/reusee/tutor/narrations"
	"github.com/reusee/tutor/traces"
	"github.com/reusee/tutor/tutorconfigs"
	"github.com/reusee/tutor/tutorvm"
)

type Module struct {
	dscope.Module
	Logs    logs.Module
	Configs tutorconfigs.Module
}

func (Module) Tracer(
	maxSteps tutorconfigs.MaxSteps,
	width tutorconfigs.MaxValueWidth,
	depth tutorconfigs.MaxCallDepth,
) traces.Tracer {
	return traces.Tracer{
		MaxSteps:      int(maxSteps),
		MaxValueWidth: int(width),
		MaxDepth:      int(depth),
	}
}

func (Module) Narrator(
	changes tutorconfigs.MaxChanges,
	context tutorconfigs.MaxContext,
) narrations.Narrator {
	return narrations.Narrator{
		MaxChanges: int(changes),
		MaxContext: int(context),
	}
}

type Clock func() time.Time

func (Module) Clock() Clock {
	return time.Now
}

func (Module) Tutor(
	tracer traces.Tracer,
	narrator narrations.Narrator,
	depth tutorconfigs.MaxCallDepth,
	clock Clock,
	logger logs.Logger,
	newSpan logs.NewSpan,
) *Tutor {
	return &Tutor{
		env:      tutorvm.NewEnv(),
		tracer:   tracer,
		narrator: narrator,
		maxDepth: int(depth),
		clock:    clock,
		logger:   logger,
		newSpan:  newSpan,
	}
}
