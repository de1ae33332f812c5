package tutorconfigs

import (
	"github.com/reusee/tutor/cmds"
	"github.com/reusee/tutor/configs"
	"github.com/reusee/tutor/logs"
	"github.com/reusee/tutor/narrations"
	"github.com/reusee/tutor/traces"
	"github.com/reusee/tutor/tutorvm"
	"github.com/reusee/tutor/vars"
)

// MaxSteps is the step ceiling of a trace.
type MaxSteps int

var _ configs.Configurable = MaxSteps(0)

func (MaxSteps) ConfigPath() string {
	return "max_steps"
}

var maxStepsFlag = cmds.Var[int]("-max-steps")

func (Module) MaxSteps(
	loader configs.Loader,
	logger logs.Logger,
) (ret MaxSteps) {
	defer func() {
		logger.Debug("max steps", "value", int(ret))
	}()
	return vars.FirstNonZero(
		MaxSteps(vars.DerefOrZero(maxStepsFlag)),
		configs.Get[MaxSteps](loader),
		traces.DefaultMaxSteps,
	)
}

// MaxValueWidth is the widest display string kept in a snapshot.
type MaxValueWidth int

var _ configs.Configurable = MaxValueWidth(0)

func (MaxValueWidth) ConfigPath() string {
	return "max_value_width"
}

var maxValueWidthFlag = cmds.Var[int]("-max-value-width")

func (Module) MaxValueWidth(
	loader configs.Loader,
) MaxValueWidth {
	return vars.FirstNonZero(
		MaxValueWidth(vars.DerefOrZero(maxValueWidthFlag)),
		configs.Get[MaxValueWidth](loader),
		traces.DefaultMaxValueWidth,
	)
}

// MaxChanges caps the bullets under "After this step:".
type MaxChanges int

var _ configs.Configurable = MaxChanges(0)

func (MaxChanges) ConfigPath() string {
	return "max_changes"
}

var maxChangesFlag = cmds.Var[int]("-max-changes")

func (Module) MaxChanges(
	loader configs.Loader,
) MaxChanges {
	return vars.FirstNonZero(
		MaxChanges(vars.DerefOrZero(maxChangesFlag)),
		configs.Get[MaxChanges](loader),
		narrations.DefaultMaxChanges,
	)
}

// MaxContext caps the "Here we have:" lines of a step without changes.
type MaxContext int

var _ configs.Configurable = MaxContext(0)

func (MaxContext) ConfigPath() string {
	return "max_context"
}

var maxContextFlag = cmds.Var[int]("-max-context")

func (Module) MaxContext(
	loader configs.Loader,
) MaxContext {
	return vars.FirstNonZero(
		MaxContext(vars.DerefOrZero(maxContextFlag)),
		configs.Get[MaxContext](loader),
		narrations.DefaultMaxContext,
	)
}

// MaxCallDepth bounds recursion in snippets.
type MaxCallDepth int

var _ configs.Configurable = MaxCallDepth(0)

func (MaxCallDepth) ConfigPath() string {
	return "max_call_depth"
}

var maxCallDepthFlag = cmds.Var[int]("-max-call-depth")

func (Module) MaxCallDepth(
	loader configs.Loader,
) MaxCallDepth {
	return vars.FirstNonZero(
		MaxCallDepth(vars.DerefOrZero(maxCallDepthFlag)),
		configs.Get[MaxCallDepth](loader),
		tutorvm.DefaultMaxDepth,
	)
}

// ColorMode is one of "auto", "always" or "never".
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

var _ configs.Configurable = ColorMode("")

func (ColorMode) ConfigPath() string {
	return "color"
}

var colorFlag = cmds.Var[ColorMode]("-color")

func (Module) ColorMode(
	loader configs.Loader,
) ColorMode {
	return vars.FirstNonZero(
		vars.DerefOrZero(colorFlag),
		configs.Get[ColorMode](loader),
		ColorAuto,
	)
}
