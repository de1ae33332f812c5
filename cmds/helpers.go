package cmds

// Var defines the word name taking one argument that sets the returned value,
// and the word "name." resetting it to zero. desc, if any, documents the word.
func Var[T any](name string, desc ...string) *T {
	var value T

	Define(name, describe(Func(func(v T) {
		value = v
	}), desc))

	var zero T
	Define(name+".", Func(func() {
		value = zero
	}).Hide())

	return &value
}

// Switch defines the word name turning the returned value on, and "!name"
// turning it off.
func Switch(name string, desc ...string) *bool {
	var value bool

	Define(name, describe(Func(func() {
		value = true
	}), desc))

	Define("!"+name, Func(func() {
		value = false
	}).Hide())

	return &value
}

// Collect defines the word name appending its argument to the returned slice.
func Collect[T any](name string, desc ...string) *[]T {
	var value []T
	Define(name, describe(Func(func(v T) {
		value = append(value, v)
	}), desc))
	return &value
}

func describe(command *Command, desc []string) *Command {
	if len(desc) > 0 {
		command.Description = desc[0]
	}
	return command
}
