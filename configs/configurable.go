package configs

// Configurable is implemented by setting types that know their path in the
// config files.
type Configurable interface {
	ConfigPath() string
}

// Get looks up the first value of T at its own config path.
func Get[T Configurable](loader Loader) T {
	var zero T
	return First[T](loader, zero.ConfigPath())
}
