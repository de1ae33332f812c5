package tutorconfigs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/reusee/tutor/configs"
	"github.com/reusee/tutor/logs"
	"github.com/reusee/tutor/modes"
)

//go:embed schema.cue
var schema string

var filenames = []string{
	"tutor.cue",
	".tutor.cue",
}

// ConfigsLoader searches the working directory, then the user config
// directory, then /etc. Earlier files take precedence. Tests get no files.
func (Module) ConfigsLoader(
	logger logs.Logger,
	mode modes.Mode,
) configs.Loader {
	if mode == modes.ModeDevelopment {
		return configs.NewLoader(nil, schema)
	}

	var dirs []string
	if dir, err := os.Getwd(); err == nil {
		dirs = append(dirs, dir)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, dir)
	}
	dirs = append(dirs, "/etc")

	paths := findConfigFiles(dirs)
	if len(paths) > 0 {
		logger.Info("config file",
			"paths", paths,
		)
	}

	return configs.NewLoader(paths, schema)
}

func findConfigFiles(dirs []string) (paths []string) {
	for _, dir := range dirs {
		for _, filename := range filenames {
			path := filepath.Join(dir, filename)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
	}
	return
}
