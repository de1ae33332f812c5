package tutorconfigs

import (
	"slices"

	"github.com/reusee/tutor/configs"
	"github.com/reusee/tutor/logs"
	"github.com/reusee/tutor/snippets"
)

// Examples are the built-in snippets followed by those listed under
// "examples" in config files. The first snippet with a name wins.
type Examples []snippets.Snippet

func (Module) Examples(
	loader configs.Loader,
	logger logs.Logger,
) Examples {
	builtin, err := snippets.All()
	if err != nil {
		panic(err)
	}
	ret := Examples(slices.Clone(builtin))
	for set := range configs.All[[]snippets.Snippet](loader, "examples") {
		for _, snippet := range set {
			if _, ok := ret.Get(snippet.Name); ok {
				logger.Warn("duplicated example", "name", snippet.Name)
				continue
			}
			if snippet.Title == "" {
				snippet.Title = snippet.Name
			}
			ret = append(ret, snippet)
		}
	}
	return ret
}

func (e Examples) Get(name string) (snippets.Snippet, bool) {
	for _, snippet := range e {
		if snippet.Name == name {
			return snippet, true
		}
	}
	return snippets.Snippet{}, false
}
