package snippets

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed snippets.yaml
var catalog []byte

type Snippet struct {
	Name  string `yaml:"name" json:"name"`
	Title string `yaml:"title" json:"title"`
	Code  string `yaml:"code" json:"code"`
}

var load = sync.OnceValues(func() ([]Snippet, error) {
	var ret []Snippet
	if err := yaml.Unmarshal(catalog, &ret); err != nil {
		return nil, fmt.Errorf("parse snippets: %w", err)
	}
	return ret, nil
})

// All returns the teaching examples in menu order.
func All() ([]Snippet, error) {
	return load()
}

func Get(name string) (Snippet, bool) {
	all, err := load()
	if err != nil {
		return Snippet{}, false
	}
	for _, snippet := range all {
		if snippet.Name == name {
			return snippet, true
		}
	}
	return Snippet{}, false
}
