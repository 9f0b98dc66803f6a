package argdef

import (
	"fmt"
	"io/ioutil"

	"github.com/pelletier/go-toml"
)

// tomlArgdefFile represents an argument-definition file as it is encoded in
// TOML.
type tomlArgdefFile struct {
	Sections []*tomlSection `toml:"section"`
}

// tomlSection represents a section of actions as it is encoded in TOML.
type tomlSection struct {
	Name    string        `toml:"name"`
	Actions []*tomlAction `toml:"action"`
}

// tomlAction represents an action as it is encoded in TOML.
type tomlAction struct {
	Name         string     `toml:"name"`
	Short        string     `toml:"short,omitempty"`
	Help         string     `toml:"help,omitempty"`
	Func         string     `toml:"func"`
	Args         [][]string `toml:"args,omitempty"`
	OptionalArgs [][]string `toml:"optional-args,omitempty"`
	Unbounded    bool       `toml:"unbounded,omitempty"`
	Implicit     bool       `toml:"implicit,omitempty"`
	Meta         bool       `toml:"meta,omitempty"`
	RunAfter     []string   `toml:"runafter,omitempty"`
	Requires     []string   `toml:"requires,omitempty"`
	MetaDeps     []string   `toml:"metadeps,omitempty"`
}

// LoadFile loads an argument-definition file and builds its action table.
func LoadFile(path string) ([]*Action, []string, error) {
	buff, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	return Load(buff)
}

// Load builds an action table from the TOML encoding of an argument
// definition.
func Load(buff []byte) ([]*Action, []string, error) {
	file := &tomlArgdefFile{}
	if err := toml.Unmarshal(buff, file); err != nil {
		return nil, nil, err
	}

	sections := make([]*sourceSection, len(file.Sections))
	for i, ts := range file.Sections {
		if ts.Name == "" {
			return nil, nil, fmt.Errorf("section %d is missing a name", i)
		}

		section := &sourceSection{Name: ts.Name}
		for _, ta := range ts.Actions {
			if ta.Name == "" {
				return nil, nil, fmt.Errorf("section `%s' contains an action with no name", ts.Name)
			}

			section.Actions = append(section.Actions, &sourceAction{
				Name:         ta.Name,
				Short:        ta.Short,
				Help:         ta.Help,
				Handler:      ta.Func,
				Args:         ta.Args,
				OptionalArgs: ta.OptionalArgs,
				Unbounded:    ta.Unbounded,
				Implicit:     ta.Implicit,
				Meta:         ta.Meta,
				RunAfter:     ta.RunAfter,
				Requires:     ta.Requires,
				MetaDeps:     ta.MetaDeps,
			})
		}

		sections[i] = section
	}

	return buildTable(sections)
}
