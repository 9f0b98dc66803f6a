package cmds

import (
	"fmt"
	"io/ioutil"

	"github.com/pelletier/go-toml"
)

// tomlCatalogue represents a command catalogue file as it is encoded in TOML.
// A catalogue file declares one or more plugins, each with the commands it
// exports.
type tomlCatalogue struct {
	Plugins []*tomlPlugin `toml:"plugin"`
}

// tomlPlugin represents a plugin as it is encoded in TOML.
type tomlPlugin struct {
	Name     string         `toml:"name"`
	Path     string         `toml:"path"`
	Commands []*tomlCommand `toml:"command"`
}

// tomlCommand represents a command overload as it is encoded in TOML.  The
// `ret` and `args` fields use the single-character command type alphabet.
type tomlCommand struct {
	Name     string   `toml:"name"`
	Symbol   string   `toml:"symbol"`
	Ret      string   `toml:"ret"`
	Args     []string `toml:"args,omitempty"`
	ArgNames []string `toml:"arg-names,omitempty"`
}

// LoadCatalogue loads a TOML command catalogue file and registers all the
// commands it declares into the index.  It returns the plugins declared by the
// file in declaration order.
func LoadCatalogue(idx *Index, path string) ([]*Plugin, error) {
	buff, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	catalogue := &tomlCatalogue{}
	if err := toml.Unmarshal(buff, catalogue); err != nil {
		return nil, fmt.Errorf("%s: %s", path, err)
	}

	var plugins []*Plugin
	for _, tp := range catalogue.Plugins {
		plugin, err := registerPlugin(idx, tp)
		if err != nil {
			return nil, fmt.Errorf("%s: %s", path, err)
		}

		plugins = append(plugins, plugin)
	}

	return plugins, nil
}

// registerPlugin converts a deserialized plugin and registers its commands.
func registerPlugin(idx *Index, tp *tomlPlugin) (*Plugin, error) {
	if tp.Name == "" {
		return nil, fmt.Errorf("plugin missing a name")
	}

	plugin := &Plugin{Name: tp.Name, Path: tp.Path}
	if plugin.Path == "" {
		plugin.Path = plugin.Name + ".dll"
	}

	for _, tc := range tp.Commands {
		if tc.Name == "" || tc.Symbol == "" {
			return nil, fmt.Errorf("plugin `%s`: command missing a name or symbol", tp.Name)
		}

		ret, err := parseTypeCode(tc.Ret)
		if err != nil {
			return nil, fmt.Errorf("plugin `%s`: command `%s`: %s", tp.Name, tc.Name, err)
		}

		args := make([]Argument, len(tc.Args))
		for i, ta := range tc.Args {
			code, err := parseTypeCode(ta)
			if err != nil {
				return nil, fmt.Errorf("plugin `%s`: command `%s`: %s", tp.Name, tc.Name, err)
			}

			args[i] = Argument{Type: code}
			if i < len(tc.ArgNames) {
				args[i].Name = tc.ArgNames[i]
			}
		}

		idx.Add(&Command{
			DBSymbol:   tc.Name,
			Plugin:     plugin,
			Symbol:     tc.Symbol,
			Args:       args,
			ReturnType: ret,
		})
	}

	return plugin, nil
}

// parseTypeCode validates a single-character type code string.
func parseTypeCode(s string) (TypeCode, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("invalid type code `%s`", s)
	}

	code := TypeCode(s[0])
	switch code {
	case CodeInteger, CodeFloat, CodeString, CodeDouble, CodeLong, CodeDword, CodeVoid, CodeX, CodeA:
		return code, nil
	}

	return 0, fmt.Errorf("invalid type code `%s`", s)
}
