package cmds

import (
	"fmt"
	"strings"
)

// Index is the registry of all commands exposed by the loaded plugins.  The
// parser uses it to recognise command names; the semantic converter uses it to
// resolve command calls to overloads.  The index must be treated as immutable
// during a conversion run.
type Index struct {
	// commands is every registered overload in insertion order.
	commands []*Command

	// lookupTable maps a command's display name to its overloads.  Matching is
	// case-sensitive at this layer: the parser supplies the exact keyed name
	// it recognised.
	lookupTable map[string][]*Command
}

// NewIndex creates a new empty command index.
func NewIndex() *Index {
	return &Index{lookupTable: make(map[string][]*Command)}
}

// Add appends a command overload to the index.  Conflicts are not detected
// eagerly: call FindConflicts once all plugins are loaded.
func (idx *Index) Add(command *Command) {
	idx.commands = append(idx.commands, command)
	idx.lookupTable[command.DBSymbol] = append(idx.lookupTable[command.DBSymbol], command)
}

// Lookup returns every overload whose display name equals the given name
// exactly, in insertion order.
func (idx *Index) Lookup(name string) []*Command {
	return idx.lookupTable[name]
}

// Commands returns all registered overloads in insertion order.
func (idx *Index) Commands() []*Command {
	return idx.commands
}

// CommandNames returns the display names of all registered overloads in
// insertion order.
func (idx *Index) CommandNames() []string {
	names := make([]string, len(idx.commands))
	for i, c := range idx.commands {
		names[i] = c.DBSymbol
	}
	return names
}

// Libraries returns the defining library file of each registered overload in
// insertion order.
func (idx *Index) Libraries() []string {
	libs := make([]string, len(idx.commands))
	for i, c := range idx.commands {
		libs[i] = c.Plugin.Path
	}
	return libs
}

// -----------------------------------------------------------------------------

// ConflictError reports two overloads which share a lowercased name, argument
// type vector, and return type.  Command is the later-registered overload;
// Previous is the one it collides with.
type ConflictError struct {
	Command  *Command
	Previous *Command
}

func (ce *ConflictError) Error() string {
	return fmt.Sprintf(
		"command `%s %s` redefined in library `%s` (first declared in library `%s`)",
		ce.Command.DBSymbol, ce.Command.TypeInfo(), ce.Command.Plugin.Path, ce.Previous.Plugin.Path,
	)
}

// FindConflicts scans the index for overload collisions: two overloads with
// the same lowercased name, identical argument type vectors, and identical
// return types.  The first conflict found is returned; the scan is performed
// in insertion order so the earlier-registered overload is always cited as the
// previous declaration.  A nil return means the index is conflict-free.
func (idx *Index) FindConflicts() *ConflictError {
	byKey := make(map[string][]*Command)

	for _, cmd := range idx.commands {
		key := strings.ToLower(cmd.DBSymbol)

		for _, overload := range byKey[key] {
			if overloadsCollide(cmd, overload) {
				return &ConflictError{Command: cmd, Previous: overload}
			}
		}

		byKey[key] = append(byKey[key], cmd)
	}

	return nil
}

// overloadsCollide returns whether two overloads of the same command are
// indistinguishable: identical argument type vectors and return types.
func overloadsCollide(a, b *Command) bool {
	if len(a.Args) != len(b.Args) {
		return false
	}

	for i, arg := range a.Args {
		if arg.Type != b.Args[i].Type {
			return false
		}
	}

	return a.ReturnType == b.ReturnType
}
