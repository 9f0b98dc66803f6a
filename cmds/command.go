package cmds

import "dbpc/types"

// TypeCode is a single-character type tag drawn from the command type
// alphabet used by engine keyword tables.  It is a superset of the builtin
// type alphabet: the `X` and `A` markers tag variadic/any arguments which are
// internal to the engine and cannot be resolved at a call site.
type TypeCode byte

// Enumeration of the command type alphabet.
const (
	CodeInteger TypeCode = 'L'
	CodeFloat   TypeCode = 'F'
	CodeString  TypeCode = 'S'
	CodeDouble  TypeCode = 'O'
	CodeLong    TypeCode = 'R'
	CodeDword   TypeCode = 'D'
	CodeVoid    TypeCode = '0'
	CodeX       TypeCode = 'X'
	CodeA       TypeCode = 'A'
)

// DataType maps the type code to the data type it denotes.  The second return
// value is false for the internal `X` and `A` markers and for unknown codes:
// they denote no data type.  The void code maps to the nil (void) type.
func (tc TypeCode) DataType() (types.Type, bool) {
	switch tc {
	case CodeInteger:
		return types.Integer, true
	case CodeFloat:
		return types.Float, true
	case CodeString:
		return types.String, true
	case CodeDouble:
		return types.DoubleFloat, true
	case CodeLong:
		return types.DoubleInteger, true
	case CodeDword:
		return types.Dword, true
	case CodeVoid:
		return nil, true
	}

	return nil, false
}

// -----------------------------------------------------------------------------

// Plugin represents an engine plugin library that defines commands.
type Plugin struct {
	// The plugin's name, eg. `DBProCore`.
	Name string

	// The path to the plugin's library file.
	Path string
}

// Argument is a single declared argument of a command overload.
type Argument struct {
	// The argument's descriptive name.  May be empty: argument names are
	// documentation only.
	Name string

	// The argument's type code.
	Type TypeCode
}

// Command is a single overload of an engine command.  Overloads of the same
// command share a display name but form distinct Command entries in the index.
type Command struct {
	// DBSymbol is the command's display name as written in DarkBASIC source.
	// It may contain spaces and may end in a type annotation sigil.
	DBSymbol string

	// The plugin library defining this overload.
	Plugin *Plugin

	// The callable symbol within the plugin library.
	Symbol string

	// The overload's declared arguments in order.
	Args []Argument

	// The overload's return type code.
	ReturnType TypeCode
}

// TypeInfo renders the overload's signature in type-code form, eg. `L(SF)`.
// It is used in conflict diagnostics.
func (c *Command) TypeInfo() string {
	info := make([]byte, 0, len(c.Args)+3)
	info = append(info, byte(c.ReturnType), '(')
	for _, arg := range c.Args {
		info = append(info, byte(arg.Type))
	}
	return string(append(info, ')'))
}
