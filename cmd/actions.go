package cmd

import "dbpc/argdef"

// argdefSource is the compiler's argument definition: the declarative
// description of every CLI action, its handler, and its dependencies.  The
// action table built from it drives execution order: loading actions run
// before parsing, parsing before conversion, and conversion and the
// configuration actions before output.
const argdefSource = `
[[section]]
name = "commands"

  [[section.action]]
  name = "load-commands"
  short = "c"
  help = "Load a command catalogue file into the command index."
  func = "loadCommands"
  args = [["catalogue"]]

  [[section.action]]
  name = "dump-commands"
  help = "List every loaded command overload."
  func = "dumpCommands"
  runafter = ["load-commands"]

[[section]]
name = "frontend"

  [[section.action]]
  name = "parse-dba"
  help = "Parse a DarkBASIC source file."
  func = "parseDBA"
  args = [["source"]]
  runafter = ["commands"]

[[section]]
name = "codegen"

  [[section.action]]
  name = "set-output-type"
  short = "m"
  help = "Set the kind of output to produce."
  func = "setOutputType"
  args = [["llvm-ir", "llvm-bc", "obj", "exe"]]

  [[section.action]]
  name = "set-target"
  help = "Set the target architecture and platform."
  func = "setTarget"
  args = [["arch"], ["platform"]]

  [[section.action]]
  name = "check-semantics"
  func = "checkSemantics"
  implicit = true
  runafter = ["frontend"]

  [[section.action]]
  name = "output"
  short = "o"
  help = "Generate the output file."
  func = "output"
  args = [["file"]]
  requires = ["check-semantics"]
  runafter = ["check-semantics", "set-output-type", "set-target", "dump-commands"]
`

// buildActionTable builds the action table and binds every handler to the
// given compiler state.
func buildActionTable(c *Compiler) ([]*argdef.Action, []string, *argdef.Registry, error) {
	table, warnings, err := argdef.Load([]byte(argdefSource))
	if err != nil {
		return nil, nil, nil, err
	}

	registry := argdef.NewRegistry()
	registry.Register("loadCommands", func(args []string) bool { return c.LoadCommands(args[0]) })
	registry.Register("dumpCommands", func(args []string) bool { return c.DumpCommands() })
	registry.Register("parseDBA", func(args []string) bool { return c.ParseSource(args[0]) })
	registry.Register("setOutputType", func(args []string) bool { return c.SetOutputType(args[0]) })
	registry.Register("setTarget", func(args []string) bool { return c.SetTarget(args[0], args[1]) })
	registry.Register("checkSemantics", func(args []string) bool { return c.CheckSemantics() })
	registry.Register("output", func(args []string) bool { return c.Output(args[0]) })

	return table, warnings, registry, nil
}

// actionIndex finds an action in the table by name.
func actionIndex(table []*argdef.Action, name string) int {
	for i, action := range table {
		if action.Name == name {
			return i
		}
	}

	return -1
}
