package argdef

import (
	"strings"
	"testing"
)

const testArgdef = `
[[section]]
name = "global"

  [[section.action]]
  name = "help"
  short = "h"
  help = "Print usage information."
  func = "printHelp"
  optional-args = [["command"]]

[[section]]
name = "codegen"

  [[section.action]]
  name = "output"
  short = "o"
  help = "Generate the output file."
  func = "output"
  args = [["exe-file", "obj-file"]]
  optional-args = [["extra"]]
  unbounded = true
  runafter = ["global"]
  requires = ["prepare"]

  [[section.action]]
  name = "prepare"
  func = "prepare"
  implicit = true
  help = "ignored"
`

func loadTable(t *testing.T) ([]*Action, []string) {
	t.Helper()

	table, warnings, err := Load([]byte(testArgdef))
	if err != nil {
		t.Fatalf("load failed: %s", err)
	}

	return table, warnings
}

func TestTableConstruction(t *testing.T) {
	table, warnings := loadTable(t)

	if len(table) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(table))
	}

	help := table[0]
	if help.Name != "help" || help.SectionName != "global" || help.LongOption != "help" || help.ShortOption != "h" {
		t.Error("help action was not resolved correctly")
	}
	if help.ArgDoc != "[command]" {
		t.Errorf("expected [command], got %q", help.ArgDoc)
	}
	if help.ArgRange != (ArgRange{Low: 0, High: 1}) {
		t.Errorf("unexpected arg range %+v", help.ArgRange)
	}

	output := table[1]
	if output.ArgDoc != "<exe-file|obj-file> [extra...]" {
		t.Errorf("unexpected arg doc %q", output.ArgDoc)
	}
	if output.ArgRange.Low != 1 || output.ArgRange.High != UnboundedArgs {
		t.Errorf("unexpected arg range %+v", output.ArgRange)
	}

	// runafter = ["global"] resolves to every action in the global section.
	if len(output.RunAfter) != 1 || output.RunAfter[0] != 0 {
		t.Errorf("unexpected runafter resolution %v", output.RunAfter)
	}
	if len(output.Requires) != 1 || output.Requires[0] != 2 {
		t.Errorf("unexpected requires resolution %v", output.Requires)
	}

	prepare := table[2]
	if !prepare.IsImplicit || prepare.LongOption != "" || prepare.Help != "" {
		t.Error("implicit action was not resolved correctly")
	}

	// The implicit action carries an ignored help attribute.
	if len(warnings) != 1 || !strings.Contains(warnings[0], "help attribute") {
		t.Errorf("expected an ignored-help warning, got %v", warnings)
	}
}

func TestInvalidTables(t *testing.T) {
	cases := []struct {
		name   string
		argdef string
		want   string
	}{
		{
			"duplicate action",
			`
[[section]]
name = "a"
  [[section.action]]
  name = "x"
  help = "x"
  func = "x"
  [[section.action]]
  name = "x"
  help = "x"
  func = "x"
`,
			"duplicate action name",
		},
		{
			"action shadows section",
			`
[[section]]
name = "a"
  [[section.action]]
  name = "a"
  help = "a"
  func = "a"
`,
			"same name as a section",
		},
		{
			"undefined dependency",
			`
[[section]]
name = "a"
  [[section.action]]
  name = "x"
  help = "x"
  func = "x"
  runafter = ["nothere"]
`,
			"undefined action or section",
		},
		{
			"explicit action without help",
			`
[[section]]
name = "a"
  [[section.action]]
  name = "x"
  func = "x"
`,
			"no help attribute",
		},
		{
			"action without handler",
			`
[[section]]
name = "a"
  [[section.action]]
  name = "x"
  help = "x"
`,
			"no func attribute",
		},
	}

	for _, c := range cases {
		_, _, err := Load([]byte(c.argdef))
		if err == nil || !strings.Contains(err.Error(), c.want) {
			t.Errorf("%s: expected error containing %q, got %v", c.name, c.want, err)
		}
	}
}

func TestExecuteOrdering(t *testing.T) {
	table, _ := loadTable(t)

	registry := NewRegistry()
	var ran []string
	for _, name := range []string{"printHelp", "output", "prepare"} {
		handler := name
		registry.Register(handler, func(args []string) bool {
			ran = append(ran, handler)
			return true
		})
	}

	// Invoking output alone pulls in its required action and runs it first;
	// help is not invoked and is not run.
	err := Execute(table, registry, []Invocation{{Action: 1, Args: []string{"out.exe"}}})
	if err != nil {
		t.Fatalf("execution failed: %s", err)
	}

	if len(ran) != 2 || ran[0] != "prepare" || ran[1] != "output" {
		t.Errorf("unexpected execution order %v", ran)
	}
}

func TestExecuteArgCounts(t *testing.T) {
	table, _ := loadTable(t)
	registry := NewRegistry()
	registry.Register("printHelp", func(args []string) bool { return true })

	// help takes at most one argument.
	err := Execute(table, registry, []Invocation{{Action: 0, Args: []string{"a", "b"}}})
	if err == nil || !strings.Contains(err.Error(), "at most") {
		t.Errorf("expected an argument count error, got %v", err)
	}

	// output requires at least one argument.
	err = Execute(table, registry, []Invocation{{Action: 1}})
	if err == nil || !strings.Contains(err.Error(), "at least") {
		t.Errorf("expected an argument count error, got %v", err)
	}
}
