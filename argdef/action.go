// Package argdef implements the argument-definition processor: it turns a
// declarative description of CLI actions into a flat table with dependencies
// resolved to table indices.
package argdef

import (
	"fmt"
	"strings"
)

// UnboundedArgs is the sentinel for an unbounded upper argument count.
const UnboundedArgs = -1

// ArgRange is the inclusive range of argument counts an action accepts.  High
// is UnboundedArgs when the action accepts arbitrarily many trailing
// arguments.
type ArgRange struct {
	Low, High int
}

// Action is a single resolved CLI action.
type Action struct {
	// The action's globally unique name.  For explicit actions this is
	// identical to the long option.
	Name string

	// The name of the section the action was declared in.
	SectionName string

	// The action's long and short options.  Implicit actions have no options.
	LongOption  string
	ShortOption string

	// The action's help text.  Empty for implicit actions.
	Help string

	// ArgDoc is the rendered argument documentation, eg. `<a|b> [c|d]`.
	ArgDoc string

	// Handler is the name of the registered handler function.
	Handler string

	// The range of argument counts the action accepts.
	ArgRange ArgRange

	// IsMeta marks actions that only exist to trigger other actions.
	IsMeta bool

	// IsImplicit marks actions that cannot be invoked from the command line:
	// they only run as dependencies of other actions.
	IsImplicit bool

	// Dependency lists, resolved to table indices.
	RunAfter []int
	Requires []int
	MetaDeps []int
}

// -----------------------------------------------------------------------------

// sourceSection is a section of action declarations prior to resolution.
type sourceSection struct {
	Name    string
	Actions []*sourceAction
}

// sourceAction is a single action declaration prior to resolution.
type sourceAction struct {
	Name         string
	Short        string
	Help         string
	Handler      string
	Args         [][]string
	OptionalArgs [][]string
	Unbounded    bool
	Implicit     bool
	Meta         bool
	RunAfter     []string
	Requires     []string
	MetaDeps     []string
}

// buildTable flattens the declared sections into an action table.  Warnings
// (ignored attributes on implicit actions) are returned alongside the table;
// any violated invariant aborts with an error.
func buildTable(sections []*sourceSection) ([]*Action, []string, error) {
	var table []*Action
	var warnings []string

	for _, section := range sections {
		for _, src := range section.Actions {
			action, warns, err := buildAction(section.Name, src)
			if err != nil {
				return nil, nil, err
			}

			warnings = append(warnings, warns...)
			table = append(table, action)
		}
	}

	if err := verifyUnique(table, sections); err != nil {
		return nil, nil, err
	}

	if err := resolveDependencies(table, sections); err != nil {
		return nil, nil, err
	}

	return table, warnings, nil
}

// buildAction resolves a single action declaration.
func buildAction(sectionName string, src *sourceAction) (*Action, []string, error) {
	if src.Handler == "" {
		return nil, nil, fmt.Errorf("action `%s' has no func attribute", src.Name)
	}

	action := &Action{
		Name:        src.Name,
		SectionName: sectionName,
		Handler:     src.Handler,
		IsMeta:      src.Meta,
		IsImplicit:  src.Implicit,
	}

	if src.Implicit {
		var warnings []string
		if src.Help != "" {
			warnings = append(warnings, fmt.Sprintf(
				"action `%s' has a help attribute, but it will be ignored because the action is implicit", src.Name))
		}
		if len(src.Args) > 0 || len(src.OptionalArgs) > 0 {
			warnings = append(warnings, fmt.Sprintf(
				"action `%s' has an args attribute, but it will be ignored because the action is implicit", src.Name))
		}

		return action, warnings, nil
	}

	if src.Help == "" {
		return nil, nil, fmt.Errorf("action `%s' has no help attribute: explicit actions must specify a help string", src.Name)
	}

	action.Help = src.Help
	action.LongOption = src.Name
	action.ShortOption = src.Short
	action.ArgDoc, action.ArgRange = buildArgDoc(src)

	return action, nil, nil
}

// buildArgDoc renders the argument documentation string and computes the
// argument count range.  Required argument alternatives render as `<a|b>`,
// optional ones as `[c|d]`, and an unbounded tail as `...` inside the final
// optional group.
func buildArgDoc(src *sourceAction) (string, ArgRange) {
	var doc strings.Builder
	argRange := ArgRange{}

	for i, alternatives := range src.Args {
		if i > 0 {
			doc.WriteByte(' ')
		}

		doc.WriteByte('<')
		doc.WriteString(strings.Join(alternatives, "|"))
		doc.WriteByte('>')

		argRange.Low++
		argRange.High++
	}

	for i, alternatives := range src.OptionalArgs {
		if argRange.Low > 0 || i > 0 {
			doc.WriteByte(' ')
		}

		doc.WriteByte('[')
		doc.WriteString(strings.Join(alternatives, "|"))

		if src.Unbounded && i == len(src.OptionalArgs)-1 {
			doc.WriteString("...")
			argRange.High = UnboundedArgs
		} else {
			argRange.High++
		}

		doc.WriteByte(']')
	}

	return doc.String(), argRange
}

// verifyUnique checks that action names are globally unique and that no
// action shares a name with a section.
func verifyUnique(table []*Action, sections []*sourceSection) error {
	for i, a1 := range table {
		for _, a2 := range table[i+1:] {
			if a1.Name == a2.Name {
				return fmt.Errorf("duplicate action name `%s'", a1.Name)
			}
		}
	}

	for _, section := range sections {
		for _, action := range table {
			if action.Name == section.Name {
				return fmt.Errorf("action `%s' has the same name as a section", action.Name)
			}
		}
	}

	return nil
}

// resolveDependencies resolves every dependency name to the indices of the
// actions it refers to.  A dependency name refers to an action by name or to
// every action in a section by the section's name; it must resolve to at
// least one action.
func resolveDependencies(table []*Action, sections []*sourceSection) error {
	// The source declarations parallel the table in order.
	var srcs []*sourceAction
	for _, section := range sections {
		srcs = append(srcs, section.Actions...)
	}

	for i, action := range table {
		var err error
		if action.RunAfter, err = resolveList(table, srcs[i].RunAfter, "runafter", action.Name); err != nil {
			return err
		}
		if action.Requires, err = resolveList(table, srcs[i].Requires, "requires", action.Name); err != nil {
			return err
		}
		if action.MetaDeps, err = resolveList(table, srcs[i].MetaDeps, "metadeps", action.Name); err != nil {
			return err
		}
	}

	return nil
}

// resolveList resolves one dependency list.
func resolveList(table []*Action, names []string, listName, actionName string) ([]int, error) {
	var indices []int

	for _, name := range names {
		found := false
		for i, candidate := range table {
			if candidate.Name == name || candidate.SectionName == name {
				indices = append(indices, i)
				found = true
			}
		}

		if !found {
			return nil, fmt.Errorf("undefined action or section `%s' referenced in %s list in action `%s'",
				name, listName, actionName)
		}
	}

	return indices, nil
}
