package cmds

import (
	"strings"
	"testing"
)

func makeOverload(name string, plugin *Plugin, ret TypeCode, args ...TypeCode) *Command {
	cmdArgs := make([]Argument, len(args))
	for i, arg := range args {
		cmdArgs[i] = Argument{Type: arg}
	}

	return &Command{
		DBSymbol:   name,
		Plugin:     plugin,
		Symbol:     "_" + name,
		Args:       cmdArgs,
		ReturnType: ret,
	}
}

func TestLookupInsertionOrder(t *testing.T) {
	core := &Plugin{Name: "DBProCore", Path: "DBProCore.dll"}

	idx := NewIndex()
	first := makeOverload("print", core, CodeVoid, CodeString)
	second := makeOverload("print", core, CodeVoid, CodeInteger)
	other := makeOverload("sync", core, CodeVoid)
	idx.Add(first)
	idx.Add(other)
	idx.Add(second)

	overloads := idx.Lookup("print")
	if len(overloads) != 2 {
		t.Fatalf("expected 2 overloads, got %d", len(overloads))
	}
	if overloads[0] != first || overloads[1] != second {
		t.Error("expected overloads in insertion order")
	}

	if len(idx.Lookup("PRINT")) != 0 {
		t.Error("expected display-name lookup to be case-sensitive")
	}

	all := idx.Commands()
	if len(all) != 3 || all[0] != first || all[1] != other || all[2] != second {
		t.Error("expected commands in insertion order")
	}
}

func TestFindConflicts(t *testing.T) {
	libA := &Plugin{Name: "Basic2D", Path: "Basic2D.dll"}
	libB := &Plugin{Name: "Text", Path: "Text.dll"}

	idx := NewIndex()
	idx.Add(makeOverload("ink", libA, CodeVoid, CodeInteger))
	idx.Add(makeOverload("ink", libB, CodeVoid, CodeInteger, CodeInteger))

	if conflict := idx.FindConflicts(); conflict != nil {
		t.Errorf("expected no conflict for differing arity, got %s", conflict)
	}

	// Overloads differing only in case of the display name still collide.
	idx.Add(makeOverload("INK", libB, CodeVoid, CodeInteger))

	conflict := idx.FindConflicts()
	if conflict == nil {
		t.Fatal("expected a conflict")
	}
	if conflict.Previous.Plugin != libA || conflict.Command.Plugin != libB {
		t.Error("expected the earlier-registered overload to be cited as previous")
	}
	if !strings.Contains(conflict.Error(), "Basic2D.dll") || !strings.Contains(conflict.Error(), "Text.dll") {
		t.Errorf("expected both libraries in the diagnostic, got %s", conflict)
	}
}

func TestFindConflictsSymmetric(t *testing.T) {
	libA := &Plugin{Name: "Basic2D", Path: "Basic2D.dll"}
	libB := &Plugin{Name: "Text", Path: "Text.dll"}

	a := makeOverload("cls", libA, CodeVoid, CodeDword)
	b := makeOverload("cls", libB, CodeVoid, CodeDword)

	forward := NewIndex()
	forward.Add(a)
	forward.Add(b)

	backward := NewIndex()
	backward.Add(b)
	backward.Add(a)

	if forward.FindConflicts() == nil || backward.FindConflicts() == nil {
		t.Error("expected the conflict to be found regardless of insertion order")
	}
}

func TestConflictRequiresIdenticalSignature(t *testing.T) {
	lib := &Plugin{Name: "Core", Path: "Core.dll"}

	idx := NewIndex()
	idx.Add(makeOverload("rnd", lib, CodeInteger, CodeInteger))
	idx.Add(makeOverload("rnd", lib, CodeFloat, CodeInteger))

	if conflict := idx.FindConflicts(); conflict != nil {
		t.Errorf("expected overloads differing in return type to coexist, got %s", conflict)
	}
}

func TestTypeCodeDataTypes(t *testing.T) {
	for _, code := range []TypeCode{CodeInteger, CodeFloat, CodeString, CodeDouble, CodeLong, CodeDword} {
		typ, ok := code.DataType()
		if !ok || typ == nil {
			t.Errorf("expected %c to denote a data type", code)
		}
	}

	if typ, ok := CodeVoid.DataType(); !ok || typ != nil {
		t.Error("expected the void code to denote the void type")
	}

	for _, code := range []TypeCode{CodeX, CodeA, TypeCode('q')} {
		if _, ok := code.DataType(); ok {
			t.Errorf("expected %c to denote no data type", code)
		}
	}
}
