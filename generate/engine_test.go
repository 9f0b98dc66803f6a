package generate

import (
	"strings"
	"testing"

	"dbpc/cmds"

	llir "github.com/llir/llvm/ir"
	lltypes "github.com/llir/llvm/ir/types"
)

func TestCommandThunkFloatReturn(t *testing.T) {
	mod := llir.NewModule()
	ei := NewEngineInterface(mod)

	command := &cmds.Command{
		DBSymbol:   "screen fps",
		Plugin:     &cmds.Plugin{Name: "DBProCore", Path: "DBProCore.dll"},
		Symbol:     "?ScreenFPS@@YAKXZ",
		ReturnType: cmds.CodeFloat,
	}

	thunk := ei.GenerateCommandThunk(command, lltypes.NewFunc(lltypes.Float), "DBCommand.screen_fps.0")

	if len(thunk.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(thunk.Blocks))
	}
	block := thunk.Blocks[0]

	// The thunk loads the plugin handle, fetches the symbol address, calls
	// through it, then reinterprets the dword result as a float through a
	// stack slot.
	var sawLoad, sawAddressCall, sawCommandCall, sawAlloca, sawStore, sawBitCast, sawResultLoad bool
	for _, inst := range block.Insts {
		switch v := inst.(type) {
		case *llir.InstLoad:
			if sawAlloca {
				sawResultLoad = true
			} else {
				sawLoad = true
			}
		case *llir.InstCall:
			if callee, ok := v.Callee.(*llir.Func); ok && callee == ei.getFunctionAddressFunc {
				sawAddressCall = true
			} else {
				sawCommandCall = true
			}
		case *llir.InstAlloca:
			sawAlloca = true
		case *llir.InstStore:
			sawStore = true
		case *llir.InstBitCast:
			sawBitCast = true
		}
	}

	checks := []struct {
		name string
		saw  bool
	}{
		{"handle load", sawLoad},
		{"getFunctionAddress call", sawAddressCall},
		{"command call", sawCommandCall},
		{"stack slot", sawAlloca},
		{"raw result store", sawStore},
		{"slot bitcast", sawBitCast},
		{"reinterpreting load", sawResultLoad},
	}
	for _, check := range checks {
		if !check.saw {
			t.Errorf("missing %s in the generated thunk", check.name)
		}
	}

	ret, ok := block.Term.(*llir.TermRet)
	if !ok {
		t.Fatalf("expected a return terminator, got %T", block.Term)
	}
	if !ret.X.Type().Equal(lltypes.Float) {
		t.Errorf("expected a float return, got %s", ret.X.Type())
	}
}

func TestCommandThunkVoidReturn(t *testing.T) {
	mod := llir.NewModule()
	ei := NewEngineInterface(mod)

	command := &cmds.Command{
		DBSymbol:   "sync",
		Plugin:     &cmds.Plugin{Name: "DBProCore", Path: "DBProCore.dll"},
		Symbol:     "?Sync@@YAXXZ",
		ReturnType: cmds.CodeVoid,
	}

	thunk := ei.GenerateCommandThunk(command, lltypes.NewFunc(lltypes.Void), "DBCommand.sync.0")

	ret, ok := thunk.Blocks[0].Term.(*llir.TermRet)
	if !ok {
		t.Fatalf("expected a return terminator, got %T", thunk.Blocks[0].Term)
	}
	if ret.X != nil {
		t.Error("expected a bare return for a void command")
	}
}

func TestEntryPointPluginOrdering(t *testing.T) {
	mod := llir.NewModule()
	ei := NewEngineInterface(mod)

	gameEntry := mod.NewFunc("__DBMain", lltypes.Void)

	plugins := []*cmds.Plugin{
		{Name: "Basic2D", Path: "Basic2D.dll"},
		{Name: "DBProCore", Path: "DBProCore.dll"},
		{Name: "Text", Path: "Text.dll"},
	}

	if err := ei.GenerateEntryPoint(gameEntry, plugins); err != nil {
		t.Fatalf("entry point generation failed: %s", err)
	}

	var entryPoint *llir.Func
	for _, f := range mod.Funcs {
		if f.Name() == "main" {
			entryPoint = f
		}
	}
	if entryPoint == nil {
		t.Fatal("expected a main function")
	}

	wantBlocks := []string{"loadDBProCore", "loadBasic2D", "loadText", "initialiseEngine"}
	for i, want := range wantBlocks {
		if i >= len(entryPoint.Blocks) || entryPoint.Blocks[i].LocalName != want {
			t.Fatalf("block %d: expected %s, got %s", i, want, entryPoint.Blocks[i].LocalName)
		}
	}

	// The caller's plugin list must not be reordered.
	if plugins[0].Name != "Basic2D" {
		t.Error("expected the input plugin list to be left untouched")
	}
}

func TestEntryPointRequiresCorePlugin(t *testing.T) {
	mod := llir.NewModule()
	ei := NewEngineInterface(mod)
	gameEntry := mod.NewFunc("__DBMain", lltypes.Void)

	err := ei.GenerateEntryPoint(gameEntry, []*cmds.Plugin{{Name: "Basic2D", Path: "Basic2D.dll"}})
	if err == nil || !strings.Contains(err.Error(), "DBProCore.dll is missing") {
		t.Errorf("expected a missing core plugin error, got %v", err)
	}

	if err := ei.GenerateEntryPoint(gameEntry, nil); err == nil {
		t.Error("expected an error for an empty plugin list")
	}
}

func TestRuntimeABIDeclarations(t *testing.T) {
	mod := llir.NewModule()
	NewEngineInterface(mod)

	want := map[string]bool{
		"loadPlugin":         false,
		"getFunctionAddress": false,
		"debugPrintf":        false,
		"initialiseEngine":   false,
	}

	for _, f := range mod.Funcs {
		if _, ok := want[f.Name()]; ok {
			want[f.Name()] = true
		}
	}

	for name, found := range want {
		if !found {
			t.Errorf("runtime ABI symbol %s was not declared", name)
		}
	}
}
