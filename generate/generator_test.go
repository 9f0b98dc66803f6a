package generate

import (
	"strings"
	"testing"

	"dbpc/cmds"
	"dbpc/ir"
	"dbpc/report"
	"dbpc/types"
)

func TestTargetTriples(t *testing.T) {
	cases := []struct {
		arch     Arch
		platform Platform
		triple   string
	}{
		{ArchI386, PlatformWindows, "i386-pc-windows-msvc"},
		{ArchX86_64, PlatformWindows, "x86_64-pc-windows-msvc"},
		{ArchAArch64, PlatformWindows, "aarch64-pc-windows-msvc"},
		{ArchI386, PlatformMacOS, "i386-apple-darwin"},
		{ArchX86_64, PlatformMacOS, "x86_64-apple-darwin"},
		{ArchAArch64, PlatformMacOS, "aarch64-apple-darwin"},
		{ArchI386, PlatformLinux, "i386-pc-linux-gnu"},
		{ArchX86_64, PlatformLinux, "x86_64-pc-linux-gnu"},
		{ArchAArch64, PlatformLinux, "aarch64-pc-linux-gnu"},
	}

	for _, c := range cases {
		triple := TargetTriple{Arch: c.arch, Platform: c.platform}.LLVMTriple()
		if triple != c.triple {
			t.Errorf("expected %s, got %s", c.triple, triple)
		}
	}
}

// buildProgram assembles a small program: the main body calls a
// float-returning command and stores its result in a float variable.
func buildProgram() (*ir.Program, []*cmds.Plugin, *cmds.Command) {
	core := &cmds.Plugin{Name: "DBProCore", Path: "DBProCore.dll"}
	command := &cmds.Command{
		DBSymbol:   "screen fps",
		Plugin:     core,
		Symbol:     "?ScreenFPS@@YAKXZ",
		ReturnType: cmds.CodeFloat,
	}

	span := &report.TextSpan{}
	main := ir.NewFunctionDefinition(span, ir.MainFunctionName, nil)

	counter := &ir.Variable{Name: "fps", Annotation: ir.AnnotationFloat, Type: types.Float, Span: span}
	main.Scope.Add(counter)

	call := &ir.FunctionCallExpression{
		ExprBase: ir.NewExprBase(span),
		Command:  command,
		Return:   types.Float,
	}

	main.Body = []ir.Statement{
		&ir.VarAssignment{StmtBase: ir.NewStmtBase(span), Variable: counter, Value: call},
	}

	program := &ir.Program{Main: main}
	return program, []*cmds.Plugin{core}, command
}

func TestGenerateProgram(t *testing.T) {
	program, plugins, _ := buildProgram()

	mod, err := Generate(program, plugins, TargetTriple{Arch: ArchX86_64, Platform: PlatformWindows})
	if err != nil {
		t.Fatalf("generation failed: %s", err)
	}

	text := mod.String()
	for _, want := range []string{
		"x86_64-pc-windows-msvc",
		"__DBMain",
		"loadPlugin",
		"getFunctionAddress",
		"initialiseEngine",
		"DBProCoreHandle",
		"define i32 @main()",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected the module to contain %q", want)
		}
	}

	// One thunk is generated for the single referenced command.
	if !strings.Contains(text, "DBCommand.screen_fps.0") {
		t.Error("expected a command dispatch thunk")
	}
}

func TestGenerateRequiresCorePlugin(t *testing.T) {
	program, _, _ := buildProgram()

	_, err := Generate(program, []*cmds.Plugin{{Name: "Text", Path: "Text.dll"}},
		TargetTriple{Arch: ArchX86_64, Platform: PlatformLinux})
	if err == nil {
		t.Error("expected a missing core plugin error")
	}
}

func TestGenerateControlFlow(t *testing.T) {
	span := &report.TextSpan{}
	main := ir.NewFunctionDefinition(span, ir.MainFunctionName, nil)

	v := &ir.Variable{Name: "i", Annotation: ir.AnnotationNone, Type: types.Integer, Span: span}
	main.Scope.Add(v)

	one := &ir.Literal{ExprBase: ir.NewExprBase(span), Kind: types.Integer, Value: int32(1)}
	cond := &ir.CastExpression{
		ExprBase: ir.NewExprBase(span),
		Inner:    &ir.VarRefExpression{ExprBase: ir.NewExprBase(span), Variable: v},
		Target:   types.Boolean,
	}

	main.Body = []ir.Statement{
		&ir.WhileLoop{
			StmtBase:  ir.NewStmtBase(span),
			Condition: cond,
			Body: []ir.Statement{
				&ir.IncrementVar{StmtBase: ir.NewStmtBase(span), Variable: v, Step: one},
				&ir.Break{StmtBase: ir.NewStmtBase(span)},
			},
		},
		&ir.Label{StmtBase: ir.NewStmtBase(span), Name: "done"},
		&ir.Goto{StmtBase: ir.NewStmtBase(span), Label: "done"},
	}

	core := &cmds.Plugin{Name: "DBProCore", Path: "DBProCore.dll"}
	mod, err := Generate(&ir.Program{Main: main}, []*cmds.Plugin{core},
		TargetTriple{Arch: ArchX86_64, Platform: PlatformLinux})
	if err != nil {
		t.Fatalf("generation failed: %s", err)
	}

	text := mod.String()
	if !strings.Contains(text, "label.done") {
		t.Error("expected a label block")
	}
	if !strings.Contains(text, "br i1") {
		t.Error("expected a conditional branch for the loop condition")
	}
}
