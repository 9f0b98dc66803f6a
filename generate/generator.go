// Package generate lowers a typed IR program to an LLVM module.  It also
// contains the engine interface: the generated runtime plumbing that loads
// plugins, resolves command symbols, and dispatches command calls.
package generate

import (
	"fmt"
	"strings"

	"dbpc/cmds"
	"dbpc/ir"
	"dbpc/report"

	llir "github.com/llir/llvm/ir"
	llconst "github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	llvalue "github.com/llir/llvm/ir/value"
)

// Generator is responsible for converting a typed IR program into an LLVM
// module.
type Generator struct {
	// program is the program being generated.
	program *ir.Program

	// mod is the LLVM module being generated.
	mod *llir.Module

	// engine is the engine interface used to generate command dispatch code.
	engine *EngineInterface

	// funcs maps IR function definitions to their LLVM functions.
	funcs map[*ir.FunctionDefinition]*llir.Func

	// thunks maps command overloads to their generated dispatch thunks.
	thunks map[*cmds.Command]*llir.Func

	// strings interns string literal globals by content.
	strings map[string]llconst.Constant

	// globalCounter is a counter used to name anonymous globals such as
	// interned strings.
	globalCounter int

	// ---------------------------------------------------------------------
	// Per-function generation state.

	// fd is the IR function definition being generated.
	fd *ir.FunctionDefinition

	// fn is the LLVM function being generated.
	fn *llir.Func

	// block is the block instructions are currently appended to.
	block *llir.Block

	// vars maps IR variables to their stack slots.
	vars map[*ir.Variable]llvalue.Value

	// labels maps label names to their basic blocks.
	labels map[string]*llir.Block

	// loopExits is the stack of exit blocks of the enclosing loops.
	loopExits []*llir.Block

	// gosub bookkeeping: the return-site stack slots, the blocks to return
	// to (indexed by site id), and the shared dispatch block.
	gosubStack    *llir.InstAlloca
	gosubSP       *llir.InstAlloca
	gosubSites    []*llir.Block
	gosubDispatch *llir.Block
}

// gosubStackDepth is the maximum dynamic nesting of gosubs in one function.
const gosubStackDepth = 64

// Generate lowers a program to a new LLVM module targeting the given triple.
// The plugin list is embedded into the generated entry point, which loads each
// plugin and initialises the engine before calling the program's main body.
func Generate(program *ir.Program, plugins []*cmds.Plugin, triple TargetTriple) (*llir.Module, error) {
	mod := llir.NewModule()
	mod.TargetTriple = triple.LLVMTriple()

	g := &Generator{
		program: program,
		mod:     mod,
		engine:  NewEngineInterface(mod),
		funcs:   make(map[*ir.FunctionDefinition]*llir.Func),
		thunks:  make(map[*cmds.Command]*llir.Func),
		strings: make(map[string]llconst.Constant),
	}

	// Declare every function up front so that calls between them resolve.
	g.declareFunction(program.Main)
	for _, fd := range program.Functions {
		g.declareFunction(fd)
	}

	g.genFunction(program.Main)
	for _, fd := range program.Functions {
		g.genFunction(fd)
	}

	if err := g.engine.GenerateEntryPoint(g.funcs[program.Main], plugins); err != nil {
		return nil, err
	}

	return mod, nil
}

// declareFunction creates the LLVM function for an IR function definition.
func (g *Generator) declareFunction(fd *ir.FunctionDefinition) {
	params := make([]*llir.Param, len(fd.Args))
	for i, arg := range fd.Args {
		params[i] = llir.NewParam(arg.Name, g.convType(arg.Type))
	}

	fn := g.mod.NewFunc(fd.Name, g.convType(fd.ReturnType()), params...)
	g.funcs[fd] = fn
}

// genFunction generates the body of a single function.
func (g *Generator) genFunction(fd *ir.FunctionDefinition) {
	g.fd = fd
	g.fn = g.funcs[fd]
	g.block = g.fn.NewBlock("entry")
	g.vars = make(map[*ir.Variable]llvalue.Value)
	g.labels = make(map[string]*llir.Block)
	g.loopExits = nil
	g.gosubStack = nil
	g.gosubSP = nil
	g.gosubSites = nil
	g.gosubDispatch = nil

	// Allocate a stack slot for every variable in the function's scope and
	// zero-initialize it.
	for _, v := range fd.Scope.Variables() {
		slot := g.block.NewAlloca(g.convType(v.Type))
		slot.LocalName = v.Name + suffixName(v)
		g.vars[v] = slot
		g.block.NewStore(g.zeroValue(v.Type), slot)
	}

	// Spill parameters into their slots.
	for i, arg := range fd.Args {
		if v := fd.Scope.Lookup(arg.Name, annotationFor(arg.Type)); v != nil {
			g.block.NewStore(g.fn.Params[i], g.vars[v])
		}
	}

	g.genStatements(fd.Body)

	// Fall off the end of the function: evaluate the return expression if one
	// was declared.
	if g.block.Term == nil {
		if fd.ReturnExpression != nil {
			g.block.NewRet(g.genExpr(fd.ReturnExpression))
		} else {
			g.block.NewRet(nil)
		}
	}

	g.finishGosubDispatch()
}

// appendBlock appends a new anonymous block to the current function.
func (g *Generator) appendBlock() *llir.Block {
	return g.fn.NewBlock("")
}

// labelBlock returns the block of the given label, creating it on first use so
// that forward gotos resolve.
func (g *Generator) labelBlock(name string) *llir.Block {
	if block, ok := g.labels[name]; ok {
		return block
	}

	block := g.fn.NewBlock("label." + sanitizeName(name))
	g.labels[name] = block
	return block
}

// -----------------------------------------------------------------------------

// globalString interns a null-terminated string constant and returns an i8
// pointer to its first character.
func (g *Generator) globalString(s string) llconst.Constant {
	if ptr, ok := g.strings[s]; ok {
		return ptr
	}

	arr := llconst.NewCharArrayFromString(s + "\x00")
	global := g.mod.NewGlobalDef(fmt.Sprintf("str.%d", g.globalCounter), arr)
	g.globalCounter++

	zero := llconst.NewInt(lltypes.I32, 0)
	ptr := llconst.NewGetElementPtr(arr.Typ, global, zero, zero)
	g.strings[s] = ptr
	return ptr
}

// sanitizeName rewrites a DarkBASIC identifier (which may contain spaces or
// sigils) into a valid LLVM identifier fragment.
func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ':
			return '_'
		case '$':
			return 'S'
		case '#':
			return 'F'
		}
		return r
	}, name)
}

// suffixName renders a variable's sigil for slot naming.
func suffixName(v *ir.Variable) string {
	switch v.Annotation {
	case ir.AnnotationString:
		return ".s"
	case ir.AnnotationFloat:
		return ".f"
	}
	return ""
}

// commandThunk returns the dispatch thunk for a command overload, generating
// it on first use.
func (g *Generator) commandThunk(command *cmds.Command) *llir.Func {
	if thunk, ok := g.thunks[command]; ok {
		return thunk
	}

	params := make([]lltypes.Type, len(command.Args))
	for i, arg := range command.Args {
		argType, ok := arg.Type.DataType()
		if !ok {
			report.ReportICE("command %s has an unresolvable argument type %c", command.DBSymbol, arg.Type)
		}
		params[i] = g.convType(argType)
	}

	retType, ok := command.ReturnType.DataType()
	if !ok {
		report.ReportICE("command %s has an unresolvable return type %c", command.DBSymbol, command.ReturnType)
	}

	fnType := lltypes.NewFunc(g.convType(retType), params...)
	name := fmt.Sprintf("DBCommand.%s.%d", sanitizeName(command.DBSymbol), len(g.thunks))

	thunk := g.engine.GenerateCommandThunk(command, fnType, name)
	g.thunks[command] = thunk
	return thunk
}
