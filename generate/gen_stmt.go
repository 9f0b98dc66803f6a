package generate

import (
	"dbpc/ir"
	"dbpc/report"
	"dbpc/types"

	llir "github.com/llir/llvm/ir"
	llconst "github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	llvalue "github.com/llir/llvm/ir/value"
)

// genStatements generates a sequence of statements onto the current block.
func (g *Generator) genStatements(stmts []ir.Statement) {
	for _, stmt := range stmts {
		// Statements after a terminator (eg. after a goto) are unreachable
		// but must still be generated in case they carry a label.
		if g.block.Term != nil {
			g.block = g.appendBlock()
		}

		g.genStatement(stmt)
	}
}

// genStatement generates a single statement.
func (g *Generator) genStatement(stmt ir.Statement) {
	switch v := stmt.(type) {
	case *ir.VarAssignment:
		g.block.NewStore(g.genExpr(v.Value), g.vars[v.Variable])
	case *ir.Conditional:
		g.genConditional(v)
	case *ir.WhileLoop:
		g.genWhileLoop(v)
	case *ir.UntilLoop:
		g.genUntilLoop(v)
	case *ir.InfiniteLoop:
		g.genInfiniteLoop(v)
	case *ir.Break:
		if len(g.loopExits) == 0 {
			report.ReportICE("break outside of a loop survived conversion")
		}
		g.block.NewBr(g.loopExits[len(g.loopExits)-1])
	case *ir.Label:
		block := g.labelBlock(v.Name)
		if g.block.Term == nil {
			g.block.NewBr(block)
		}
		g.block = block
	case *ir.Goto:
		g.block.NewBr(g.labelBlock(v.Label))
	case *ir.Gosub:
		g.genGosub(v)
	case *ir.SubReturn:
		g.block.NewBr(g.gosubDispatchBlock())
	case *ir.IncrementVar:
		g.genStepVar(v.Variable, v.Step, false)
	case *ir.DecrementVar:
		g.genStepVar(v.Variable, v.Step, true)
	case *ir.FunctionCall:
		g.genCall(v.Call)
	case *ir.ExitFunction:
		g.genExitFunction(v)
	default:
		report.ReportICE("unknown IR statement %T", stmt)
	}
}

// genConditional generates an if/else statement.
func (g *Generator) genConditional(cond *ir.Conditional) {
	trueBlock := g.appendBlock()
	falseBlock := g.appendBlock()
	endBlock := g.appendBlock()

	g.block.NewCondBr(g.genExpr(cond.Condition), trueBlock, falseBlock)

	g.block = trueBlock
	g.genStatements(cond.TrueBranch)
	if g.block.Term == nil {
		g.block.NewBr(endBlock)
	}

	g.block = falseBlock
	g.genStatements(cond.FalseBranch)
	if g.block.Term == nil {
		g.block.NewBr(endBlock)
	}

	g.block = endBlock
}

// genWhileLoop generates a while loop: the condition is checked before every
// iteration.
func (g *Generator) genWhileLoop(loop *ir.WhileLoop) {
	condBlock := g.appendBlock()
	bodyBlock := g.appendBlock()
	endBlock := g.appendBlock()

	g.block.NewBr(condBlock)

	g.block = condBlock
	g.block.NewCondBr(g.genExpr(loop.Condition), bodyBlock, endBlock)

	g.loopExits = append(g.loopExits, endBlock)
	g.block = bodyBlock
	g.genStatements(loop.Body)
	if g.block.Term == nil {
		g.block.NewBr(condBlock)
	}
	g.loopExits = g.loopExits[:len(g.loopExits)-1]

	g.block = endBlock
}

// genUntilLoop generates a repeat/until loop: the body runs at least once and
// the loop exits once the condition holds.
func (g *Generator) genUntilLoop(loop *ir.UntilLoop) {
	bodyBlock := g.appendBlock()
	condBlock := g.appendBlock()
	endBlock := g.appendBlock()

	g.block.NewBr(bodyBlock)

	g.loopExits = append(g.loopExits, endBlock)
	g.block = bodyBlock
	g.genStatements(loop.Body)
	if g.block.Term == nil {
		g.block.NewBr(condBlock)
	}
	g.loopExits = g.loopExits[:len(g.loopExits)-1]

	g.block = condBlock
	g.block.NewCondBr(g.genExpr(loop.Condition), endBlock, bodyBlock)

	g.block = endBlock
}

// genInfiniteLoop generates a do/loop statement.
func (g *Generator) genInfiniteLoop(loop *ir.InfiniteLoop) {
	bodyBlock := g.appendBlock()
	endBlock := g.appendBlock()

	g.block.NewBr(bodyBlock)

	g.loopExits = append(g.loopExits, endBlock)
	g.block = bodyBlock
	g.genStatements(loop.Body)
	if g.block.Term == nil {
		g.block.NewBr(bodyBlock)
	}
	g.loopExits = g.loopExits[:len(g.loopExits)-1]

	g.block = endBlock
}

// genStepVar generates an increment or decrement of a variable by a step
// value.  The step is brought to the variable's type first.
func (g *Generator) genStepVar(variable *ir.Variable, step ir.Expression, negate bool) {
	slot := g.vars[variable]
	current := g.block.NewLoad(g.convType(variable.Type), slot)
	stepVal := g.genCast(g.genExpr(step), step.Type(), variable.Type)

	var next llvalue.Value
	if types.IsFloatingPoint(variable.Type) {
		if negate {
			next = g.block.NewFSub(current, stepVal)
		} else {
			next = g.block.NewFAdd(current, stepVal)
		}
	} else {
		if negate {
			next = g.block.NewSub(current, stepVal)
		} else {
			next = g.block.NewAdd(current, stepVal)
		}
	}

	g.block.NewStore(next, slot)
}

// genExitFunction generates an early return from a user-defined function.
// The exit value is brought to the function's declared return type, which may
// differ from the value's own type.
func (g *Generator) genExitFunction(exit *ir.ExitFunction) {
	retType := g.fd.ReturnType()

	if exit.ReturnValue == nil || types.IsVoid(retType) {
		if exit.ReturnValue != nil {
			g.genExpr(exit.ReturnValue)
		}

		if types.IsVoid(retType) {
			g.block.NewRet(nil)
		} else {
			g.block.NewRet(g.zeroValue(retType))
		}
		return
	}

	val := g.genCast(g.genExpr(exit.ReturnValue), exit.ReturnValue.Type(), retType)
	g.block.NewRet(val)
}

// -----------------------------------------------------------------------------

// gosubDispatchBlock returns the shared dispatch block all subroutine returns
// branch to, creating the gosub bookkeeping on first use.
func (g *Generator) gosubDispatchBlock() *llir.Block {
	if g.gosubDispatch == nil {
		g.ensureGosubStack()
		g.gosubDispatch = g.fn.NewBlock("gosub.dispatch")
	}

	return g.gosubDispatch
}

// ensureGosubStack allocates the return-site stack for the current function.
// The allocas go into the entry block so they are only ever executed once.
func (g *Generator) ensureGosubStack() {
	if g.gosubStack != nil {
		return
	}

	entry := g.fn.Blocks[0]
	g.gosubStack = entry.NewAlloca(lltypes.NewArray(gosubStackDepth, lltypes.I32))
	g.gosubStack.LocalName = "gosub.stack"
	g.gosubSP = entry.NewAlloca(lltypes.I32)
	g.gosubSP.LocalName = "gosub.sp"
	entry.NewStore(llconst.NewInt(lltypes.I32, 0), g.gosubSP)
}

// genGosub generates a subroutine call: the id of the return site is pushed
// onto the gosub stack and control transfers to the label.
func (g *Generator) genGosub(gosub *ir.Gosub) {
	g.ensureGosubStack()

	site := len(g.gosubSites)
	returnBlock := g.appendBlock()
	g.gosubSites = append(g.gosubSites, returnBlock)

	sp := g.block.NewLoad(lltypes.I32, g.gosubSP)
	slot := g.block.NewGetElementPtr(lltypes.NewArray(gosubStackDepth, lltypes.I32), g.gosubStack,
		llconst.NewInt(lltypes.I32, 0), sp)
	g.block.NewStore(llconst.NewInt(lltypes.I32, int64(site)), slot)
	g.block.NewStore(g.block.NewAdd(sp, llconst.NewInt(lltypes.I32, 1)), g.gosubSP)

	g.block.NewBr(g.labelBlock(gosub.Label))
	g.block = returnBlock
}

// finishGosubDispatch fills in the shared dispatch block once every return
// site is known.  Popping an empty stack is undefined in the source language;
// the generated default is unreachable.
func (g *Generator) finishGosubDispatch() {
	if g.gosubDispatch == nil {
		return
	}

	block := g.gosubDispatch

	sp := block.NewSub(block.NewLoad(lltypes.I32, g.gosubSP), llconst.NewInt(lltypes.I32, 1))
	block.NewStore(sp, g.gosubSP)
	slot := block.NewGetElementPtr(lltypes.NewArray(gosubStackDepth, lltypes.I32), g.gosubStack,
		llconst.NewInt(lltypes.I32, 0), sp)
	site := block.NewLoad(lltypes.I32, slot)

	badSite := g.fn.NewBlock("gosub.badsite")
	badSite.NewUnreachable()

	cases := make([]*llir.Case, len(g.gosubSites))
	for i, returnBlock := range g.gosubSites {
		cases[i] = llir.NewCase(llconst.NewInt(lltypes.I32, int64(i)), returnBlock)
	}

	block.NewSwitch(site, badSite, cases...)
}
