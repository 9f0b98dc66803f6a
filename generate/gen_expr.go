package generate

import (
	"dbpc/ir"
	"dbpc/report"
	"dbpc/types"

	llir "github.com/llir/llvm/ir"
	llconst "github.com/llir/llvm/ir/constant"
	llenum "github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	llvalue "github.com/llir/llvm/ir/value"
)

// genExpr generates an expression, appending instructions onto the current
// block.  A void expression (eg. a call to a command returning nothing) yields
// nil.
func (g *Generator) genExpr(expr ir.Expression) llvalue.Value {
	switch v := expr.(type) {
	case *ir.Literal:
		return g.genLiteral(v)
	case *ir.VarRefExpression:
		slot := g.vars[v.Variable]
		if slot == nil {
			report.ReportICE("variable %s%s has no stack slot", v.Variable.Name, v.Variable.Annotation.Suffix())
		}
		return g.block.NewLoad(g.convType(v.Variable.Type), slot)
	case *ir.UnaryExpression:
		return g.genUnaryExpr(v)
	case *ir.BinaryExpression:
		return g.genBinaryExpr(v)
	case *ir.CastExpression:
		return g.genCast(g.genExpr(v.Inner), v.Inner.Type(), v.Target)
	case *ir.FunctionCallExpression:
		return g.genCall(v)
	}

	report.ReportICE("unknown IR expression %T", expr)
	return nil
}

// genLiteral generates a literal constant.
func (g *Generator) genLiteral(lit *ir.Literal) llvalue.Value {
	switch lit.Kind {
	case types.Boolean:
		return llconst.NewBool(lit.Value.(bool))
	case types.Byte:
		return llconst.NewInt(lltypes.I8, int64(lit.Value.(uint8)))
	case types.Word:
		return llconst.NewInt(lltypes.I16, int64(lit.Value.(uint16)))
	case types.Dword:
		return llconst.NewInt(lltypes.I32, int64(lit.Value.(uint32)))
	case types.Integer:
		return llconst.NewInt(lltypes.I32, int64(lit.Value.(int32)))
	case types.DoubleInteger:
		return llconst.NewInt(lltypes.I64, lit.Value.(int64))
	case types.Float:
		return llconst.NewFloat(lltypes.Float, float64(lit.Value.(float32)))
	case types.DoubleFloat:
		return llconst.NewFloat(lltypes.Double, lit.Value.(float64))
	case types.String:
		return g.globalString(lit.Value.(string))
	}

	report.ReportICE("unknown literal kind %d", lit.Kind)
	return nil
}

// genCall generates a call to a command thunk or a user-defined function.
func (g *Generator) genCall(call *ir.FunctionCallExpression) llvalue.Value {
	args := make([]llvalue.Value, len(call.Args))
	for i, arg := range call.Args {
		args[i] = g.genExpr(arg)
	}

	var callee *llir.Func
	if call.Command != nil {
		callee = g.commandThunk(call.Command)
	} else {
		callee = g.funcs[call.UserFunction]
	}

	result := g.block.NewCall(callee, args...)
	if types.IsVoid(call.Return) {
		return nil
	}

	return result
}

// -----------------------------------------------------------------------------

// genUnaryExpr generates a unary operator application.
func (g *Generator) genUnaryExpr(ue *ir.UnaryExpression) llvalue.Value {
	operand := g.genExpr(ue.Operand)

	switch ue.Op {
	case ir.UnaryNegate:
		if types.IsFloatingPoint(ue.Operand.Type()) {
			return g.block.NewFNeg(operand)
		}
		return g.block.NewSub(llconst.NewInt(operand.Type().(*lltypes.IntType), 0), operand)
	case ir.UnaryNot:
		return g.block.NewXor(g.toBool(operand, ue.Operand.Type()), llconst.True)
	case ir.UnaryBitwiseNot:
		return g.block.NewXor(operand, llconst.NewInt(operand.Type().(*lltypes.IntType), -1))
	}

	report.ReportICE("unknown unary operator %d", ue.Op)
	return nil
}

// genBinaryExpr generates a binary operator application.  The converter has
// already brought both operands to a common type.
func (g *Generator) genBinaryExpr(be *ir.BinaryExpression) llvalue.Value {
	operandType := be.Lhs.Type()
	lhs := g.genExpr(be.Lhs)
	rhs := g.genExpr(be.Rhs)

	if types.Equals(operandType, types.String) {
		return g.genStringBinaryExpr(be, lhs, rhs)
	}

	isFloat := types.IsFloatingPoint(operandType)
	isUnsigned := types.IsUnsigned(operandType)

	switch be.Op {
	case ir.BinaryAdd:
		if isFloat {
			return g.block.NewFAdd(lhs, rhs)
		}
		return g.block.NewAdd(lhs, rhs)
	case ir.BinarySub:
		if isFloat {
			return g.block.NewFSub(lhs, rhs)
		}
		return g.block.NewSub(lhs, rhs)
	case ir.BinaryMul:
		if isFloat {
			return g.block.NewFMul(lhs, rhs)
		}
		return g.block.NewMul(lhs, rhs)
	case ir.BinaryDiv:
		if isFloat {
			return g.block.NewFDiv(lhs, rhs)
		}
		if isUnsigned {
			return g.block.NewUDiv(lhs, rhs)
		}
		return g.block.NewSDiv(lhs, rhs)
	case ir.BinaryMod:
		if isFloat {
			return g.block.NewFRem(lhs, rhs)
		}
		if isUnsigned {
			return g.block.NewURem(lhs, rhs)
		}
		return g.block.NewSRem(lhs, rhs)
	case ir.BinaryPow:
		return g.genPow(lhs, rhs, operandType)
	case ir.BinaryShiftLeft:
		return g.block.NewShl(lhs, rhs)
	case ir.BinaryShiftRight:
		if isUnsigned {
			return g.block.NewLShr(lhs, rhs)
		}
		return g.block.NewAShr(lhs, rhs)
	case ir.BinaryBitwiseOr:
		return g.block.NewOr(lhs, rhs)
	case ir.BinaryBitwiseAnd:
		return g.block.NewAnd(lhs, rhs)
	case ir.BinaryBitwiseXor, ir.BinaryBitwiseNot:
		return g.block.NewXor(lhs, rhs)
	case ir.BinaryOr:
		return g.block.NewOr(g.toBool(lhs, operandType), g.toBool(rhs, be.Rhs.Type()))
	case ir.BinaryAnd:
		return g.block.NewAnd(g.toBool(lhs, operandType), g.toBool(rhs, be.Rhs.Type()))
	case ir.BinaryXor:
		return g.block.NewXor(g.toBool(lhs, operandType), g.toBool(rhs, be.Rhs.Type()))
	case ir.BinaryEqual, ir.BinaryNotEqual, ir.BinaryLess, ir.BinaryLessEqual, ir.BinaryGreater, ir.BinaryGreaterEqual:
		if isFloat {
			return g.block.NewFCmp(floatPredOf(be.Op), lhs, rhs)
		}
		return g.block.NewICmp(intPredOf(be.Op, isUnsigned), lhs, rhs)
	}

	report.ReportICE("unknown binary operator %d", be.Op)
	return nil
}

// genStringBinaryExpr generates a binary operator over string operands.
// Comparisons lower to a strcmp call against zero; other string operations are
// provided by engine commands and cannot be generated here.
func (g *Generator) genStringBinaryExpr(be *ir.BinaryExpression, lhs, rhs llvalue.Value) llvalue.Value {
	switch be.Op {
	case ir.BinaryEqual, ir.BinaryNotEqual, ir.BinaryLess, ir.BinaryLessEqual, ir.BinaryGreater, ir.BinaryGreaterEqual:
		cmp := g.block.NewCall(g.strcmpFunc(), lhs, rhs)
		return g.block.NewICmp(intPredOf(be.Op, false), cmp, llconst.NewInt(lltypes.I32, 0))
	}

	report.ReportFatal("string operator %d is not supported outside engine commands", be.Op)
	return nil
}

// genPow generates an exponentiation via the llvm.pow intrinsic.  Integral
// operands round-trip through double.
func (g *Generator) genPow(lhs, rhs llvalue.Value, operandType types.Type) llvalue.Value {
	if types.Equals(operandType, types.Float) {
		return g.block.NewCall(g.powFunc(lltypes.Float, "llvm.pow.f32"), lhs, rhs)
	}

	if types.Equals(operandType, types.DoubleFloat) {
		return g.block.NewCall(g.powFunc(lltypes.Double, "llvm.pow.f64"), lhs, rhs)
	}

	base := g.block.NewSIToFP(lhs, lltypes.Double)
	exp := g.block.NewSIToFP(rhs, lltypes.Double)
	result := g.block.NewCall(g.powFunc(lltypes.Double, "llvm.pow.f64"), base, exp)
	return g.block.NewFPToSI(result, lhs.Type())
}

// -----------------------------------------------------------------------------

// genCast generates a conversion of a value between two data types.
func (g *Generator) genCast(srcVal llvalue.Value, srcType, dstType types.Type) llvalue.Value {
	if types.Equals(srcType, dstType) {
		return srcVal
	}

	// Narrowing to boolean is a comparison against zero, not a truncation.
	if types.Equals(dstType, types.Boolean) {
		return g.toBool(srcVal, srcType)
	}

	dstLL := g.convType(dstType)

	switch {
	case types.IsIntegral(srcType) && types.IsIntegral(dstType):
		srcBits := srcVal.Type().(*lltypes.IntType).BitSize
		dstBits := dstLL.(*lltypes.IntType).BitSize
		switch {
		case srcBits == dstBits:
			return srcVal
		case srcBits > dstBits:
			return g.block.NewTrunc(srcVal, dstLL)
		case types.IsUnsigned(srcType):
			return g.block.NewZExt(srcVal, dstLL)
		default:
			return g.block.NewSExt(srcVal, dstLL)
		}
	case types.IsIntegral(srcType) && types.IsFloatingPoint(dstType):
		if types.IsUnsigned(srcType) {
			return g.block.NewUIToFP(srcVal, dstLL)
		}
		return g.block.NewSIToFP(srcVal, dstLL)
	case types.IsFloatingPoint(srcType) && types.IsIntegral(dstType):
		if types.IsUnsigned(dstType) {
			return g.block.NewFPToUI(srcVal, dstLL)
		}
		return g.block.NewFPToSI(srcVal, dstLL)
	case types.IsFloatingPoint(srcType) && types.IsFloatingPoint(dstType):
		if types.Equals(srcType, types.Float) {
			return g.block.NewFPExt(srcVal, dstLL)
		}
		return g.block.NewFPTrunc(srcVal, dstLL)
	}

	report.ReportICE("cannot lower cast from %s to %s", srcType.Repr(), dstType.Repr())
	return nil
}

// toBool narrows a value to i1 by comparing it against zero.
func (g *Generator) toBool(val llvalue.Value, valType types.Type) llvalue.Value {
	if types.Equals(valType, types.Boolean) {
		return val
	}

	if types.IsFloatingPoint(valType) {
		zero := llconst.NewFloat(val.Type().(*lltypes.FloatType), 0)
		return g.block.NewFCmp(llenum.FPredONE, val, zero)
	}

	zero := llconst.NewInt(val.Type().(*lltypes.IntType), 0)
	return g.block.NewICmp(llenum.IPredNE, val, zero)
}

// -----------------------------------------------------------------------------

// intPredOf maps a comparison operator to its integer predicate.
func intPredOf(op ir.BinaryOp, isUnsigned bool) llenum.IPred {
	switch op {
	case ir.BinaryEqual:
		return llenum.IPredEQ
	case ir.BinaryNotEqual:
		return llenum.IPredNE
	case ir.BinaryLess:
		if isUnsigned {
			return llenum.IPredULT
		}
		return llenum.IPredSLT
	case ir.BinaryLessEqual:
		if isUnsigned {
			return llenum.IPredULE
		}
		return llenum.IPredSLE
	case ir.BinaryGreater:
		if isUnsigned {
			return llenum.IPredUGT
		}
		return llenum.IPredSGT
	default:
		if isUnsigned {
			return llenum.IPredUGE
		}
		return llenum.IPredSGE
	}
}

// floatPredOf maps a comparison operator to its floating-point predicate.
func floatPredOf(op ir.BinaryOp) llenum.FPred {
	switch op {
	case ir.BinaryEqual:
		return llenum.FPredOEQ
	case ir.BinaryNotEqual:
		return llenum.FPredONE
	case ir.BinaryLess:
		return llenum.FPredOLT
	case ir.BinaryLessEqual:
		return llenum.FPredOLE
	case ir.BinaryGreater:
		return llenum.FPredOGT
	default:
		return llenum.FPredOGE
	}
}

// -----------------------------------------------------------------------------

// strcmpFunc declares the C strcmp on first use.
func (g *Generator) strcmpFunc() *llir.Func {
	for _, f := range g.mod.Funcs {
		if f.Name() == "strcmp" {
			return f
		}
	}

	return g.mod.NewFunc("strcmp",
		lltypes.I32,
		llir.NewParam("a", lltypes.I8Ptr),
		llir.NewParam("b", lltypes.I8Ptr),
	)
}

// powFunc declares an llvm.pow intrinsic on first use.
func (g *Generator) powFunc(typ lltypes.Type, name string) *llir.Func {
	for _, f := range g.mod.Funcs {
		if f.Name() == name {
			return f
		}
	}

	return g.mod.NewFunc(name, typ, llir.NewParam("base", typ), llir.NewParam("exp", typ))
}
