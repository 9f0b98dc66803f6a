package sem

import (
	"dbpc/ast"
	"dbpc/ir"
	"dbpc/report"
)

// convertExpression converts a syntax-level expression into a typed IR
// expression.
func (c *Converter) convertExpression(expr ast.Expr) ir.Expression {
	switch v := expr.(type) {
	case *ast.Literal:
		return &ir.Literal{
			ExprBase: ir.NewExprBase(v.Span()),
			Kind:     v.Kind,
			Value:    v.Value,
		}
	case *ast.VarRef:
		return &ir.VarRefExpression{
			ExprBase: ir.NewExprBase(v.Span()),
			Variable: c.resolveVariableRef(v),
		}
	case *ast.UnaryOp:
		return &ir.UnaryExpression{
			ExprBase: ir.NewExprBase(v.Span()),
			Op:       unaryOpOf(v.Op),
			Operand:  c.convertExpression(v.Operand),
		}
	case *ast.BinaryOp:
		op := binaryOpOf(v.Op)
		lhs := c.convertExpression(v.Lhs)
		rhs := c.convertExpression(v.Rhs)
		commonType := binaryOpCommonType(op, lhs, rhs)
		return &ir.BinaryExpression{
			ExprBase: ir.NewExprBase(v.Span()),
			Op:       op,
			Lhs:      c.ensureType(lhs, commonType),
			Rhs:      c.ensureType(rhs, commonType),
		}
	case *ast.CommandExpr:
		return c.convertCommandCall(v.Span(), v.Command, v.Args)
	case *ast.FuncCall:
		return c.convertFunctionCall(v.Span(), v.Symbol, v.Args)
	case *ast.ArrayRef:
		// Arrays survive the ambiguity-resolution pass but are not supported
		// by the conversion yet.  Yield a best-effort placeholder so sibling
		// expressions can still be checked.
		c.recError(v.Span(), "array access is not yet supported")
		return c.resolvePlaceholder(v)
	}

	report.ReportICE("unknown expression node %T", expr)
	return nil
}

// resolveVariableRef resolves a variable reference within the current
// function's scope.  If the variable does not exist, it is implicitly declared
// with the type derived from its annotation.
func (c *Converter) resolveVariableRef(varRef *ast.VarRef) *ir.Variable {
	annotation := annotationOf(varRef.Symbol.Annotation)

	variable := c.currentFunction.Scope.Lookup(varRef.Symbol.Name, annotation)
	if variable == nil {
		variable = &ir.Variable{
			Name:       varRef.Symbol.Name,
			Annotation: annotation,
			Type:       typeFromAnnotation(annotation),
			Span:       varRef.Symbol.Span(),
		}
		c.currentFunction.Scope.Add(variable)
	}

	return variable
}

// resolvePlaceholder produces a typed placeholder expression for an erroneous
// reference so that conversion can continue.
func (c *Converter) resolvePlaceholder(v *ast.ArrayRef) ir.Expression {
	annotation := annotationOf(v.Symbol.Annotation)
	return defaultLiteral(v.Span(), typeFromAnnotation(annotation))
}

// convertFunctionCall converts a call to a user-defined function.  The callee
// must have been installed as a skeleton during phase A; the argument count
// must match the declared parameter count.
func (c *Converter) convertFunctionCall(span *report.TextSpan, symbol *ast.AnnotatedSymbol, astArgs []ast.Expr) *ir.FunctionCallExpression {
	entry, ok := c.funcs[symbol.Name]
	if !ok {
		c.error(span, "function %s is not defined", symbol.Name)
	}
	def := entry.def

	if len(astArgs) != len(def.Args) {
		c.error(span, "function '%s' requires %d arguments, but %d were provided",
			def.Name, len(def.Args), len(astArgs))
	}

	args := make([]ir.Expression, len(astArgs))
	for i, astArg := range astArgs {
		args[i] = c.ensureType(c.convertExpression(astArg), def.Args[i].Type)
	}

	return &ir.FunctionCallExpression{
		ExprBase:     ir.NewExprBase(span),
		UserFunction: def,
		Args:         args,
		Return:       def.ReturnType(),
	}
}

// -----------------------------------------------------------------------------

// unaryOpOf maps a syntax-level unary operator to its IR form.
func unaryOpOf(op ast.UnaryOpKind) ir.UnaryOp {
	switch op {
	case ast.UnaryNegate:
		return ir.UnaryNegate
	case ast.UnaryNot:
		return ir.UnaryNot
	case ast.UnaryBitwiseNot:
		return ir.UnaryBitwiseNot
	}

	report.ReportICE("unknown unary operator %d", op)
	return 0
}

// binaryOpOf maps a syntax-level binary operator to its IR form.
func binaryOpOf(op ast.BinaryOpKind) ir.BinaryOp {
	switch op {
	case ast.BinaryAdd:
		return ir.BinaryAdd
	case ast.BinarySub:
		return ir.BinarySub
	case ast.BinaryMul:
		return ir.BinaryMul
	case ast.BinaryDiv:
		return ir.BinaryDiv
	case ast.BinaryMod:
		return ir.BinaryMod
	case ast.BinaryPow:
		return ir.BinaryPow
	case ast.BinaryShiftLeft:
		return ir.BinaryShiftLeft
	case ast.BinaryShiftRight:
		return ir.BinaryShiftRight
	case ast.BinaryBitwiseOr:
		return ir.BinaryBitwiseOr
	case ast.BinaryBitwiseAnd:
		return ir.BinaryBitwiseAnd
	case ast.BinaryBitwiseXor:
		return ir.BinaryBitwiseXor
	case ast.BinaryBitwiseNot:
		return ir.BinaryBitwiseNot
	case ast.BinaryOr:
		return ir.BinaryOr
	case ast.BinaryAnd:
		return ir.BinaryAnd
	case ast.BinaryXor:
		return ir.BinaryXor
	case ast.BinaryEqual:
		return ir.BinaryEqual
	case ast.BinaryNotEqual:
		return ir.BinaryNotEqual
	case ast.BinaryLess:
		return ir.BinaryLess
	case ast.BinaryLessEqual:
		return ir.BinaryLessEqual
	case ast.BinaryGreater:
		return ir.BinaryGreater
	case ast.BinaryGreaterEqual:
		return ir.BinaryGreaterEqual
	}

	report.ReportICE("unknown binary operator %d", op)
	return 0
}
