package sem

import (
	"dbpc/ast"
	"dbpc/cmds"
	"dbpc/ir"
	"dbpc/report"
	"dbpc/types"
)

// annotationOf maps a syntax-level annotation to its IR form.
func annotationOf(annotation ast.Annotation) ir.Annotation {
	switch annotation {
	case ast.AnnotationNone:
		return ir.AnnotationNone
	case ast.AnnotationString:
		return ir.AnnotationString
	case ast.AnnotationFloat:
		return ir.AnnotationFloat
	}

	report.ReportICE("unknown annotation %d", annotation)
	return ir.AnnotationNone
}

// typeFromAnnotation derives a variable's implicit type from its annotation
// sigil: no sigil means integer, `$` means string, `#` means float.
func typeFromAnnotation(annotation ir.Annotation) types.Type {
	switch annotation {
	case ir.AnnotationNone:
		return types.Integer
	case ir.AnnotationString:
		return types.String
	case ir.AnnotationFloat:
		return types.Float
	}

	report.ReportICE("unknown annotation %d", annotation)
	return nil
}

// typeFromCommandType maps a command type code to the data type it denotes.
// The internal `X` and `A` markers never reach this function: candidates
// carrying them are filtered out during overload resolution.
func typeFromCommandType(code cmds.TypeCode) types.Type {
	typ, ok := code.DataType()
	if !ok {
		report.ReportICE("unknown command type code %c", code)
	}

	return typ
}

// -----------------------------------------------------------------------------

// isTypeConvertible returns whether a value of the source type can be
// converted to the target type: the types are identical, or both are builtin
// and each is integral or floating-point.
func isTypeConvertible(source, target types.Type) bool {
	if types.Equals(source, target) {
		return true
	}

	sourceNumeric := types.IsIntegral(source) || types.IsFloatingPoint(source)
	targetNumeric := types.IsIntegral(target) || types.IsFloatingPoint(target)
	return sourceNumeric && targetNumeric
}

// ensureType converts the expression to the target type, inserting a cast
// node if needed.  If no conversion exists, an error is reported and the
// expression is returned unchanged so that conversion can continue.
func (c *Converter) ensureType(expr ir.Expression, target types.Type) ir.Expression {
	if types.Equals(expr.Type(), target) {
		return expr
	}

	if isTypeConvertible(expr.Type(), target) {
		return &ir.CastExpression{
			ExprBase: ir.NewExprBase(expr.Span()),
			Inner:    expr,
			Target:   target,
		}
	}

	c.recError(expr.Span(), "failed to convert %s to %s", typeRepr(expr.Type()), typeRepr(target))
	return expr
}

// binaryOpCommonType computes the type both operands of a binary operation are
// converted to.  The common type is the left-hand side's type.
func binaryOpCommonType(op ir.BinaryOp, lhs, rhs ir.Expression) types.Type {
	return lhs.Type()
}

// typeRepr renders a type for diagnostics, handling void.
func typeRepr(typ types.Type) string {
	if types.IsVoid(typ) {
		return "void"
	}

	return typ.Repr()
}

// defaultLiteral builds the zero value literal for a declared type.
func defaultLiteral(span *report.TextSpan, typ types.Type) ir.Expression {
	lit := &ir.Literal{ExprBase: ir.NewExprBase(span)}

	bt, ok := typ.(types.BuiltinType)
	if !ok {
		report.ReportICE("no default value for type %s", typeRepr(typ))
	}

	lit.Kind = bt
	switch bt {
	case types.Boolean:
		lit.Value = false
	case types.Byte:
		lit.Value = uint8(0)
	case types.Word:
		lit.Value = uint16(0)
	case types.Dword:
		lit.Value = uint32(0)
	case types.Integer:
		lit.Value = int32(0)
	case types.DoubleInteger:
		lit.Value = int64(0)
	case types.Float:
		lit.Value = float32(0)
	case types.DoubleFloat:
		lit.Value = float64(0)
	case types.String:
		lit.Value = ""
	}

	return lit
}
