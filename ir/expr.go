package ir

import (
	"dbpc/cmds"
	"dbpc/report"
	"dbpc/types"
)

// Expression represents a typed IR expression.  Every expression carries a
// source location and a resolved type; the void type is represented by nil.
type Expression interface {
	// The source span the expression was converted from.
	Span() *report.TextSpan

	// The expression's resolved type.
	Type() types.Type
}

// ExprBase is the base struct for all IR expressions.
type ExprBase struct {
	span *report.TextSpan
}

// NewExprBase creates an expression base with the given span.
func NewExprBase(span *report.TextSpan) ExprBase {
	return ExprBase{span: span}
}

func (eb ExprBase) Span() *report.TextSpan {
	return eb.span
}

// -----------------------------------------------------------------------------

// Literal is a typed literal constant.  Kind determines the dynamic type of
// Value exactly as for the syntax-level literal node.
type Literal struct {
	ExprBase

	Kind  types.BuiltinType
	Value interface{}
}

func (l *Literal) Type() types.Type {
	return l.Kind
}

// VarRefExpression reads a variable.  The referenced variable is resolved by
// identity within the enclosing function's scope during conversion.
type VarRefExpression struct {
	ExprBase

	Variable *Variable
}

func (vr *VarRefExpression) Type() types.Type {
	return vr.Variable.Type
}

// -----------------------------------------------------------------------------

// UnaryOp enumerates the IR unary operators.
type UnaryOp int

const (
	UnaryNegate = UnaryOp(iota)
	UnaryNot
	UnaryBitwiseNot
)

// UnaryExpression applies a unary operator to an operand.
type UnaryExpression struct {
	ExprBase

	Op      UnaryOp
	Operand Expression
}

func (ue *UnaryExpression) Type() types.Type {
	if ue.Op == UnaryNot {
		return types.Boolean
	}

	return ue.Operand.Type()
}

// BinaryOp enumerates the IR binary operators.
type BinaryOp int

const (
	BinaryAdd = BinaryOp(iota)
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryMod
	BinaryPow
	BinaryShiftLeft
	BinaryShiftRight
	BinaryBitwiseOr
	BinaryBitwiseAnd
	BinaryBitwiseXor
	BinaryBitwiseNot
	BinaryOr
	BinaryAnd
	BinaryXor
	BinaryEqual
	BinaryNotEqual
	BinaryLess
	BinaryLessEqual
	BinaryGreater
	BinaryGreaterEqual
)

// IsComparison returns whether the operator yields a boolean regardless of its
// operand types.
func (op BinaryOp) IsComparison() bool {
	switch op {
	case BinaryEqual, BinaryNotEqual, BinaryLess, BinaryLessEqual, BinaryGreater, BinaryGreaterEqual,
		BinaryOr, BinaryAnd, BinaryXor:
		return true
	}

	return false
}

// BinaryExpression applies a binary operator to two operands.  The converter
// guarantees both operands share a common type.
type BinaryExpression struct {
	ExprBase

	Op       BinaryOp
	Lhs, Rhs Expression
}

func (be *BinaryExpression) Type() types.Type {
	if be.Op.IsComparison() {
		return types.Boolean
	}

	return be.Lhs.Type()
}

// -----------------------------------------------------------------------------

// CastExpression converts its inner expression to the target type.
type CastExpression struct {
	ExprBase

	Inner  Expression
	Target types.Type
}

func (ce *CastExpression) Type() types.Type {
	return ce.Target
}

// -----------------------------------------------------------------------------

// FunctionCallExpression calls either an engine command overload or a
// user-defined function.  Exactly one of Command and UserFunction is non-nil.
// Arguments are cast to the callee's declared parameter types during
// conversion.  The command overload is owned by the command index; the IR only
// references it.
type FunctionCallExpression struct {
	ExprBase

	Command      *cmds.Command
	UserFunction *FunctionDefinition
	Args         []Expression
	Return       types.Type
}

func (fc *FunctionCallExpression) Type() types.Type {
	return fc.Return
}

// CalleeName returns the display name of the called command or function.
func (fc *FunctionCallExpression) CalleeName() string {
	if fc.Command != nil {
		return fc.Command.DBSymbol
	}

	return fc.UserFunction.Name
}
