package ast

import "dbpc/types"

// Expr represents an expression, simple or complex.  All expression nodes
// implement the `Expr` interface.
type Expr interface {
	ASTNode

	exprNode()
}

// ExprBase is the base struct for all expressions.
type ExprBase struct {
	ASTBase
}

func (eb ExprBase) exprNode() {}

// -----------------------------------------------------------------------------

// Literal is a literal constant.  Kind determines the dynamic type of Value:
//
//	Boolean        bool
//	Byte           uint8
//	Word           uint16
//	Dword          uint32
//	Integer        int32
//	DoubleInteger  int64
//	Float          float32
//	DoubleFloat    float64
//	String         string
type Literal struct {
	ExprBase

	Kind  types.BuiltinType
	Value interface{}
}

// VarRef is a reference to a variable by annotated name.
type VarRef struct {
	ExprBase

	Symbol *AnnotatedSymbol
}

// ArrayRef is a reference to an array element.  The ambiguity-resolution pass
// rewrites call-or-subscript nodes into either ArrayRef or FuncCall before the
// tree reaches the converter.
type ArrayRef struct {
	ExprBase

	Symbol  *AnnotatedSymbol
	Indices []Expr
}

// -----------------------------------------------------------------------------

// UnaryOpKind enumerates the unary operators.
type UnaryOpKind int

const (
	UnaryNegate = UnaryOpKind(iota)
	UnaryNot
	UnaryBitwiseNot
)

// UnaryOp is a unary operator application.
type UnaryOp struct {
	ExprBase

	Op      UnaryOpKind
	Operand Expr
}

// BinaryOpKind enumerates the binary operators.
type BinaryOpKind int

const (
	BinaryAdd = BinaryOpKind(iota)
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

// BinaryOp is a binary operator application.
type BinaryOp struct {
	ExprBase

	Op       BinaryOpKind
	Lhs, Rhs Expr
}

// -----------------------------------------------------------------------------

// CommandExpr is a call to an engine command in expression position.  Command
// is the exact keyed display name the parser recognised.
type CommandExpr struct {
	ExprBase

	Command string
	Args    []Expr
}

// FuncCall is a call to a user-defined function in expression position.
type FuncCall struct {
	ExprBase

	Symbol *AnnotatedSymbol
	Args   []Expr
}
