package ir

import (
	"dbpc/report"
	"dbpc/types"
)

// MainFunctionName is the name of the synthetic function holding the main
// program body.
const MainFunctionName = "__DBMain"

// Argument is a single declared parameter of a user-defined function.
type Argument struct {
	Name string
	Type types.Type
}

// FunctionDefinition is a converted user-defined function, or the synthetic
// main function.  It owns its scope, body statements, and return expression.
type FunctionDefinition struct {
	// The source span of the function declaration.
	Span *report.TextSpan

	// The function's name.  The synthetic main function is named __DBMain.
	Name string

	// The function's declared parameters in order.
	Args []Argument

	// The function's body.
	Body []Statement

	// The function's return expression, or nil if the function returns
	// nothing.
	ReturnExpression Expression

	// The function's variable scope.
	Scope *Scope
}

// NewFunctionDefinition creates a function definition with an empty body and a
// fresh scope.
func NewFunctionDefinition(span *report.TextSpan, name string, args []Argument) *FunctionDefinition {
	return &FunctionDefinition{
		Span:  span,
		Name:  name,
		Args:  args,
		Scope: NewScope(),
	}
}

// AppendStatements appends converted statements to the function's body.
func (fd *FunctionDefinition) AppendStatements(stmts []Statement) {
	fd.Body = append(fd.Body, stmts...)
}

// ReturnType is the type of the function's return expression, or nil (void)
// if the function returns nothing.
func (fd *FunctionDefinition) ReturnType() types.Type {
	if fd.ReturnExpression == nil {
		return nil
	}

	return fd.ReturnExpression.Type()
}

// -----------------------------------------------------------------------------

// Program is the result of semantic conversion: the synthetic main function
// plus all user-defined functions in declaration order.  The program owns its
// function definitions exclusively.
type Program struct {
	Main      *FunctionDefinition
	Functions []*FunctionDefinition
}
