package ast

import "dbpc/report"

// The abstract interface for all AST nodes.  The AST is produced by the
// surface-syntax frontend and consumed read-only by the semantic converter:
// nothing in this package mutates a tree after construction.
type ASTNode interface {
	// The text span of the AST node.
	Span() *report.TextSpan
}

// A utility base struct for all AST nodes.
type ASTBase struct {
	// The span over which the AST node occurs.
	span *report.TextSpan
}

// NewASTBaseOn creates a new AST base with the given span.
func NewASTBaseOn(span *report.TextSpan) ASTBase {
	return ASTBase{span: span}
}

// NewASTBaseOver creates a new AST base spanning over two spans.
func NewASTBaseOver(start, end *report.TextSpan) ASTBase {
	return ASTBase{span: report.NewSpanOver(start, end)}
}

func (ab ASTBase) Span() *report.TextSpan {
	return ab.span
}

// -----------------------------------------------------------------------------

// Annotation is the type-annotation sigil trailing an identifier.
type Annotation int

// Enumeration of identifier annotations.
const (
	AnnotationNone   = Annotation(iota) // no sigil
	AnnotationString                    // `$`
	AnnotationFloat                     // `#`
)

// AnnotatedSymbol is an identifier together with its annotation sigil.  Two
// symbols with the same name but different annotations name distinct
// variables.
type AnnotatedSymbol struct {
	ASTBase

	// The identifier's name, excluding the sigil.
	Name string

	// The identifier's annotation sigil.
	Annotation Annotation
}

// -----------------------------------------------------------------------------

// Block is a sequence of statements.
type Block struct {
	ASTBase

	Statements []Statement
}
