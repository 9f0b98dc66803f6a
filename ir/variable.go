package ir

import (
	"dbpc/report"
	"dbpc/types"
)

// Annotation is the type-annotation sigil attached to a variable name.  It is
// part of the variable's identity: two variables with the same name but
// different annotations are distinct.
type Annotation int

// Enumeration of variable annotations.
const (
	AnnotationNone   = Annotation(iota)
	AnnotationString // `$`
	AnnotationFloat  // `#`
)

// Suffix returns the sigil character of the annotation, if any.
func (a Annotation) Suffix() string {
	switch a {
	case AnnotationString:
		return "$"
	case AnnotationFloat:
		return "#"
	}

	return ""
}

// Variable is a single declared or implicitly declared variable.  Variables
// are owned by the scope that declared them; IR expressions reference them by
// identity.
type Variable struct {
	// The variable's name, excluding the sigil.
	Name string

	// The variable's annotation sigil.
	Annotation Annotation

	// The variable's declared or inferred type.
	Type types.Type

	// The source location of the variable's first declaration.
	Span *report.TextSpan
}

// -----------------------------------------------------------------------------

// scopeKey is the identity of a variable within a scope.
type scopeKey struct {
	name       string
	annotation Annotation
}

// Scope is the collection of variables belonging to a single function.  Scopes
// do not nest: the main program body and each user-defined function have
// disjoint scopes.
type Scope struct {
	// vars is every variable in the scope in declaration order.
	vars []*Variable

	// lookupTable maps (name, annotation) to the variable it names.
	lookupTable map[scopeKey]*Variable
}

// NewScope creates a new empty variable scope.
func NewScope() *Scope {
	return &Scope{lookupTable: make(map[scopeKey]*Variable)}
}

// Lookup returns the variable with the given name and annotation, or nil if no
// such variable exists in the scope.
func (s *Scope) Lookup(name string, annotation Annotation) *Variable {
	return s.lookupTable[scopeKey{name, annotation}]
}

// Add appends a variable to the scope.  The caller must have checked that no
// variable with the same name and annotation already exists.
func (s *Scope) Add(v *Variable) {
	s.vars = append(s.vars, v)
	s.lookupTable[scopeKey{v.Name, v.Annotation}] = v
}

// Variables returns all variables in the scope in declaration order.
func (s *Scope) Variables() []*Variable {
	return s.vars
}
