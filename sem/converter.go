// Package sem implements the semantic converter: the traversal that lowers a
// post-processed syntax tree and a command index into a typed IR program.
package sem

import (
	"dbpc/ast"
	"dbpc/cmds"
	"dbpc/ir"
	"dbpc/report"
)

// Converter converts a post-processed syntax tree into a typed IR program.  A
// converter is single-use: create one per compilation.
type Converter struct {
	// The command index used to resolve command calls.  It must not be
	// mutated during conversion.
	cmdIndex *cmds.Index

	// The absolute and representative paths of the source file being
	// converted.
	absPath, reprPath string

	// funcs is the phase-A table of function skeletons, keyed by name.
	funcs map[string]*funcEntry

	// funcOrder is the declaration order of the entries in funcs.
	funcOrder []*funcEntry

	// currentFunction is the function whose body is being converted.
	currentFunction *ir.FunctionDefinition

	// errored indicates that at least one semantic error occurred: no program
	// will be produced.
	errored bool
}

// funcEntry pairs a function skeleton with the declaration it came from.
type funcEntry struct {
	decl *ast.FuncDecl
	def  *ir.FunctionDefinition
}

// NewConverter creates a converter over the given command index.  The paths
// identify the source file for diagnostics.
func NewConverter(cmdIndex *cmds.Index, absPath, reprPath string) *Converter {
	return &Converter{
		cmdIndex: cmdIndex,
		absPath:  absPath,
		reprPath: reprPath,
		funcs:    make(map[string]*funcEntry),
	}
}

// GenerateProgram converts the top-level block of a parsed program.  The block
// must consist of main-program statements followed by function declarations.
// It returns nil if any semantic error was reported.
func (c *Converter) GenerateProgram(block *ast.Block) *ir.Program {
	reachedEndOfMain := false

	// Phase A: collect the main statements and install every function
	// skeleton so that forward references between functions resolve.
	var mainStatements []ast.Statement
	for _, stmt := range block.Statements {
		funcDecl, isFuncDecl := stmt.(*ast.FuncDecl)
		if !isFuncDecl {
			if reachedEndOfMain {
				c.recError(stmt.Span(), "reached end of main but encountered a non-function node")
				continue
			}

			mainStatements = append(mainStatements, stmt)
			continue
		}

		// The main program ends at the first function declaration.
		reachedEndOfMain = true

		c.declareFunction(funcDecl)
	}

	// Phase B: convert the main body, then every function body.
	mainFunction := ir.NewFunctionDefinition(&report.TextSpan{}, ir.MainFunctionName, nil)
	c.convertFunctionBody(mainFunction, mainStatements, nil)

	for _, entry := range c.funcOrder {
		var body []ast.Statement
		if entry.decl.Body != nil {
			body = entry.decl.Body.Statements
		}

		c.convertFunctionBody(entry.def, body, entry.decl.ReturnValue)
	}

	if c.errored {
		return nil
	}

	functions := make([]*ir.FunctionDefinition, len(c.funcOrder))
	for i, entry := range c.funcOrder {
		functions[i] = entry.def
	}

	return &ir.Program{Main: mainFunction, Functions: functions}
}

// declareFunction installs a function skeleton: name and typed parameters but
// no body.  Parameter types are derived from the parameter annotations.
func (c *Converter) declareFunction(funcDecl *ast.FuncDecl) {
	name := funcDecl.Symbol.Name

	if prev, ok := c.funcs[name]; ok {
		c.recError(funcDecl.Symbol.Span(), "function %s has already been declared", name)
		c.recNote(prev.decl.Symbol.Span(), "see last declaration")
		return
	}

	args := make([]ir.Argument, len(funcDecl.Args))
	for i, argRef := range funcDecl.Args {
		args[i] = ir.Argument{
			Name: argRef.Symbol.Name,
			Type: typeFromAnnotation(annotationOf(argRef.Symbol.Annotation)),
		}
	}

	entry := &funcEntry{
		decl: funcDecl,
		def:  ir.NewFunctionDefinition(funcDecl.Span(), name, args),
	}

	// Parameters occupy the function's scope before any body statement runs:
	// a reference to a parameter resolves to it rather than implicitly
	// declaring a fresh variable.
	for i, argRef := range funcDecl.Args {
		annotation := annotationOf(argRef.Symbol.Annotation)
		if entry.def.Scope.Lookup(argRef.Symbol.Name, annotation) != nil {
			c.recError(argRef.Symbol.Span(), "duplicate parameter %s%s", argRef.Symbol.Name, annotation.Suffix())
			continue
		}

		entry.def.Scope.Add(&ir.Variable{
			Name:       argRef.Symbol.Name,
			Annotation: annotation,
			Type:       args[i].Type,
			Span:       argRef.Symbol.Span(),
		})
	}

	c.funcs[name] = entry
	c.funcOrder = append(c.funcOrder, entry)
}

// convertFunctionBody converts the body statements and optional return
// expression of a single function.  Errors raised during conversion abort the
// function but not the compilation: sibling functions are still checked.
func (c *Converter) convertFunctionBody(def *ir.FunctionDefinition, body []ast.Statement, returnValue ast.Expr) {
	defer c.catchUnit()

	c.currentFunction = def

	def.AppendStatements(c.convertStatements(body))

	if returnValue != nil {
		def.ReturnExpression = c.convertExpression(returnValue)
	}
}

// -----------------------------------------------------------------------------

// catchUnit recovers from an error raised while converting a single unit.  The
// error is reported and conversion of other units continues.
// NB: This function must ALWAYS be deferred.
func (c *Converter) catchUnit() {
	if x := recover(); x != nil {
		cerr, ok := x.(*report.LocalCompileError)
		if !ok {
			panic(x)
		}

		c.errored = true
		report.ReportCompileError(c.absPath, c.reprPath, cerr.Span, cerr.Message)
		for _, note := range cerr.Notes {
			report.ReportCompileNote(c.absPath, c.reprPath, note.Span, note.Message)
		}
	}
}

// error reports an error on the given span that aborts conversion of the
// current unit.
func (c *Converter) error(span *report.TextSpan, msg string, args ...interface{}) {
	panic(report.Raise(span, msg, args...))
}

// recError reports a recoverable error: conversion continues so that sibling
// statements can still be checked, but no program will be produced.
func (c *Converter) recError(span *report.TextSpan, msg string, args ...interface{}) {
	c.errored = true
	report.ReportCompileError(c.absPath, c.reprPath, span, msg, args...)
}

// recNote attaches a secondary note to the most recent recoverable error.
func (c *Converter) recNote(span *report.TextSpan, msg string, args ...interface{}) {
	report.ReportCompileNote(c.absPath, c.reprPath, span, msg, args...)
}

// Errored returns whether any semantic error has been reported so far.
func (c *Converter) Errored() bool {
	return c.errored
}
