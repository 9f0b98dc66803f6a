package sem

import (
	"dbpc/ast"
	"dbpc/ir"
	"dbpc/report"
	"dbpc/types"
)

// convertStatements converts a sequence of statements.  Statements which fail
// to convert are dropped so that their siblings can still be checked.
func (c *Converter) convertStatements(stmts []ast.Statement) []ir.Statement {
	var block []ir.Statement
	for _, stmt := range stmts {
		if converted := c.convertStatement(stmt); converted != nil {
			block = append(block, converted)
		}
	}

	return block
}

// convertBlock converts an optional block.  A nil block converts to an empty
// statement list.
func (c *Converter) convertBlock(block *ast.Block) []ir.Statement {
	if block == nil {
		return nil
	}

	return c.convertStatements(block.Statements)
}

// convertStatement converts a single syntax-level statement into a typed IR
// statement.  It returns nil if the statement could not be converted.
func (c *Converter) convertStatement(stmt ast.Statement) ir.Statement {
	switch v := stmt.(type) {
	case *ast.ConstDecl:
		c.recError(v.Span(), "constant declarations are not yet supported")
		return nil
	case *ast.ArrayDecl:
		c.recError(v.Span(), "array declarations are not yet supported")
		return nil
	case *ast.VarDecl:
		return c.convertVarDecl(v)
	case *ast.VarAssignment:
		variable := c.resolveVariableRef(v.Variable)
		return &ir.VarAssignment{
			StmtBase: ir.NewStmtBase(v.Span()),
			Variable: variable,
			Value:    c.ensureType(c.convertExpression(v.Value), variable.Type),
		}
	case *ast.Conditional:
		return &ir.Conditional{
			StmtBase:    ir.NewStmtBase(v.Span()),
			Condition:   c.ensureType(c.convertExpression(v.Condition), types.Boolean),
			TrueBranch:  c.convertBlock(v.TrueBranch),
			FalseBranch: c.convertBlock(v.FalseBranch),
		}
	case *ast.WhileLoop:
		return &ir.WhileLoop{
			StmtBase:  ir.NewStmtBase(v.Span()),
			Condition: c.ensureType(c.convertExpression(v.Condition), types.Boolean),
			Body:      c.convertBlock(v.Body),
		}
	case *ast.UntilLoop:
		return &ir.UntilLoop{
			StmtBase:  ir.NewStmtBase(v.Span()),
			Condition: c.ensureType(c.convertExpression(v.Condition), types.Boolean),
			Body:      c.convertBlock(v.Body),
		}
	case *ast.InfiniteLoop:
		return &ir.InfiniteLoop{
			StmtBase: ir.NewStmtBase(v.Span()),
			Body:     c.convertBlock(v.Body),
		}
	case *ast.Break:
		return &ir.Break{StmtBase: ir.NewStmtBase(v.Span())}
	case *ast.Label:
		return &ir.Label{StmtBase: ir.NewStmtBase(v.Span()), Name: v.Name}
	case *ast.Goto:
		return &ir.Goto{StmtBase: ir.NewStmtBase(v.Span()), Label: v.Label}
	case *ast.Gosub:
		return &ir.Gosub{StmtBase: ir.NewStmtBase(v.Span()), Label: v.Label}
	case *ast.SubReturn:
		return &ir.SubReturn{StmtBase: ir.NewStmtBase(v.Span())}
	case *ast.IncrementVar:
		return &ir.IncrementVar{
			StmtBase: ir.NewStmtBase(v.Span()),
			Variable: c.resolveVariableRef(v.Variable),
			Step:     c.convertStep(v.Step, v.Span()),
		}
	case *ast.DecrementVar:
		return &ir.DecrementVar{
			StmtBase: ir.NewStmtBase(v.Span()),
			Variable: c.resolveVariableRef(v.Variable),
			Step:     c.convertStep(v.Step, v.Span()),
		}
	case *ast.CommandStmt:
		return &ir.FunctionCall{
			StmtBase: ir.NewStmtBase(v.Span()),
			Call:     c.convertCommandCall(v.Span(), v.Command, v.Args),
		}
	case *ast.FuncCallStmt:
		return &ir.FunctionCall{
			StmtBase: ir.NewStmtBase(v.Span()),
			Call:     c.convertFunctionCall(v.Span(), v.Symbol, v.Args),
		}
	case *ast.ExitFunction:
		exit := &ir.ExitFunction{StmtBase: ir.NewStmtBase(v.Span())}
		if v.ReturnValue != nil {
			exit.ReturnValue = c.convertExpression(v.ReturnValue)
		}
		return exit
	}

	report.ReportICE("unknown statement node %T", stmt)
	return nil
}

// convertVarDecl converts an explicit variable declaration.  Declaring a
// variable which already exists in the scope is an error; the previous
// declaration is cited.
func (c *Converter) convertVarDecl(decl *ast.VarDecl) ir.Statement {
	annotation := annotationOf(decl.Symbol.Annotation)

	if prev := c.currentFunction.Scope.Lookup(decl.Symbol.Name, annotation); prev != nil {
		c.recError(decl.Symbol.Span(), "variable %s has already been declared as type %s",
			decl.Symbol.Name+annotation.Suffix(), typeRepr(prev.Type))
		c.recNote(prev.Span, "see last declaration")
		return nil
	}

	if !types.IsBuiltin(decl.Type) {
		c.recError(decl.Span(), "variables of type %s are not yet supported", typeRepr(decl.Type))
		return nil
	}

	variable := &ir.Variable{
		Name:       decl.Symbol.Name,
		Annotation: annotation,
		Type:       decl.Type,
		Span:       decl.Symbol.Span(),
	}
	c.currentFunction.Scope.Add(variable)

	initialValue := defaultLiteral(decl.Span(), decl.Type)
	if decl.InitialValue != nil {
		initialValue = c.convertExpression(decl.InitialValue)
	}

	return &ir.VarAssignment{
		StmtBase: ir.NewStmtBase(decl.Span()),
		Variable: variable,
		Value:    c.ensureType(initialValue, decl.Type),
	}
}

// convertStep converts the step expression of an increment or decrement
// statement.  A missing step defaults to the integer one; the step is kept in
// its own type otherwise.
func (c *Converter) convertStep(step ast.Expr, span *report.TextSpan) ir.Expression {
	if step == nil {
		return &ir.Literal{
			ExprBase: ir.NewExprBase(span),
			Kind:     types.Integer,
			Value:    int32(1),
		}
	}

	return c.convertExpression(step)
}
