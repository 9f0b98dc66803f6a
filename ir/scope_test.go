package ir

import (
	"testing"

	"dbpc/report"
	"dbpc/types"
)

func TestScopeLookupBySigil(t *testing.T) {
	scope := NewScope()

	plain := &Variable{Name: "a", Annotation: AnnotationNone, Type: types.Integer, Span: &report.TextSpan{}}
	str := &Variable{Name: "a", Annotation: AnnotationString, Type: types.String, Span: &report.TextSpan{}}
	scope.Add(plain)
	scope.Add(str)

	if scope.Lookup("a", AnnotationNone) != plain {
		t.Error("expected a to resolve to the unannotated variable")
	}
	if scope.Lookup("a", AnnotationString) != str {
		t.Error("expected a$ to resolve to the string variable")
	}
	if scope.Lookup("a", AnnotationFloat) != nil {
		t.Error("expected a# to be unbound")
	}
	if scope.Lookup("b", AnnotationNone) != nil {
		t.Error("expected b to be unbound")
	}

	vars := scope.Variables()
	if len(vars) != 2 || vars[0] != plain || vars[1] != str {
		t.Error("expected variables in declaration order")
	}
}

func TestBinaryExpressionTypes(t *testing.T) {
	span := &report.TextSpan{}
	lhs := &Literal{ExprBase: NewExprBase(span), Kind: types.Integer, Value: int32(1)}
	rhs := &Literal{ExprBase: NewExprBase(span), Kind: types.Integer, Value: int32(2)}

	sum := &BinaryExpression{ExprBase: NewExprBase(span), Op: BinaryAdd, Lhs: lhs, Rhs: rhs}
	if !types.Equals(sum.Type(), types.Integer) {
		t.Errorf("expected integer sum, got %s", sum.Type().Repr())
	}

	cmp := &BinaryExpression{ExprBase: NewExprBase(span), Op: BinaryLess, Lhs: lhs, Rhs: rhs}
	if !types.Equals(cmp.Type(), types.Boolean) {
		t.Errorf("expected boolean comparison, got %s", cmp.Type().Repr())
	}
}
