package types

import "testing"

func TestBuiltinEquality(t *testing.T) {
	if !Equals(Integer, Integer) {
		t.Error("expected integer == integer")
	}

	if Equals(Integer, Dword) {
		t.Error("expected integer != dword")
	}

	if Equals(Integer, nil) {
		t.Error("expected integer != void")
	}

	if !Equals(nil, nil) {
		t.Error("expected void == void")
	}
}

func TestStructuralEquality(t *testing.T) {
	cases := []struct {
		a, b  Type
		equal bool
	}{
		{&UDTType{Name: "vec"}, &UDTType{Name: "vec"}, true},
		{&UDTType{Name: "vec"}, &UDTType{Name: "mat"}, false},
		{&ArrayType{Elem: Integer}, &ArrayType{Elem: Integer}, true},
		{&ArrayType{Elem: Integer}, &ArrayType{Elem: Float}, false},
		{&ArrayType{Elem: Integer}, Integer, false},
		{&UDTType{Name: "vec"}, &ArrayType{Elem: &UDTType{Name: "vec"}}, false},
	}

	for i, c := range cases {
		if Equals(c.a, c.b) != c.equal {
			t.Errorf("case %d: expected Equals(%s, %s) == %v", i+1, c.a.Repr(), c.b.Repr(), c.equal)
		}
	}
}

func TestArchetypePredicates(t *testing.T) {
	integrals := []Type{Boolean, Byte, Word, Dword, Integer, DoubleInteger}
	for _, typ := range integrals {
		if !IsIntegral(typ) {
			t.Errorf("expected %s to be integral", typ.Repr())
		}
		if IsFloatingPoint(typ) {
			t.Errorf("expected %s to not be floating-point", typ.Repr())
		}
	}

	floats := []Type{Float, DoubleFloat}
	for _, typ := range floats {
		if !IsFloatingPoint(typ) {
			t.Errorf("expected %s to be floating-point", typ.Repr())
		}
		if IsIntegral(typ) {
			t.Errorf("expected %s to not be integral", typ.Repr())
		}
	}

	for _, typ := range []Type{String, &UDTType{Name: "vec"}, &ArrayType{Elem: Integer}, nil} {
		if IsIntegral(typ) || IsFloatingPoint(typ) {
			t.Error("expected non-numeric type to match no archetype")
		}
	}
}

func TestUnsignedPredicate(t *testing.T) {
	for _, typ := range []Type{Boolean, Byte, Word, Dword} {
		if !IsUnsigned(typ) {
			t.Errorf("expected %s to be unsigned", typ.Repr())
		}
	}

	for _, typ := range []Type{Integer, DoubleInteger, Float, String} {
		if IsUnsigned(typ) {
			t.Errorf("expected %s to be signed", typ.Repr())
		}
	}
}
