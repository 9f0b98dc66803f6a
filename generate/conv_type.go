package generate

import (
	"dbpc/ir"
	"dbpc/report"
	"dbpc/types"

	llconst "github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
)

// convType converts a data type to its LLVM representation.  The void type
// (nil) converts to the LLVM void type; strings are raw character pointers as
// expected by the engine ABI.
func (g *Generator) convType(typ types.Type) lltypes.Type {
	if types.IsVoid(typ) {
		return lltypes.Void
	}

	switch v := typ.(type) {
	case types.BuiltinType:
		return convBuiltinType(v)
	case *types.UDTType, *types.ArrayType:
		report.ReportICE("cannot lower type %s", typ.Repr())
	}

	report.ReportICE("unknown type %T", typ)
	return nil
}

func convBuiltinType(bt types.BuiltinType) lltypes.Type {
	switch bt {
	case types.Boolean:
		return lltypes.I1
	case types.Byte:
		return lltypes.I8
	case types.Word:
		return lltypes.I16
	case types.Dword, types.Integer:
		return lltypes.I32
	case types.DoubleInteger:
		return lltypes.I64
	case types.Float:
		return lltypes.Float
	case types.DoubleFloat:
		return lltypes.Double
	case types.String:
		return lltypes.I8Ptr
	}

	report.ReportICE("unknown builtin type %d", bt)
	return nil
}

// zeroValue returns the zero constant of a data type.
func (g *Generator) zeroValue(typ types.Type) llconst.Constant {
	bt, ok := typ.(types.BuiltinType)
	if !ok {
		report.ReportICE("no zero value for type %T", typ)
	}

	switch bt {
	case types.Float:
		return llconst.NewFloat(lltypes.Float, 0)
	case types.DoubleFloat:
		return llconst.NewFloat(lltypes.Double, 0)
	case types.String:
		return g.globalString("")
	default:
		return llconst.NewInt(convBuiltinType(bt).(*lltypes.IntType), 0)
	}
}

// annotationFor derives the annotation a parameter of the given type carries.
// Parameter annotations are recoverable from their types because parameter
// types only ever come from annotations.
func annotationFor(typ types.Type) ir.Annotation {
	switch {
	case types.Equals(typ, types.String):
		return ir.AnnotationString
	case types.Equals(typ, types.Float):
		return ir.AnnotationFloat
	}

	return ir.AnnotationNone
}
