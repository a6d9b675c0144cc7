package construct

import "reflect"

// Shape classifies a type by how a default instance is built for it.
type Shape uint8

const (
	ShapeUnknown Shape = iota
	ShapeValue         // bool, numbers, strings, arrays, structs
	ShapePointer
	ShapeList // slices
	ShapeSet  // map[K]struct{} and map[K]bool
	ShapeMap
	ShapeSeq  // iter.Seq[E], read-only view of a list
	ShapeSeq2 // iter.Seq2[K, V], read-only view of a map
	ShapeChan
	ShapeInterface
)

func (s Shape) String() string {
	switch s {
	case ShapeValue:
		return "value"
	case ShapePointer:
		return "pointer"
	case ShapeList:
		return "list"
	case ShapeSet:
		return "set"
	case ShapeMap:
		return "map"
	case ShapeSeq:
		return "seq"
	case ShapeSeq2:
		return "seq2"
	case ShapeChan:
		return "chan"
	case ShapeInterface:
		return "interface"
	default:
		return "unknown"
	}
}

// ShapeOf classifies t.
func ShapeOf(t reflect.Type) Shape {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String, reflect.Array, reflect.Struct:
		return ShapeValue
	case reflect.Pointer:
		return ShapePointer
	case reflect.Slice:
		return ShapeList
	case reflect.Map:
		if isSetElem(t.Elem()) {
			return ShapeSet
		}
		return ShapeMap
	case reflect.Func:
		return seqShape(t)
	case reflect.Chan:
		if t.ChanDir() == reflect.BothDir {
			return ShapeChan
		}
	case reflect.Interface:
		return ShapeInterface
	}
	return ShapeUnknown
}

func isSetElem(t reflect.Type) bool {
	return t.Kind() == reflect.Bool || (t.Kind() == reflect.Struct && t.NumField() == 0)
}

// seqShape matches func(yield func(E) bool) and func(yield func(K, V) bool).
func seqShape(t reflect.Type) Shape {
	if t.NumIn() != 1 || t.NumOut() != 0 || t.IsVariadic() {
		return ShapeUnknown
	}
	yield := t.In(0)
	if yield.Kind() != reflect.Func || yield.NumOut() != 1 || yield.Out(0).Kind() != reflect.Bool {
		return ShapeUnknown
	}
	switch yield.NumIn() {
	case 1:
		return ShapeSeq
	case 2:
		return ShapeSeq2
	default:
		return ShapeUnknown
	}
}
