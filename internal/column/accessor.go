package column

import (
	"reflect"
	"strconv"
	"strings"
)

// GetterFunc computes a cell value from a row.
type GetterFunc func(row any, rowIndex int, col Column) any

// AccessorKind tags which variant an Accessor holds.
type AccessorKind int

const (
	// AccessorNone resolves every cell to no value.
	AccessorNone AccessorKind = iota
	// AccessorPath walks a dotted path into the row.
	AccessorPath
	// AccessorFunc calls a getter function.
	AccessorFunc
)

// Accessor is either a dotted path or a getter function.
type Accessor struct {
	kind AccessorKind
	path string
	fn   GetterFunc
}

// PathAccessor returns an accessor reading the dotted path from the row.
// Numeric segments index into slices.
func PathAccessor(path string) Accessor {
	if path == "" {
		return Accessor{}
	}
	return Accessor{kind: AccessorPath, path: path}
}

// FuncAccessor returns an accessor calling fn.
func FuncAccessor(fn GetterFunc) Accessor {
	if fn == nil {
		return Accessor{}
	}
	return Accessor{kind: AccessorFunc, fn: fn}
}

// Kind reports the accessor variant.
func (a Accessor) Kind() AccessorKind { return a.kind }

// Path returns the dotted path of a path accessor.
func (a Accessor) Path() string { return a.path }

// Resolve returns the cell value and whether one was found.
func (a Accessor) Resolve(row any, rowIndex int, col Column) (any, bool) {
	switch a.kind {
	case AccessorPath:
		return Lookup(row, a.path)
	case AccessorFunc:
		v := a.fn(row, rowIndex, col)
		return v, v != nil
	default:
		return nil, false
	}
}

// CellValue resolves the value of col for row. Placeholder columns never
// carry a value.
func CellValue(col Column, row any, rowIndex int) (any, bool) {
	if col.Placeholder {
		return nil, false
	}
	return col.Accessor.Resolve(row, rowIndex, col)
}

// Lookup walks a dotted path through maps, slices and structs.
func Lookup(root any, path string) (any, bool) {
	cur := reflect.ValueOf(root)
	for _, seg := range strings.Split(path, ".") {
		var ok bool
		if cur, ok = step(cur, seg); !ok {
			return nil, false
		}
	}
	if !cur.IsValid() || !cur.CanInterface() {
		return nil, false
	}
	v := cur.Interface()
	return v, v != nil
}

func step(v reflect.Value, seg string) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return reflect.Value{}, false
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		out := v.MapIndex(reflect.ValueOf(seg).Convert(v.Type().Key()))
		return out, out.IsValid()
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= v.Len() {
			return reflect.Value{}, false
		}
		return v.Index(i), true
	case reflect.Struct:
		if f := v.FieldByName(seg); f.IsValid() && f.CanInterface() {
			return f, true
		}
		f := v.FieldByNameFunc(func(name string) bool { return strings.EqualFold(name, seg) })
		return f, f.IsValid() && f.CanInterface()
	default:
		return reflect.Value{}, false
	}
}
