package interp

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// stringify renders a resolved value. Nil renders as
// "null"; maps, slices, arrays and structs render as
// compact JSON.
func stringify(v any) string {
	switch tv := v.(type) {
	case nil:
		return "null"
	case string:
		return tv
	case bool:
		return strconv.FormatBool(tv)
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice,
		reflect.Interface, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return "null"
		}
	}

	switch tv := v.(type) {
	case fmt.Stringer:
		return tv.String()
	case error:
		return tv.Error()
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16,
		reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16,
		reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return formatFloat(rv.Float(), 32)
	case reflect.Float64:
		return formatFloat(rv.Float(), 64)
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Pointer:
		return stringify(rv.Elem().Interface())
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		buf, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}

		return string(buf)
	default:
		return fmt.Sprint(v)
	}
}

// formatFloat uses plain notation for magnitudes in
// [1e-6, 1e21) and exponent notation with an unpadded
// exponent outside of it, so 1e21 renders as "1e+21" and
// 1e-7 as "1e-7".
func formatFloat(f float64, bits int) string {
	abs := math.Abs(f)
	if abs == 0 || math.IsInf(f, 0) || math.IsNaN(f) ||
		(abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, bits)
	}

	out := strconv.FormatFloat(f, 'e', -1, bits)

	mant, exp, _ := strings.Cut(out, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")

	return mant + "e" + sign + digits
}
