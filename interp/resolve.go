package interp

import (
	"reflect"
	"strconv"
	"strings"
)

// resolver turns one token into its substitution. A
// failure matching ErrUnresolved is subject to the
// engine's strict or lenient policy.
type resolver interface {
	resolve(ma Match, data map[string]any) (string, error)
}

// Func is the general callable shape for function mode.
// ok is false when the token carries no argument.
type Func func(arg string, ok bool) (any, error)

type variableResolver struct{}

func (variableResolver) resolve(
	ma Match,
	data map[string]any,
) (string, error) {
	var cur any = data

	segs := strings.Split(ma.Token, ".")

	for _, seg := range segs {
		next, found := lookup(cur, seg)
		if !found {
			return "", &UnresolvedVariableError{
				Segment: seg,
				Tag:     ma.Tag,
			}
		}

		cur = next
	}

	// Functions are only reachable through a functions stage.
	if cur != nil && reflect.TypeOf(cur).Kind() == reflect.Func {
		return "", &UnresolvedVariableError{
			Segment: segs[len(segs)-1],
			Tag:     ma.Tag,
		}
	}

	return stringify(cur), nil
}

type functionResolver struct{}

func (functionResolver) resolve(
	ma Match,
	data map[string]any,
) (string, error) {
	name, arg, ok := strings.Cut(ma.Token, ":")

	fn := callable(data[name])
	if fn == nil {
		return "", &MissingFunctionError{
			Name: name,
			Tag:  ma.Tag,
		}
	}

	val, err := fn(arg, ok)
	if err != nil {
		return "", err
	}

	return stringify(val), nil
}

// callable adapts the supported function shapes to Func.
// It returns nil for anything else.
func callable(v any) Func {
	switch fn := v.(type) {
	case Func:
		return fn
	case func(string, bool) (any, error):
		return fn
	case func(string, bool) string:
		return func(arg string, ok bool) (any, error) {
			return fn(arg, ok), nil
		}
	case func() string:
		return func(string, bool) (any, error) {
			return fn(), nil
		}
	case func() (string, error):
		return func(string, bool) (any, error) {
			return fn()
		}
	case func(string) string:
		return func(arg string, _ bool) (any, error) {
			return fn(arg), nil
		}
	case func(string) (string, error):
		return func(arg string, _ bool) (any, error) {
			return fn(arg)
		}
	}

	return nil
}

// lookup indexes cur by key. It reports false when cur
// cannot be indexed or has no such entry.
func lookup(cur any, key string) (any, bool) {
	switch tv := cur.(type) {
	case nil:
		return nil, false
	case map[string]any:
		val, ok := tv[key]
		return val, ok
	case map[string]string:
		val, ok := tv[key]
		return val, ok
	}

	rv := reflect.ValueOf(cur)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		return lookupMap(rv, key)
	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= rv.Len() {
			return nil, false
		}

		return rv.Index(idx).Interface(), true
	case reflect.Struct:
		fv := rv.FieldByName(key)
		if !fv.IsValid() || !fv.CanInterface() {
			return nil, false
		}

		return fv.Interface(), true
	default:
		return nil, false
	}
}

func lookupMap(rv reflect.Value, key string) (any, bool) {
	kt := rv.Type().Key()

	var kv reflect.Value

	switch {
	case kt.Kind() == reflect.String:
		kv = reflect.ValueOf(key).Convert(kt)
	case kt.Kind() == reflect.Interface:
		if !reflect.TypeOf(key).AssignableTo(kt) {
			return nil, false
		}

		kv = reflect.ValueOf(key)
	default:
		return nil, false
	}

	val := rv.MapIndex(kv)
	if !val.IsValid() {
		return nil, false
	}

	return val.Interface(), true
}
