package pipeline

import (
	"strconv"
	"strings"

	"github.com/byte4ever/nanotpl/interp"
)

// Builtins returns the callables available to function
// stages built by Default and Load:
//
//	#{upper:x}    upper-cases x
//	#{lower:x}    lower-cases x
//	#{trim:x}     trims surrounding spaces
//	#{quote:x}    Go-quotes x
//	#{default:x}  x, or unresolved when no argument is given
func Builtins() map[string]any {
	return map[string]any{
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"trim":  strings.TrimSpace,
		"quote": strconv.Quote,
		"default": interp.Func(func(arg string, ok bool) (any, error) {
			if !ok {
				return nil, interp.ErrUnresolved
			}

			return arg, nil
		}),
	}
}
