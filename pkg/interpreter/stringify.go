package interpreter

import (
	"math"
	"strconv"

	"lox/interpreter-go/pkg/runtime"
)

// Stringify renders a value the way print shows it.
func Stringify(v runtime.Value) string {
	switch val := v.(type) {
	case nil, runtime.NilValue:
		return "nil"
	case runtime.BoolValue:
		return strconv.FormatBool(val.Val)
	case runtime.NumberValue:
		return FormatNumber(val.Val)
	case runtime.StringValue:
		return val.Val
	case *runtime.NativeFunctionValue:
		return "<native fn>"
	case *runtime.FunctionValue:
		if name := val.Name(); name != "" {
			return "<fn " + name + ">"
		}
		return "<lambda>"
	case *runtime.ClassValue:
		return "<class " + val.Name + ">"
	case *runtime.InstanceValue:
		return val.Class.Name + " instance"
	default:
		return "<unknown>"
	}
}

// FormatNumber prints integral values without a fractional part.
func FormatNumber(n float64) string {
	switch {
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case math.IsNaN(n):
		return "NaN"
	}
	// Shortest round-trip form; whole numbers carry no ".0".
	return strconv.FormatFloat(n, 'f', -1, 64)
}
