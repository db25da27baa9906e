package interpreter

import "rune/pkg/runtime"

// stringify implements the display rule used by print and by "+"'s
// string-concatenation fallback.
func (i *Interpreter) stringify(v runtime.Value) (string, error) {
	switch val := v.(type) {
	case runtime.NilValue:
		return "nil", nil
	case runtime.BoolValue:
		if val.Val {
			return "true", nil
		}
		return "false", nil
	case runtime.NumberValue:
		return formatNumber(val.Val), nil
	case runtime.StringValue:
		return val.Val, nil
	case *runtime.FunctionValue:
		return "<fn " + val.Name() + ">", nil
	case *runtime.LambdaValue:
		return "<fn>", nil
	case *runtime.NativeFunctionValue:
		return "<native func>", nil
	case *runtime.ClassValue:
		return val.ClassName + "::class", nil
	case *runtime.InstanceValue:
		return val.Class.ClassName + " instance", nil
	default:
		return "", nil
	}
}
