package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) initGlobals() {
	i.DefineNative("clock", 0, func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
		now := i.clock()
		return runtime.NumberValue{Val: float64(now.UnixNano()) / 1e9}, nil
	})
	i.DefineNative("print", 1, func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		fmt.Fprintln(i.stdout, Stringify(args[0]))
		return runtime.NilValue{}, nil
	})
	i.DefineNative("exit", 0, func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
		i.logger.Debug("exit requested")
		i.exit(0)
		return nil, ExitRequest{Code: 0}
	})
}

// DefineNative installs a host function in the global environment.
func (i *Interpreter) DefineNative(name string, arity int, impl runtime.NativeFunc) {
	i.globals.Define(name, &runtime.NativeFunctionValue{Name: name, ParamCount: arity, Impl: impl})
}
