package resolver

// FunctionKind tracks what sort of body is being resolved.
type FunctionKind int

const (
	FunctionNone FunctionKind = iota
	FunctionPlain
	FunctionInitializer
	FunctionMethod
	FunctionStaticMethod
)

type ClassKind int

const (
	ClassNone ClassKind = iota
	ClassPlain
	ClassSubclass
)

type LoopKind int

const (
	LoopNone LoopKind = iota
	LoopWhile
)
