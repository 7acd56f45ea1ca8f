package interpreter

import (
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/token"
)

type outcomeKind int

const (
	outcomeNormal outcomeKind = iota
	outcomeReturn
	outcomeBreak
)

// outcome is how a statement completed. Blocks, loops and conditionals pass
// non-normal outcomes upward; calls turn returns into values.
type outcome struct {
	kind    outcomeKind
	value   runtime.Value
	keyword token.Token
}

var normal = outcome{kind: outcomeNormal}
