package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/token"
)

// ErrorKind classifies runtime failures.
type ErrorKind int

const (
	TypeError ErrorKind = iota
	DivisionByZero
	UndefinedVariable
	UndefinedProperty
	NotCallable
	ArityMismatch
	InvalidSuperclass
	InvalidAccess
	StackOverflow
	InvalidControlFlow
)

var errorKindNames = [...]string{
	TypeError:          "TypeError",
	DivisionByZero:     "DivisionByZero",
	UndefinedVariable:  "UndefinedVariable",
	UndefinedProperty:  "UndefinedProperty",
	NotCallable:        "NotCallable",
	ArityMismatch:      "ArityMismatch",
	InvalidSuperclass:  "InvalidSuperclass",
	InvalidAccess:      "InvalidAccess",
	StackOverflow:      "StackOverflow",
	InvalidControlFlow: "InvalidControlFlow",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// RuntimeError aborts the current top-level Interpret call. Token locates
// the failure for the diagnostic line.
type RuntimeError struct {
	Kind    ErrorKind
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

func newRuntimeError(kind ErrorKind, tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Kind: kind, Token: tok, Message: fmt.Sprintf(format, args...)}
}

// ExitRequest is returned when the exit native runs under an exit hook that
// returns instead of terminating the process.
type ExitRequest struct {
	Code int
}

func (e ExitRequest) Error() string {
	return fmt.Sprintf("exit requested with code %d", e.Code)
}
