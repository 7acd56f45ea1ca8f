package resolver

import (
	"fmt"
	"strings"
)

// ResolveError is one static-scoping diagnostic.
type ResolveError struct {
	Line    int
	Where   string
	Message string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Line, e.Where, e.Message)
}

// ErrorList aggregates the errors from one resolution pass.
type ErrorList []*ResolveError

func (l ErrorList) Error() string {
	if len(l) == 0 {
		return "resolver: no errors"
	}
	parts := make([]string, 0, len(l))
	for _, err := range l {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "\n")
}
