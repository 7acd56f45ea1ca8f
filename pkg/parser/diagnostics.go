package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ParseError is one syntax diagnostic. Where is the " at 'x'" fragment used
// by the console reporter.
type ParseError struct {
	Line    int
	Where   string
	Message string
	AtEnd   bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Line, e.Where, e.Message)
}

// ErrorList aggregates every syntax error reported during one parse.
type ErrorList []*ParseError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "parser: no errors"
	case 1:
		return l[0].Error()
	}
	parts := make([]string, 0, len(l))
	for _, err := range l {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "\n")
}

// IsIncomplete reports whether err stems from running out of input, which
// the REPL treats as a request for a continuation line.
func IsIncomplete(err error) bool {
	var list ErrorList
	if !errors.As(err, &list) || len(list) == 0 {
		return false
	}
	for _, e := range list {
		if !e.AtEnd {
			return false
		}
	}
	return true
}
