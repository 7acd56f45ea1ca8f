package runtime

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUndefinedVariable is wrapped by lookups that miss the whole chain.
var ErrUndefinedVariable = errors.New("undefined variable")

// Environment is one lexical scope frame. Frames only point outward; many
// children (closures, active calls) may share one parent, and the garbage
// collector keeps a frame alive as long as anything still references it.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Define inserts or shadows a binding in the current scope.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w '%s'", ErrUndefinedVariable, name)
}

// Assign updates an existing binding in the first scope where it appears.
// It never declares a new name.
func (e *Environment) Assign(name string, value Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = value
			return nil
		}
	}
	return fmt.Errorf("%w '%s'", ErrUndefinedVariable, name)
}

// Ancestor walks distance parent links. It returns nil if the chain is
// shorter than distance.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance && env != nil; i++ {
		env = env.parent
	}
	return env
}

// GetAt reads name directly from the frame distance hops out, without
// consulting the frames in between.
func (e *Environment) GetAt(distance int, name string) (Value, error) {
	env := e.Ancestor(distance)
	if env == nil {
		return nil, fmt.Errorf("%w '%s' (scope depth %d out of range)", ErrUndefinedVariable, name, distance)
	}
	v, ok := env.values[name]
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUndefinedVariable, name)
	}
	return v, nil
}

// AssignAt writes name into the frame distance hops out.
func (e *Environment) AssignAt(distance int, name string, value Value) error {
	env := e.Ancestor(distance)
	if env == nil {
		return fmt.Errorf("%w '%s' (scope depth %d out of range)", ErrUndefinedVariable, name, distance)
	}
	env.values[name] = value
	return nil
}

// Has reports whether this frame (not its parents) binds name.
func (e *Environment) Has(name string) bool {
	_, ok := e.values[name]
	return ok
}

// Keys returns the bindings in sorted order (useful for determinism in tests).
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
