package lookup

import (
	"fmt"

	"github.com/itchyny/gojq"
)

// Path is a compiled jq expression used to pull a value out of a decoded
// JSON document, e.g. ".data" or ".departure.airport".
type Path struct {
	expr string
	code *gojq.Code
}

// CompilePath parses and compiles a jq expression
func CompilePath(expr string) (*Path, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression %q: %w", expr, err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression %q: %w", expr, err)
	}

	return &Path{expr: expr, code: code}, nil
}

// MustCompilePath is CompilePath for expressions known at build time
func MustCompilePath(expr string) *Path {
	p, err := CompilePath(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source expression
func (p *Path) String() string {
	return p.expr
}

// Lookup evaluates the path against v and returns its first result.
// ok is false when the path yields nothing, yields null, or fails
// (for example indexing into a string).
func (p *Path) Lookup(v any) (any, bool) {
	iter := p.code.Run(v)
	result, ok := iter.Next()
	if !ok {
		return nil, false
	}
	if _, isErr := result.(error); isErr {
		return nil, false
	}
	if result == nil {
		return nil, false
	}
	return result, true
}
