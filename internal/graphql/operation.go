package graphql

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// Operation is a parsed, named GraphQL document ready to be executed.
// Documents are package-level constants at the call sites, so parsing
// happens once per process.
type Operation struct {
	document string
	name     string
	mutation bool
}

// MustOperation parses a GraphQL document and extracts the name of its
// first operation. It panics on a malformed or anonymous document; both are
// programmer errors in a compile-time constant.
func MustOperation(document string) Operation {
	doc, err := parser.ParseQuery(&ast.Source{Input: document})
	if err != nil {
		panic(fmt.Sprintf("graphql: parse document: %v", err))
	}
	if len(doc.Operations) == 0 {
		panic("graphql: document has no operations")
	}
	op := doc.Operations[0]
	if op.Name == "" {
		panic("graphql: operation must be named")
	}
	return Operation{
		document: document,
		name:     op.Name,
		mutation: op.Operation == ast.Mutation,
	}
}

// Name returns the operation name sent as operationName on the wire.
func (o Operation) Name() string { return o.name }

// IsMutation reports whether the operation is a mutation.
func (o Operation) IsMutation() bool { return o.mutation }
