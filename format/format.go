// Package format renders parse trees and diagnostics for machine consumers.
package format

import (
	"encoding"

	"github.com/dhamidi/yaksok/diag"
	"github.com/dhamidi/yaksok/node"
)

type TreeEncoder interface {
	encoding.TextMarshaler
	Encode(root node.Node) error
}

type DiagnosticEncoder interface {
	Encode(diags []*diag.Diagnostic) error
}
