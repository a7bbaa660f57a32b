// Package validate checks a reduced tree for names that were never defined and
// for nodes the parser could not turn into statements.
package validate

import (
	"github.com/dhamidi/yaksok/diag"
	"github.com/dhamidi/yaksok/node"
)

// selfName is bound inside method bodies.
const selfName = "자신"

type Option func(*validator)

// WithNames predefines names in the outermost scope, e.g. values the host
// runtime provides.
func WithNames(names ...string) Option {
	return func(v *validator) {
		for _, n := range names {
			v.global.names[n] = true
		}
	}
}

type scope struct {
	parent *scope
	names  map[string]bool
}

func (s *scope) child(names ...string) *scope {
	c := &scope{parent: s, names: map[string]bool{}}
	for _, n := range names {
		c.names[n] = true
	}
	return c
}

func (s *scope) defined(name string) bool {
	for ; s != nil; s = s.parent {
		if s.names[name] {
			return true
		}
	}
	return false
}

type validator struct {
	global *scope
	diags  []*diag.Diagnostic
}

// Block validates root in source order. Assignments define a name for what
// follows them; declaration bodies see their parameters and everything
// defined around them up to that point.
func Block(root *node.Block, opts ...Option) []*diag.Diagnostic {
	v := &validator{global: &scope{names: map[string]bool{}}}
	for _, opt := range opts {
		opt(v)
	}
	v.block(root, v.global)
	return v.diags
}

func (v *validator) report(d *diag.Diagnostic) {
	v.diags = append(v.diags, d)
}

func (v *validator) block(b *node.Block, sc *scope) {
	for _, c := range b.Children {
		v.statement(c, sc)
	}
}

func (v *validator) statement(n node.Node, sc *scope) {
	switch n := n.(type) {
	case *node.EOL, *node.Indent, *node.Number, *node.String, *node.Operator, *node.Mention:
	case *node.Block:
		v.block(n, sc)
	case *node.SetVariable:
		v.value(n.Value, sc)
		if n.Op != "=" && !sc.defined(n.Name) {
			v.report(diag.NotDefined(n.Name, n.Tokens()[:1]))
		}
		sc.names[n.Name] = true
	case *node.Print:
		v.value(n.Value, sc)
	case *node.Return:
		if n.Value != nil {
			v.value(n.Value, sc)
		}
	case *node.If:
		for _, c := range n.Cases {
			if c.Cond != nil {
				v.value(c.Cond, sc)
			}
			v.block(c.Body, sc)
		}
	case *node.Loop:
		v.block(n.Body, sc)
	case *node.ListLoop:
		v.value(n.List, sc)
		sc.names[n.Name] = true
		v.block(n.Body, sc)
	case *node.CountLoop:
		v.value(n.Count, sc)
		v.block(n.Body, sc)
	case *node.Break:
	case *node.DeclareFunction:
		v.block(n.Body, sc.child(n.Params...))
	case *node.DeclareMethod:
		v.block(n.Body, sc.child(append([]string{selfName}, n.Params...)...))
	case *node.DeclareFFI:
	case *node.DeclareClass:
		sc.names[n.Name] = true
		v.block(n.Body, sc.child(selfName))
	case *node.Expression, *node.ElseIf, *node.Else, *node.FFIBody, *node.Sequence, *node.KeyValue:
		v.report(diag.NotExecutable(n.Tokens()))
	default:
		v.value(n, sc)
	}
}

func (v *validator) value(n node.Node, sc *scope) {
	switch n := n.(type) {
	case *node.Identifier:
		if !sc.defined(n.Name) {
			v.report(diag.NotDefined(n.Name, n.Tokens()))
		}
	case *node.NewInstance:
		if !sc.defined(n.Class) {
			v.report(diag.NotDefined(n.Class, n.Tokens()))
		}
	case *node.Expression:
		v.report(diag.NotExecutable(n.Tokens()))
	case *node.FunctionInvoke:
		// destructured parameters share one argument
		seen := map[node.Node]bool{}
		for _, p := range n.Params {
			arg := p.Value
			if f, ok := arg.(*node.IndexFetch); ok {
				if seen[f.Target] {
					continue
				}
				seen[f.Target] = true
			}
			v.value(arg, sc)
		}
	default:
		for _, c := range node.Children(n) {
			v.value(c, sc)
		}
	}
}
