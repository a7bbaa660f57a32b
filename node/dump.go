package node

import (
	"fmt"
	"strings"
)

// Dump renders n as an indented tree, one node per line.
func Dump(n Node) string {
	var b strings.Builder
	dump(&b, n, 0, false)
	return b.String()
}

// DumpWithPositions is Dump with the start position of every node.
func DumpWithPositions(n Node) string {
	var b strings.Builder
	dump(&b, n, 0, true)
	return b.String()
}

func dump(b *strings.Builder, n Node, indent int, positions bool) {
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(n.Kind().String())
	if positions {
		if toks := n.Tokens(); len(toks) > 0 {
			b.WriteString(" [" + toks[0].Pos.String() + "]")
		}
	}
	if d := detail(n); d != "" {
		b.WriteString(" " + d)
	}
	b.WriteString("\n")

	for _, c := range Children(n) {
		dump(b, c, indent+1, positions)
	}
}

func detail(n Node) string {
	switch n := n.(type) {
	case *Identifier:
		return n.Name
	case *Number:
		return n.Raw
	case *String:
		return fmt.Sprintf("%q", n.Value)
	case *Expression:
		return fmt.Sprintf("%q", n.Symbol)
	case *Operator:
		return n.Op
	case *Mention:
		return "@" + n.File
	case *SetVariable:
		return n.Name + " " + n.Op
	case *NewInstance:
		return n.Class
	case *FunctionInvoke:
		names := make([]string, len(n.Params))
		for i, p := range n.Params {
			names[i] = p.Name
		}
		return fmt.Sprintf("%q (%s)", n.Name, strings.Join(names, ", "))
	case *MentionInvoke:
		return "@" + n.File
	case *DeclareFunction:
		return fmt.Sprintf("%q", n.Name)
	case *DeclareMethod:
		return fmt.Sprintf("(%s) %q", strings.Join(n.Receivers, ", "), n.Name)
	case *DeclareFFI:
		return fmt.Sprintf("(%s) %q", n.Runtime, n.Name)
	case *DeclareClass:
		return n.Name
	case *ListLoop:
		return n.Name
	case *KeyValue:
		return entryKeys(n.Entries)
	case *Dict:
		return entryKeys(n.Entries)
	}
	return ""
}

func entryKeys(entries []Entry) string {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return "(" + strings.Join(keys, ", ") + ")"
}
