package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/yaksok/node"
	"github.com/dhamidi/yaksok/token"
)

type TreeJSONEncoder struct {
	w    io.Writer
	root node.Node
}

func NewTreeJSONEncoder(w io.Writer) *TreeJSONEncoder {
	return &TreeJSONEncoder{w: w}
}

func (e *TreeJSONEncoder) Encode(root node.Node) error {
	e.root = root
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *TreeJSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(nodeToJSON(e.root), "", "  ")
}

type treeJSONNode struct {
	Kind     string          `json:"kind"`
	Span     *jsonSpan       `json:"span,omitempty"`
	Text     string          `json:"text,omitempty"`
	Name     string          `json:"name,omitempty"`
	Params   []string        `json:"params,omitempty"`
	Receiver []string        `json:"receivers,omitempty"`
	Keys     []string        `json:"keys,omitempty"`
	Children []*treeJSONNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func nodeToJSON(n node.Node) *treeJSONNode {
	if n == nil {
		return nil
	}
	jn := &treeJSONNode{
		Kind: n.Kind().String(),
		Text: n.Text(),
	}
	jn.Span = spanOf(n.Tokens())

	switch n := n.(type) {
	case *node.String:
		jn.Text = n.Value
	case *node.SetVariable:
		jn.Name = n.Name
		jn.Text = n.Op
	case *node.NewInstance:
		jn.Name = n.Class
	case *node.FunctionInvoke:
		jn.Name = n.Name
		for _, p := range n.Params {
			jn.Params = append(jn.Params, p.Name)
		}
	case *node.MentionInvoke:
		jn.Name = n.File
	case *node.DeclareFunction:
		jn.Name = n.Name
		jn.Params = n.Params
	case *node.DeclareMethod:
		jn.Name = n.Name
		jn.Params = n.Params
		jn.Receiver = n.Receivers
	case *node.DeclareFFI:
		jn.Name = n.Name
		jn.Params = n.Params
		jn.Text = n.Runtime
	case *node.DeclareClass:
		jn.Name = n.Name
	case *node.ListLoop:
		jn.Name = n.Name
	case *node.Dict:
		for _, e := range n.Entries {
			jn.Keys = append(jn.Keys, e.Key)
		}
	}

	children := node.Children(n)
	if len(children) > 0 {
		jn.Children = make([]*treeJSONNode, len(children))
		for i, child := range children {
			jn.Children[i] = nodeToJSON(child)
		}
	}

	return jn
}

func spanOf(tokens []token.Token) *jsonSpan {
	if len(tokens) == 0 {
		return nil
	}
	start := tokens[0].Pos
	end := tokens[len(tokens)-1].End()
	return &jsonSpan{
		Start: jsonPosition{Line: start.Line, Column: start.Column},
		End:   jsonPosition{Line: end.Line, Column: end.Column},
	}
}
