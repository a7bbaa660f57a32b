// Package codefile runs the front end over one source file: declaration
// headers become rules, the rules become the file's grammar, and the grammar
// reduces the file into a tree.
package codefile

import (
	"errors"
	"slices"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/yaksok/diag"
	"github.com/dhamidi/yaksok/disambiguate"
	"github.com/dhamidi/yaksok/grammar"
	"github.com/dhamidi/yaksok/header"
	"github.com/dhamidi/yaksok/node"
	"github.com/dhamidi/yaksok/parser"
	"github.com/dhamidi/yaksok/token"
	"github.com/dhamidi/yaksok/validate"
)

// DefaultMaxVariants caps the rules generated per declaration.
const DefaultMaxVariants = 4096

// Session supplies what a file can see besides its own declarations.
type Session interface {
	// Exports returns the exported rules of the named file.
	Exports(name string) ([]grammar.Rule, bool)
	// Prelude returns rules every file can call.
	Prelude() []grammar.Rule
	// Extensions returns rules registered by host extensions.
	Extensions() []grammar.Rule
}

type Option func(*compiler)

func WithSession(s Session) Option {
	return func(c *compiler) {
		c.session = s
	}
}

func WithLogger(log commonlog.Logger) Option {
	return func(c *compiler) {
		c.log = log
	}
}

// WithMaxVariants overrides DefaultMaxVariants. Zero disables the cap.
func WithMaxVariants(n int) Option {
	return func(c *compiler) {
		c.maxVariants = n
	}
}

// WithNames predefines names for validation.
func WithNames(names ...string) Option {
	return func(c *compiler) {
		c.names = append(c.names, names...)
	}
}

type compiler struct {
	session     Session
	log         commonlog.Logger
	maxVariants int
	names       []string
}

// Result is one compiled file.
type Result struct {
	Name   string
	Source string
	// Tokens is the token list after both disambiguation passes. Every token
	// in Tree is an element of it.
	Tokens []token.Token
	// Remap translates indices of the scanned tokens into Tokens.
	Remap     disambiguate.Remap
	Templates []*header.Template
	Grammar   *grammar.Grammar
	Tree      *node.Block
	// Mentions lists the mentioned files in order of first mention.
	Mentions []string

	structural []*diag.Diagnostic
	exports    []grammar.Rule
	phrases    []string
	names      []string
}

// Compile runs every front end stage over src. Problems are recorded on the
// result; Compile itself never fails.
func Compile(name, src string, opts ...Option) *Result {
	c := &compiler{
		log:         commonlog.GetLogger("yaksok.codefile"),
		maxVariants: DefaultMaxVariants,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c.compile(name, src)
}

func (c *compiler) compile(name, src string) *Result {
	r := &Result{Name: name, Source: src, names: c.names}

	toks := header.MergeBranches(token.Tokenize(src))
	scanned := len(toks)

	var declared, local, methods []grammar.Rule
	for _, rng := range header.Ranges(toks) {
		t, err := header.Compile(rng, toks)
		if err != nil {
			var d *diag.Diagnostic
			if !errors.As(err, &d) {
				d = diag.Unexpected("약속 이름", rng.Header(toks))
			}
			r.structural = append(r.structural, d)
			continue
		}
		r.Templates = append(r.Templates, t)

		var vopts []header.VariantOption
		if c.maxVariants > 0 {
			if header.Count(t) > c.maxVariants {
				r.structural = append(r.structural, diag.New(diag.CodeTooManyVariants, t.Name, t.Tokens))
			}
			vopts = append(vopts, header.WithMaxVariants(c.maxVariants))
		}
		declared = append(declared, header.DeclareRule(t))
		if t.Kind == header.DeclMethod {
			methods = append(methods, header.CallRules(t, vopts...)...)
		} else {
			local = append(local, header.CallRules(t, vopts...)...)
		}
	}
	r.exports = grammar.Exported(slices.Concat(local, methods))

	sources := []grammar.Source{
		{Kind: grammar.SourceDeclaration, Rules: declared},
		{Kind: grammar.SourceLocal, Rules: local},
		{Kind: grammar.SourceMethod, Rules: methods},
	}
	mentioned, exported := c.mentions(r, toks)
	sources = append(sources, mentioned...)

	visible := slices.Concat(local, methods, exported)
	if c.session != nil {
		ext, prelude := c.session.Extensions(), c.session.Prelude()
		sources = append(sources,
			grammar.Source{Kind: grammar.SourceExtension, Rules: ext},
			grammar.Source{Kind: grammar.SourcePrelude, Rules: prelude},
		)
		visible = slices.Concat(visible, ext, prelude)
	}
	r.phrases = phrases(visible)

	r.Grammar = grammar.Assemble(grammar.BaseGrammar(), sources...)
	c.log.Debugf("%s: %d templates, %d call rules, %d mentions", name, len(r.Templates), len(local)+len(methods), len(r.Mentions))

	toks, first := disambiguate.SplitTokens(toks, r.Grammar.Vocabulary())
	root := node.GroupBlocks(node.FromTokens(toks))
	toks, second := disambiguate.SplitNodes(root, toks, r.Grammar.HeaderSuffixes())
	r.Tokens = toks
	r.Remap = first.Then(second)
	if len(toks) != scanned {
		c.log.Debugf("%s: disambiguation added %d tokens", name, len(toks)-scanned)
	}

	r.Tree = parser.Parse(root, r.Grammar, parser.WithLogger(c.log))
	return r
}

// mentions resolves every `@file` in toks through the session. It returns
// the wrapped rules as sources and the unwrapped rules they came from.
func (c *compiler) mentions(r *Result, toks []token.Token) ([]grammar.Source, []grammar.Rule) {
	var sources []grammar.Source
	var exported []grammar.Rule
	seen := map[string]bool{}
	for _, tok := range toks {
		if tok.Kind != token.Mention {
			continue
		}
		file := strings.TrimPrefix(tok.Text, "@")
		if seen[file] {
			continue
		}
		seen[file] = true

		var rules []grammar.Rule
		ok := false
		if c.session != nil {
			rules, ok = c.session.Exports(file)
		}
		if !ok {
			c.log.Warningf("%s: mentioned file %q is unknown", r.Name, file)
			r.structural = append(r.structural, diag.New(diag.CodeUnknownMention, file, []token.Token{tok}))
			continue
		}
		r.Mentions = append(r.Mentions, file)
		exported = append(exported, rules...)
		sources = append(sources, grammar.Source{
			Kind:  grammar.SourceMention,
			Name:  file,
			Rules: grammar.Mentioned(file, rules),
		})
	}
	return sources, exported
}

func phrases(rules []grammar.Rule) []string {
	var names []string
	for _, r := range rules {
		names = append(names, r.Name)
	}
	return diag.Phrases(names)
}

// Exports returns the call rules other files can use by mentioning this one.
func (r *Result) Exports() []grammar.Rule {
	return r.exports
}

// Check returns the file's diagnostics after postprocessing. Declaration and
// mention problems are reported on their own; a tree built from a broken
// grammar is not validated.
func (r *Result) Check() []*diag.Diagnostic {
	diags := r.structural
	if len(diags) == 0 {
		diags = validate.Block(r.Tree, validate.WithNames(r.names...))
	}
	return diag.Postprocess(diags, r.Tokens, diag.WithVocabulary(r.phrases))
}

// Digest fingerprints the file's declarations. Files with equal digests
// export equal rules.
func (r *Result) Digest() ([32]byte, error) {
	return header.DigestAll(r.Templates)
}
