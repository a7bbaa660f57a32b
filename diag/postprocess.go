package diag

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/yaksok/token"
)

// Processor rewrites the diagnostics of one source line. It receives the
// line's diagnostics in order and the file's full token list.
type Processor func(line []*Diagnostic, tokens []token.Token) []*Diagnostic

// DefaultProcessors run in this order on every line.
var DefaultProcessors = []Processor{
	DropTrailingPrint,
	ConditionalEquality,
	StrayAssignment,
}

const (
	printKeyword     = "보여주기"
	conditionKeyword = "만약"

	// maxSuggestionDistance is exclusive.
	maxSuggestionDistance = 4
	longSpanColumns       = 5
)

type postprocessor struct {
	processors []Processor
	vocabulary []string
	log        commonlog.Logger
}

type Option func(*postprocessor)

// WithProcessors replaces the line rewrite rules.
func WithProcessors(ps ...Processor) Option {
	return func(p *postprocessor) {
		p.processors = ps
	}
}

// WithVocabulary enables suggestions. phrases are the static parts of the
// headers visible to the file, see Phrases.
func WithVocabulary(phrases []string) Option {
	return func(p *postprocessor) {
		p.vocabulary = phrases
	}
}

func WithLogger(log commonlog.Logger) Option {
	return func(p *postprocessor) {
		p.log = log
	}
}

// Postprocess groups diags by line, applies the line rewrite rules, merges
// adjacent undefined-identifier diagnostics and attaches suggestions. The
// input diagnostics are not modified.
func Postprocess(diags []*Diagnostic, tokens []token.Token, opts ...Option) []*Diagnostic {
	p := &postprocessor{
		processors: DefaultProcessors,
		log:        commonlog.GetLogger("yaksok.diag"),
	}
	for _, opt := range opts {
		opt(p)
	}

	var out []*Diagnostic
	for _, line := range groupByLine(diags) {
		for _, proc := range p.processors {
			if len(line) == 0 {
				break
			}
			line = proc(line, tokens)
		}
		out = append(out, line...)
	}

	before := len(out)
	out = mergeAdjacent(out, tokens)
	if merged := before - len(out); merged > 0 {
		p.log.Debugf("merged %d undefined identifier diagnostics", merged)
	}

	if len(p.vocabulary) > 0 {
		for _, d := range out {
			p.suggest(d)
		}
	}
	return out
}

type lineGroup struct {
	key   int
	diags []*Diagnostic
}

// groupByLine clones diags into per-line groups ordered by line. A
// positionless diagnostic forms its own group, ordered after the line of the
// diagnostic preceding it.
func groupByLine(diags []*Diagnostic) [][]*Diagnostic {
	var groups []*lineGroup
	byLine := map[int]*lineGroup{}
	lastLine := 0
	for _, d := range diags {
		d = d.Clone()
		pos, ok := d.Position()
		if !ok {
			groups = append(groups, &lineGroup{key: lastLine, diags: []*Diagnostic{d}})
			continue
		}
		lastLine = pos.Line
		g, seen := byLine[pos.Line]
		if !seen {
			g = &lineGroup{key: pos.Line}
			byLine[pos.Line] = g
			groups = append(groups, g)
		}
		g.diags = append(g.diags, d)
	}
	slices.SortStableFunc(groups, func(a, b *lineGroup) int {
		return cmp.Compare(a.key, b.key)
	})

	out := make([][]*Diagnostic, len(groups))
	for i, g := range groups {
		out[i] = g.diags
	}
	return out
}

// mergeAdjacent scans from the end and folds each undefined-identifier
// diagnostic into its predecessor when their spans touch in tokens, allowing
// one whitespace token between them.
func mergeAdjacent(diags []*Diagnostic, tokens []token.Token) []*Diagnostic {
	idx := token.NewIndex(tokens)
	for i := len(diags) - 1; i >= 1; i-- {
		cur, prev := diags[i], diags[i-1]
		if cur.Code != CodeNotDefinedIdentifier || prev.Code != CodeNotDefinedIdentifier {
			continue
		}
		if len(cur.Tokens) == 0 || len(prev.Tokens) == 0 {
			continue
		}
		prevStart := idx.Of(prev.Tokens[0])
		prevEnd := idx.Of(prev.Tokens[len(prev.Tokens)-1])
		curStart := idx.Of(cur.Tokens[0])
		curEnd := idx.Of(cur.Tokens[len(cur.Tokens)-1])
		if prevStart < 0 || prevEnd < 0 || curStart < 0 || curEnd < 0 {
			continue
		}
		adjacent := curStart == prevEnd+1 ||
			(curStart == prevEnd+2 && tokens[prevEnd+1].Kind == token.Space)
		if !adjacent {
			continue
		}

		covered := append([]token.Token(nil), tokens[prevStart:curEnd+1]...)
		prev.Tokens = covered
		prev.Name = token.Join(covered)
		prev.Suggestion = ""
		diags = append(diags[:i], diags[i+1:]...)
	}
	return diags
}

// DropTrailingPrint removes an undefined 보여주기 at the end of a line. It is
// always a symptom of the value before it failing to parse.
func DropTrailingPrint(line []*Diagnostic, _ []token.Token) []*Diagnostic {
	last := line[len(line)-1]
	if last.Code == CodeNotDefinedIdentifier && last.Name == printKeyword {
		return line[:len(line)-1]
	}
	return line
}

// ConditionalEquality turns a lone `=` inside a 만약 line into one diagnostic
// asking for `==`.
func ConditionalEquality(line []*Diagnostic, _ []token.Token) []*Diagnostic {
	assign := findAssign(line)
	if assign == nil {
		return line
	}
	for _, d := range line {
		if d.Code == CodeNotDefinedIdentifier && d.Name == conditionKeyword {
			assign.Code = CodeUseEqualityOperator
			assign.Name = assign.Tokens[0].Text
			return []*Diagnostic{assign}
		}
	}
	return line
}

// StrayAssignment reports the text on the left of an `=` that could not be
// parsed as an assignment as an invalid variable name. The other diagnostics
// of the line are consequences of it.
func StrayAssignment(line []*Diagnostic, tokens []token.Token) []*Diagnostic {
	assign := findAssign(line)
	if assign == nil {
		return line
	}
	at := token.NewIndex(tokens).Of(assign.Tokens[0])
	if at < 0 {
		return line
	}

	start := at
	for start > 0 {
		prev := tokens[start-1]
		if prev.Kind == token.NewLine || prev.Kind == token.Indent {
			break
		}
		start--
	}
	lhs := trimSpace(tokens[start:at])
	if len(lhs) == 0 {
		return line
	}

	assign.Code = CodeInvalidVariableName
	assign.Tokens = append([]token.Token(nil), lhs...)
	assign.Name = token.Join(lhs)
	return []*Diagnostic{assign}
}

func findAssign(line []*Diagnostic) *Diagnostic {
	for _, d := range line {
		if d.Code == CodeNotExecutable && len(d.Tokens) == 1 &&
			d.Tokens[0].Kind == token.Assigner && d.Tokens[0].Text == "=" {
			return d
		}
	}
	return nil
}

func trimSpace(tokens []token.Token) []token.Token {
	for len(tokens) > 0 && tokens[0].Kind.IsTrivia() {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && tokens[len(tokens)-1].Kind.IsTrivia() {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

// long reports whether d spans several lines or more than a few columns; only
// those are worth a suggestion.
func long(d *Diagnostic) bool {
	start, ok := d.Position()
	if !ok {
		return false
	}
	end, _ := d.End()
	return end.Line != start.Line || end.Column-start.Column > longSpanColumns
}

func (p *postprocessor) suggest(d *Diagnostic) {
	if d.Code != CodeNotDefinedIdentifier || !long(d) {
		return
	}
	var b strings.Builder
	for _, tok := range d.Tokens {
		if tok.Kind == token.NewLine || tok.Kind == token.Indent || tok.Text == printKeyword {
			continue
		}
		b.WriteString(tok.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return
	}

	best, bestDistance := "", maxSuggestionDistance
	for _, phrase := range p.vocabulary {
		if distance := fuzzy.LevenshteinDistance(text, phrase); distance < bestDistance {
			best, bestDistance = phrase, distance
		}
	}
	if best != "" && best != text {
		p.log.Debugf("suggesting %q for %q", best, text)
		d.Suggestion = best
	}
}

var placeholder = regexp.MustCompile(`\([^)]*\)`)

// Phrases splits header display names into their static parts, the text
// between parameters: `(값)을 (수)로 나누기` gives `을` and `로 나누기`. Each
// part is matched on its own. Duplicates are removed; order is kept.
func Phrases(names []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, name := range names {
		for _, part := range placeholder.Split(name, -1) {
			part = strings.TrimSpace(part)
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			out = append(out, part)
		}
	}
	return out
}
