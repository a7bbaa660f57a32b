// Package extension loads host extension manifests. A manifest names the
// functions a host runtime provides by their yaksok headers; every header
// compiles to invocation rules like a declaration in a file would.
package extension

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/yaksok/grammar"
	"github.com/dhamidi/yaksok/header"
	"github.com/dhamidi/yaksok/token"
)

//go:embed manifest.schema.json
var schemaSource string

const schemaURL = "schema://extension-manifest.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if compiler.Formats == nil {
		compiler.Formats = make(map[string]func(interface{}) bool)
	}
	compiler.Formats["semver"] = func(v interface{}) bool {
		s, ok := v.(string)
		if !ok {
			return true
		}
		return semver.IsValid(canonicalVersion(s))
	}
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaSource)); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
})

type Manifest struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	// Requires is the lowest host version the extension works with.
	Requires string `yaml:"requires,omitempty"`
	Runtime  string `yaml:"runtime,omitempty"`
	// Names are values the host defines in every file.
	Names     []string   `yaml:"names,omitempty"`
	Functions []Function `yaml:"functions"`
}

type Function struct {
	Header      string `yaml:"header"`
	Description string `yaml:"description,omitempty"`
}

// Load reads a manifest file. JSON and YAML are both accepted.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates a manifest. YAML is a superset of JSON, so one
// decoder serves both.
func Parse(data []byte) (*Manifest, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// validateDocument checks doc against the manifest schema. The document is
// passed through JSON first so the validator sees JSON types only, with
// numbers decoded as json.Number.
func validateDocument(doc interface{}) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("manifest schema: %w", err)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("manifest is not a JSON document: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var inst interface{}
	if err := dec.Decode(&inst); err != nil {
		return fmt.Errorf("manifest is not a JSON document: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("invalid manifest: %w", err)
	}
	return nil
}

// Supports reports whether a host at hostVersion satisfies m.Requires.
func (m *Manifest) Supports(hostVersion string) bool {
	if m.Requires == "" {
		return true
	}
	return semver.Compare(canonicalVersion(hostVersion), canonicalVersion(m.Requires)) >= 0
}

// Rules compiles every function header into exported invocation rules.
func (m *Manifest) Rules() ([]grammar.Rule, error) {
	var rules []grammar.Rule
	for _, fn := range m.Functions {
		t, err := compileHeader(fn.Header)
		if err != nil {
			return nil, fmt.Errorf("function %q: %w", fn.Header, err)
		}
		rules = append(rules, header.InvokeRules(t)...)
	}
	return rules, nil
}

func compileHeader(h string) (*header.Template, error) {
	toks := header.MergeBranches(token.Tokenize("약속, " + strings.TrimSpace(h) + "\n"))
	ranges := header.Ranges(toks)
	if len(ranges) != 1 {
		return nil, fmt.Errorf("not a single header")
	}
	return header.Compile(ranges[0], toks)
}

func canonicalVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
