// Package schema validates the generated types-registry files against
// embedded JSON Schemas before they are published.
package schema

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Schema file names.
const (
	Package = "package.schema.json"
	Index   = "index.schema.json"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	compiled    map[string]*jsonschema.Schema
	compileOnce sync.Once
	compileErr  error
	printer     = message.NewPrinter(language.English)
)

// Result contains the outcome of a schema validation.
type Result struct {
	Valid  bool
	Issues []Issue
}

// Issue is a single validation failure.
type Issue struct {
	Path    string // Instance location, e.g. "/entries/node"
	Message string
	Keyword string
}

func (i Issue) String() string {
	path := i.Path
	if path == "" {
		path = "/"
	}
	return path + ": " + i.Message
}

// Err returns nil for a valid result, or an error listing every issue.
func (r *Result) Err() error {
	if r.Valid {
		return nil
	}
	msgs := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		msgs = append(msgs, issue.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}

func getSchemas() (map[string]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		for _, name := range []string{Package, Index} {
			raw, err := schemaFS.ReadFile("schemas/" + name)
			if err != nil {
				compileErr = fmt.Errorf("reading schema %s: %w", name, err)
				return
			}
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
			if err != nil {
				compileErr = fmt.Errorf("unmarshaling schema %s: %w", name, err)
				return
			}
			if err := c.AddResource(name, doc); err != nil {
				compileErr = fmt.Errorf("adding schema resource %s: %w", name, err)
				return
			}
		}

		out := make(map[string]*jsonschema.Schema, 2)
		for _, name := range []string{Package, Index} {
			s, err := c.Compile(name)
			if err != nil {
				compileErr = fmt.Errorf("compiling schema %s: %w", name, err)
				return
			}
			out[name] = s
		}
		compiled = out
	})
	return compiled, compileErr
}

// Validate checks JSON data against the named schema. The error return is for
// malformed input or schema compilation failures; validation issues are
// reported in the Result.
func Validate(name string, data []byte) (*Result, error) {
	schemas, err := getSchemas()
	if err != nil {
		return nil, fmt.Errorf("loading schemas: %w", err)
	}
	s, ok := schemas[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	err = s.Validate(inst)
	if err == nil {
		return &Result{Valid: true}, nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}
	return &Result{Valid: false, Issues: extractIssues(ve)}, nil
}

// ValidatePackage validates package.json content.
func ValidatePackage(data []byte) (*Result, error) {
	return Validate(Package, data)
}

// ValidateIndex validates index.json content.
func ValidateIndex(data []byte) (*Result, error) {
	return Validate(Index, data)
}

// ValidateFile reads path and validates it against the named schema.
func ValidateFile(name, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Validate(name, data)
}

func extractIssues(ve *jsonschema.ValidationError) []Issue {
	var issues []Issue
	collectIssues(ve, &issues)
	if len(issues) == 0 {
		return []Issue{{Message: ve.Error()}}
	}
	return dedupe(issues)
}

// collectIssues walks the error tree down to the leaves, which carry the
// specific property and keyword that failed.
func collectIssues(ve *jsonschema.ValidationError, issues *[]Issue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}
		return
	}

	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}

	keyword, msg := "", ""
	if ve.ErrorKind != nil {
		if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
			keyword = kw[len(kw)-1]
		}
		msg = ve.ErrorKind.LocalizedString(printer)
	}
	if keyword == "allOf" || keyword == "$ref" {
		return
	}

	*issues = append(*issues, Issue{Path: path, Message: msg, Keyword: keyword})
}

func dedupe(issues []Issue) []Issue {
	seen := make(map[string]bool)
	var out []Issue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			out = append(out, issue)
		}
	}
	return out
}
