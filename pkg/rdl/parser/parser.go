package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"mercator-hq/ifccheck/pkg/rdl/ast"
	rdlErrors "mercator-hq/ifccheck/pkg/rdl/errors"
)

// Parser decodes rule definition files into documents.
// A document with any decode error is rejected as a whole.
type Parser struct {
	registry     *Registry
	maxFileSize  int64 // Maximum file size in bytes (default: 10MB)
	maxDepth     int   // Maximum group/not nesting depth (default: 32)
	maxPathSteps int   // Maximum steps in one path (default: 64)
	contextLines int   // Source lines shown around an error (default: 2)
}

// NewParser creates a parser using DefaultRegistry.
func NewParser() *Parser {
	return &Parser{
		registry:     DefaultRegistry(),
		maxFileSize:  10 * 1024 * 1024,
		maxDepth:     32,
		maxPathSteps: 64,
		contextLines: 2,
	}
}

// WithRegistry replaces the variant registry.
func (p *Parser) WithRegistry(r *Registry) *Parser {
	p.registry = r
	return p
}

// WithMaxFileSize sets the maximum file size limit.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

// WithMaxDepth sets the maximum nesting depth of groups and not checks.
// Zero disables the limit.
func (p *Parser) WithMaxDepth(depth int) *Parser {
	p.maxDepth = depth
	return p
}

// WithMaxPathSteps sets the maximum number of steps in one path.
// Zero disables the limit.
func (p *Parser) WithMaxPathSteps(steps int) *Parser {
	p.maxPathSteps = steps
	return p
}

// Registry returns the registry the parser dispatches with.
func (p *Parser) Registry() *Registry {
	return p.registry
}

// Parse reads and decodes the rule file at path.
func (p *Parser) Parse(path string) (*ast.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &rdlErrors.Error{
			Type:     rdlErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Failed to access file: %v", err),
			Location: ast.Location{File: path},
		}
	}
	if info.Size() > p.maxFileSize {
		return nil, &rdlErrors.Error{
			Type:     rdlErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("File size %d exceeds maximum %d bytes", info.Size(), p.maxFileSize),
			Location: ast.Location{File: path},
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &rdlErrors.Error{
			Type:     rdlErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Failed to read file: %v", err),
			Location: ast.Location{File: path},
		}
	}
	return p.ParseBytes(data, path)
}

// ParseReader decodes a rule document from r.
func (p *Parser) ParseReader(r io.Reader, sourcePath string) (*ast.Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, p.maxFileSize+1))
	if err != nil {
		return nil, &rdlErrors.Error{
			Type:     rdlErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Failed to read rules: %v", err),
			Location: ast.Location{File: sourcePath},
		}
	}
	return p.ParseBytes(data, sourcePath)
}

// ParseBytes decodes a rule document held in memory. JSON input is accepted
// as it is a subset of YAML.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (*ast.Document, error) {
	if int64(len(data)) > p.maxFileSize {
		return nil, &rdlErrors.Error{
			Type:     rdlErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Data size %d exceeds maximum %d bytes", len(data), p.maxFileSize),
			Location: ast.Location{File: sourcePath},
		}
	}

	var root yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &rdlErrors.Error{
				Type:       rdlErrors.ErrorTypeStructural,
				Message:    "rule document is empty",
				Location:   ast.Location{File: sourcePath, Line: 1, Column: 1},
				Suggestion: rdlErrors.SuggestMissingField("rules", "[...]"),
			}
		}
		return nil, &rdlErrors.Error{
			Type:       rdlErrors.ErrorTypeSyntax,
			Message:    fmt.Sprintf("YAML parsing failed: %v", err),
			Location:   ast.Location{File: sourcePath, Line: 1, Column: 1},
			Suggestion: "Check YAML syntax (indentation, colons, quotes)",
		}
	}

	d := &decoder{
		registry:     p.registry,
		file:         sourcePath,
		errs:         rdlErrors.NewErrorList(),
		maxDepth:     p.maxDepth,
		maxPathSteps: p.maxPathSteps,
	}
	doc := d.decodeDocument(&root)

	if d.errs.HasErrors() {
		d.errs.WithContext(data, p.contextLines)
		return nil, d.errs
	}
	return doc, nil
}

// ParseMulti decodes several rule files and concatenates their rules in order.
// Errors of all files are reported together.
func (p *Parser) ParseMulti(paths []string) (*ast.Document, error) {
	if len(paths) == 0 {
		return nil, &rdlErrors.Error{
			Type:    rdlErrors.ErrorTypeIO,
			Message: "No rule files provided",
		}
	}

	merged := &ast.Document{SourceFile: paths[0], Rules: make([]*ast.Rule, 0)}
	all := rdlErrors.NewErrorList()

	for _, path := range paths {
		doc, err := p.Parse(path)
		if err != nil {
			var list *rdlErrors.ErrorList
			var single *rdlErrors.Error
			switch {
			case errors.As(err, &list):
				all.Merge(list)
			case errors.As(err, &single):
				all.Add(single)
			default:
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
			continue
		}
		merged.Rules = append(merged.Rules, doc.Rules...)
	}

	if err := all.ToError(); err != nil {
		return nil, err
	}
	return merged, nil
}
