// Package checks loads and validates check definitions.
//
// A checks file is a multi-document YAML stream holding one check per
// document. Every document is validated against an embedded JSON schema
// and the whole load fails if any document is invalid.
package checks

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// ValidationError describes one rejected document.
type ValidationError struct {
	// Index is the zero-based position of the document in the stream,
	// counting empty documents.
	Index int
	// Line is the line the document starts on, or 0 if unknown.
	Line int
	// Name is the check name when the document has one.
	Name string
	Err  error
}

func (e *ValidationError) Error() string {
	where := fmt.Sprintf("document %d", e.Index)
	if e.Line > 0 {
		where += fmt.Sprintf(" (line %d)", e.Line)
	}
	if e.Name != "" {
		where += fmt.Sprintf(" %q", e.Name)
	}
	return fmt.Sprintf("%s: %v", where, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ErrDuplicateName is wrapped by the error returned for a repeated check name.
var ErrDuplicateName = errors.New("duplicate check name")

// LoadFile opens path and loads the check definitions it contains.
func LoadFile(path string) ([]core.CheckDefinition, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open checks file: %w", err)
	}
	defer func() { _ = f.Close() }()

	defs, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("invalid checks file %s: %w", path, err)
	}
	return defs, nil
}

// Load reads a multi-document YAML stream and returns the check definitions
// in source order. Empty documents are skipped. If any document fails schema
// validation, or a name repeats, no definitions are returned and the error
// lists every problem found.
func Load(r io.Reader) ([]core.CheckDefinition, error) {
	dec := yaml.NewDecoder(r)

	var (
		defs   []core.CheckDefinition
		result *multierror.Error
		seen   = make(map[string]int)
	)

	for index := 0; ; index++ {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// The stream is unreadable past this point.
			result = multierror.Append(result, &ValidationError{Index: index, Err: err})
			break
		}

		def, skip, err := decodeDocument(&node)
		if skip {
			continue
		}
		if err != nil {
			result = multierror.Append(result, &ValidationError{
				Index: index,
				Line:  node.Line,
				Name:  documentName(&node),
				Err:   err,
			})
			continue
		}

		if first, dup := seen[def.Name]; dup {
			result = multierror.Append(result, &ValidationError{
				Index: index,
				Line:  node.Line,
				Name:  def.Name,
				Err:   fmt.Errorf("%w: first defined in document %d", ErrDuplicateName, first),
			})
			continue
		}
		seen[def.Name] = index
		defs = append(defs, def)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return defs, nil
}

// decodeDocument validates one document node and converts it.
// skip is true for empty documents.
func decodeDocument(node *yaml.Node) (def core.CheckDefinition, skip bool, err error) {
	content := node
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return def, true, nil
		}
		content = node.Content[0]
	}
	if content.Kind == yaml.ScalarNode && content.Tag == "!!null" {
		return def, true, nil
	}
	if content.Kind != yaml.MappingNode {
		return def, false, fmt.Errorf("document must be a mapping, got %s", kindName(content.Kind))
	}

	var doc map[string]any
	if err := content.Decode(&doc); err != nil {
		return def, false, err
	}
	if err := validateDocument(doc); err != nil {
		return def, false, err
	}
	if err := content.Decode(&def); err != nil {
		return def, false, err
	}
	return def, false, nil
}

// documentName extracts the name field for error messages, if present.
func documentName(node *yaml.Node) string {
	content := node
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		content = node.Content[0]
	}
	if content.Kind != yaml.MappingNode {
		return ""
	}
	for i := 0; i+1 < len(content.Content); i += 2 {
		if content.Content[i].Value == "name" && content.Content[i+1].Kind == yaml.ScalarNode {
			return content.Content[i+1].Value
		}
	}
	return ""
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}

// Last restricts a check-set to its final definition.
// An empty set stays empty.
func Last(defs []core.CheckDefinition) []core.CheckDefinition {
	if len(defs) == 0 {
		return defs
	}
	return defs[len(defs)-1:]
}

// Names returns the check names in order.
func Names(defs []core.CheckDefinition) []string {
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}
