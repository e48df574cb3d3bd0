// Package snapshot decodes, validates and fetches graph snapshots handed
// to the visualization by the data layer.
package snapshot

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/synapse/internal/wordgraph"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema://synapse/snapshot.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error

	validate = validator.New()
)

// DefaultCategory is used when a record carries no category.
const DefaultCategory = "vocabulary"

// Format is a snapshot document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown snapshot extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// ID is a node identifier. Documents may spell it as a JSON number (as
// the web API does) or a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Node is one vocabulary record.
type Node struct {
	ID       ID       `json:"id" yaml:"id" validate:"required"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
	Word     string   `json:"word,omitempty" yaml:"word,omitempty"`
	Status   string   `json:"status" yaml:"status" validate:"required,oneof=ghost solid"`
	Category string   `json:"category,omitempty" yaml:"category,omitempty"`
	X        *float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y        *float64 `json:"y,omitempty" yaml:"y,omitempty"`
}

// DisplayLabel returns label, falling back to word and then the id.
func (n Node) DisplayLabel() string {
	switch {
	case n.Label != "":
		return n.Label
	case n.Word != "":
		return n.Word
	default:
		return string(n.ID)
	}
}

// Link is one relation between two records.
type Link struct {
	Source       ID     `json:"source" yaml:"source" validate:"required"`
	Target       ID     `json:"target" yaml:"target" validate:"required"`
	RelationType string `json:"relation_type,omitempty" yaml:"relation_type,omitempty"`
}

// Snapshot is the complete graph handed over by the data layer.
type Snapshot struct {
	Nodes []Node `json:"nodes" yaml:"nodes" validate:"dive"`
	Links []Link `json:"links" yaml:"links" validate:"dive"`
}

// Graph converts the snapshot to load arguments for wordgraph.Model.
// Referential integrity is left to Model.Load.
func (s *Snapshot) Graph() ([]wordgraph.NodeSpec, []wordgraph.Edge) {
	nodes := make([]wordgraph.NodeSpec, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		spec := wordgraph.NodeSpec{
			ID:       string(n.ID),
			Label:    n.DisplayLabel(),
			Status:   wordgraph.Status(n.Status),
			Category: n.Category,
		}
		if spec.Category == "" {
			spec.Category = DefaultCategory
		}
		if n.X != nil && n.Y != nil {
			spec.Position = &wordgraph.Point{X: *n.X, Y: *n.Y}
		}
		nodes = append(nodes, spec)
	}
	edges := make([]wordgraph.Edge, 0, len(s.Links))
	for _, l := range s.Links {
		edges = append(edges, wordgraph.Edge{
			SourceID:     string(l.Source),
			TargetID:     string(l.Target),
			RelationType: l.RelationType,
		})
	}
	return nodes, edges
}

// NormalizeStatus maps a learning-state status onto the two display
// statuses: only "solid" stays solid, everything else ("ghost",
// "liquid", ...) is drawn as a ghost.
func NormalizeStatus(status string) string {
	if strings.EqualFold(strings.TrimSpace(status), string(wordgraph.StatusSolid)) {
		return string(wordgraph.StatusSolid)
	}
	return string(wordgraph.StatusGhost)
}

// Decode parses a document, checks it against the snapshot schema and
// the record rules. Failures are *ErrInvalidSnapshot.
func Decode(data []byte, format Format) (*Snapshot, error) {
	return decode(data, format, "input", false)
}

func decode(data []byte, format Format, source string, normalize bool) (*Snapshot, error) {
	invalid := func(err error) error { return &ErrInvalidSnapshot{Source: source, Err: err} }

	if format == FormatYAML {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, invalid(fmt.Errorf("parse yaml: %w", err))
		}
		js, err := json.Marshal(doc)
		if err != nil {
			return nil, invalid(fmt.Errorf("convert yaml: %w", err))
		}
		data = js
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, invalid(fmt.Errorf("parse json: %w", err))
	}
	if normalize {
		normalizeDoc(doc)
		var err error
		if data, err = json.Marshal(doc); err != nil {
			return nil, invalid(err)
		}
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("snapshot schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, invalid(fmt.Errorf("schema validation failed: %w", err))
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, invalid(fmt.Errorf("decode: %w", err))
	}
	if err := validate.Struct(&s); err != nil {
		return nil, invalid(formatValidationError(err))
	}
	return &s, nil
}

// normalizeDoc rewrites node statuses in a generic document in place.
func normalizeDoc(doc any) {
	root, ok := doc.(map[string]any)
	if !ok {
		return
	}
	nodes, _ := root["nodes"].([]any)
	for _, n := range nodes {
		m, ok := n.(map[string]any)
		if !ok {
			continue
		}
		s, _ := m["status"].(string)
		m["status"] = NormalizeStatus(s)
	}
}

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s: field is required", e.Namespace()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: must be one of [%s], got %q", e.Namespace(), e.Param(), e.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: validation failed (%s)", e.Namespace(), e.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
