package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/hfsm/pkg/domain"
)

// Document is the YAML/JSON form of a layer. Nodes and transition targets
// are referenced by title.
type Document struct {
	Name   string     `json:"name" yaml:"name"`
	Values []ValueDoc `json:"values,omitempty" yaml:"values,omitempty"`
	Root   NodeDoc    `json:"root" yaml:"root"`
}

// ValueDoc declares a blackboard entry.
type ValueDoc struct {
	Name    string `json:"name" yaml:"name"`
	Type    string `json:"type" yaml:"type"`
	Default any    `json:"default,omitempty" yaml:"default,omitempty"`
}

// NodeDoc is a node. It is a group when it lists child nodes.
type NodeDoc struct {
	Title       string           `json:"title" yaml:"title"`
	Rect        *domain.Rect     `json:"rect,omitempty" yaml:"rect,omitempty"`
	State       map[string]any   `json:"state,omitempty" yaml:"state,omitempty"`
	Services    []map[string]any `json:"services,omitempty" yaml:"services,omitempty"`
	Transitions []TransitionDoc  `json:"transitions,omitempty" yaml:"transitions,omitempty"`

	// Group fields.
	Name    string    `json:"name,omitempty" yaml:"name,omitempty"`
	Default string    `json:"default,omitempty" yaml:"default,omitempty"`
	Any     string    `json:"any,omitempty" yaml:"any,omitempty"`
	Exit    string    `json:"exit,omitempty" yaml:"exit,omitempty"`
	Nodes   []NodeDoc `json:"nodes,omitempty" yaml:"nodes,omitempty"`
}

// IsGroup reports whether the node declares children or group indices.
func (n *NodeDoc) IsGroup() bool {
	return len(n.Nodes) > 0 || n.Default != "" || n.Any != "" || n.Exit != ""
}

// TransitionDoc is a transition to a sibling. Without Immediate or ExitTime
// it waits for the state to finish.
type TransitionDoc struct {
	To        string         `json:"to" yaml:"to"`
	Name      string         `json:"name,omitempty" yaml:"name,omitempty"`
	Weight    *float64       `json:"weight,omitempty" yaml:"weight,omitempty"`
	ExitTime  *float64       `json:"exit_time,omitempty" yaml:"exit_time,omitempty"`
	Immediate bool           `json:"immediate,omitempty" yaml:"immediate,omitempty"`
	When      []ConditionDoc `json:"when,omitempty" yaml:"when,omitempty"`
}

// ConditionDoc compares a value to a constant. Next combines it with the
// chain so far and is ignored on the first condition.
type ConditionDoc struct {
	Value string `json:"value" yaml:"value"`
	Op    string `json:"op" yaml:"op"`
	Const any    `json:"const" yaml:"const"`
	Next  string `json:"next,omitempty" yaml:"next,omitempty"`
}

// Parse decodes a YAML or JSON document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &doc, nil
}

// EncodeYAML renders the document as YAML.
func EncodeYAML(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeJSON renders the document as indented JSON.
func EncodeJSON(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return data, nil
}
