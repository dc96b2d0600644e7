package hfsm

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/persist"
	"github.com/aretw0/hfsm/pkg/schema"
	"github.com/aretw0/hfsm/pkg/states"
)

// Format names a layer encoding.
type Format string

const (
	FormatYAML   Format = "yaml"
	FormatJSON   Format = "json"
	FormatBinary Format = "binary"
)

// FormatOf guesses the encoding from a file extension. Unknown extensions
// are read as YAML, which also accepts JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".bin", ".hfsm", ".asset":
		return FormatBinary
	default:
		return FormatYAML
	}
}

// Decode reads a layer in the given format with the built-in state and
// service types.
func Decode(data []byte, format Format) (*domain.Layer, error) {
	if format == FormatBinary {
		return persist.Read(bytes.NewReader(data), states.Defaults())
	}
	return schema.Load(data, schema.DefaultRegistry())
}

// Encode writes layer in the given format.
func Encode(layer *domain.Layer, format Format) ([]byte, error) {
	if format == FormatBinary {
		var buf bytes.Buffer
		if err := persist.Write(&buf, layer); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	doc, err := schema.Encode(layer)
	if err != nil {
		return nil, err
	}
	if format == FormatJSON {
		return schema.EncodeJSON(doc)
	}
	return schema.EncodeYAML(doc)
}

// LoadLayer reads a layer file, picking the decoder from its extension.
func LoadLayer(path string) (*domain.Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layer: %w", err)
	}
	layer, err := Decode(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return layer, nil
}

// Open loads a layer file and compiles it into an Animator.
func Open(path string, opts ...Option) (*Animator, error) {
	layer, err := LoadLayer(path)
	if err != nil {
		return nil, err
	}
	return New(layer, opts...)
}
