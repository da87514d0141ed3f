package report

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/procstats/pkg/pipeline"
)

const defaultIndent = "  "

// yamlIndent is the number of spaces per YAML nesting level.
const yamlIndent = 2

// Codec serializes a Document.
type Codec interface {
	// Encode writes doc to w.
	Encode(w io.Writer, doc Document) error
	// Extension returns the conventional file extension, e.g. ".json".
	Extension() string
}

// JSONCodec encodes with goccy/go-json. An empty Indent produces compact output.
type JSONCodec struct {
	Indent string
}

// NewJSONCodec returns a pretty-printing JSON codec.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{Indent: defaultIndent}
}

// Encode implements Codec.
func (c *JSONCodec) Encode(w io.Writer, doc Document) error {
	encoder := json.NewEncoder(w)
	if c.Indent != "" {
		encoder.SetIndent("", c.Indent)
	}

	err := encoder.Encode(doc)
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

// Extension implements Codec.
func (c *JSONCodec) Extension() string {
	return ".json"
}

// YAMLCodec encodes with yaml.v3.
type YAMLCodec struct{}

// NewYAMLCodec returns a YAML codec.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Encode implements Codec.
func (c *YAMLCodec) Encode(w io.Writer, doc Document) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(yamlIndent)

	err := encoder.Encode(doc)
	if err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}

	return nil
}

// Extension implements Codec.
func (c *YAMLCodec) Extension() string {
	return ".yaml"
}

// CodecWriter adapts a Codec to Writer.
type CodecWriter struct {
	Codec Codec
}

// Write implements Writer.
func (cw *CodecWriter) Write(w io.Writer, results []pipeline.Result) error {
	return cw.Codec.Encode(w, NewDocument(results))
}
