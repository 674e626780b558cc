package bundle

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"gopkg.in/yaml.v3"
)

// File extensions for supported codecs.
const (
	jsonExtension = ".json"
	yamlExtension = ".yaml"
	lz4Extension  = ".lz4"
)

// Default indentation for pretty-printed JSON.
const defaultIndent = "  "

// Codec defines how a bundle is serialized and deserialized.
type Codec interface {
	// Encode writes the value to the writer.
	Encode(w io.Writer, value any) error
	// Decode reads the value from the reader.
	Decode(r io.Reader, value any) error
	// Extension returns the file extension for this codec.
	Extension() string
}

// JSONCodec implements Codec using JSON encoding with optional indentation.
type JSONCodec struct {
	// Indent specifies the indentation string. Empty string means compact JSON.
	Indent string
}

// NewJSONCodec creates a JSON codec with pretty-printing (2-space indent).
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{Indent: defaultIndent}
}

// Encode implements Codec.Encode using JSON encoding.
func (c *JSONCodec) Encode(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	if c.Indent != "" {
		encoder.SetIndent("", c.Indent)
	}

	err := encoder.Encode(value)
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode using JSON decoding.
func (c *JSONCodec) Decode(r io.Reader, value any) error {
	decoder := json.NewDecoder(r)

	err := decoder.Decode(value)
	if err != nil {
		return fmt.Errorf("json decode: %w", err)
	}

	return nil
}

// Extension implements Codec.Extension for JSON files.
func (c *JSONCodec) Extension() string {
	return jsonExtension
}

// YAMLCodec implements Codec using YAML encoding.
type YAMLCodec struct{}

// NewYAMLCodec creates a YAML codec.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Encode implements Codec.Encode using YAML encoding.
func (c *YAMLCodec) Encode(w io.Writer, value any) error {
	encoder := yaml.NewEncoder(w)

	err := encoder.Encode(value)
	if err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}

	return encoder.Close()
}

// Decode implements Codec.Decode using YAML decoding.
func (c *YAMLCodec) Decode(r io.Reader, value any) error {
	decoder := yaml.NewDecoder(r)

	err := decoder.Decode(value)
	if err != nil {
		return fmt.Errorf("yaml decode: %w", err)
	}

	return nil
}

// Extension implements Codec.Extension for YAML files.
func (c *YAMLCodec) Extension() string {
	return yamlExtension
}

// LZ4Codec wraps another codec with LZ4 stream compression. Archived
// bundles for long windows shrink considerably; the inner encoding stays
// inspectable after a plain lz4 decompress.
type LZ4Codec struct {
	inner Codec
}

// NewLZ4Codec creates an LZ4-compressed codec around inner.
func NewLZ4Codec(inner Codec) *LZ4Codec {
	return &LZ4Codec{inner: inner}
}

// Encode implements Codec.Encode, compressing the inner encoding.
func (c *LZ4Codec) Encode(w io.Writer, value any) error {
	compressor := lz4.NewWriter(w)

	err := c.inner.Encode(compressor, value)
	if err != nil {
		return err
	}

	closeErr := compressor.Close()
	if closeErr != nil {
		return fmt.Errorf("lz4 close: %w", closeErr)
	}

	return nil
}

// Decode implements Codec.Decode, decompressing before the inner decode.
func (c *LZ4Codec) Decode(r io.Reader, value any) error {
	return c.inner.Decode(lz4.NewReader(r), value)
}

// Extension implements Codec.Extension, stacking ".lz4" on the inner
// extension.
func (c *LZ4Codec) Extension() string {
	return c.inner.Extension() + lz4Extension
}
