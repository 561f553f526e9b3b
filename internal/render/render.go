// Package render writes page payloads in a machine-readable format.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Renderer writes a payload to w.
type Renderer interface {
	Render(w io.Writer, v any) error
}

// Formats lists the accepted format names.
func Formats() []string {
	return []string{FormatJSON, FormatYAML, FormatTOML}
}

// New returns the renderer for format. An empty format means YAML.
func New(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		return jsonRenderer{}, nil
	case "", FormatYAML, "yml":
		return yamlRenderer{}, nil
	case FormatTOML:
		return tomlRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected one of %s)", format, strings.Join(Formats(), ", "))
	}
}

type jsonRenderer struct{}

func (jsonRenderer) Render(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type yamlRenderer struct{}

func (yamlRenderer) Render(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

type tomlRenderer struct{}

func (tomlRenderer) Render(w io.Writer, v any) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(v)
}
