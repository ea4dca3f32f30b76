package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	gyaml "github.com/goccy/go-yaml"
	"github.com/mcncl/jsonedit/internal/models"
	"github.com/pmezard/go-difflib/difflib"
)

// Format selects the output syntax.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DefaultIndent is used when no indent is configured.
const DefaultIndent = 2

// Formatter renders JSON values as text, keeping object member order.
type Formatter struct {
	format Format
	indent int
}

// NewFormatter creates a Formatter producing JSON with two-space indent.
func NewFormatter() *Formatter {
	return &Formatter{format: FormatJSON, indent: DefaultIndent}
}

// NewFormatterWith creates a Formatter for the given syntax. An indent of 0
// gives compact JSON; YAML always indents at least one space.
func NewFormatterWith(format Format, indent int) (*Formatter, error) {
	switch format {
	case FormatJSON, FormatYAML:
	case "":
		format = FormatJSON
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
	if indent < 0 {
		return nil, fmt.Errorf("indent must not be negative, got %d", indent)
	}
	return &Formatter{format: format, indent: indent}, nil
}

// Format renders v. The output ends with a newline.
func (f *Formatter) Format(v models.JSONValue) (string, error) {
	if f.format == FormatYAML {
		return f.formatYAML(v)
	}
	return f.formatJSON(v)
}

func (f *Formatter) formatJSON(v models.JSONValue) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if f.indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", f.indent))
	}
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return buf.String(), nil
}

func (f *Formatter) formatYAML(v models.JSONValue) (string, error) {
	indent := f.indent
	if indent < 1 {
		indent = DefaultIndent
	}
	out, err := gyaml.MarshalWithOptions(toYAML(v), gyaml.Indent(indent), gyaml.IndentSequence(true))
	if err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	return string(out), nil
}

// toYAML converts the model into types go-yaml encodes in order.
func toYAML(v models.JSONValue) interface{} {
	switch val := v.(type) {
	case models.JSONObject:
		ms := make(gyaml.MapSlice, 0, len(val))
		for _, m := range val {
			ms = append(ms, gyaml.MapItem{Key: m.Key, Value: toYAML(m.Value)})
		}
		return ms
	case models.JSONArray:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = toYAML(e)
		}
		return out
	case json.Number:
		return yamlNumber(val)
	default:
		return v
	}
}

// yamlNumber writes a JSON number with its original spelling.
type yamlNumber json.Number

func (n yamlNumber) MarshalYAML() ([]byte, error) {
	return []byte(n), nil
}

// Diff returns a unified diff between two renderings. It is empty when the
// texts are equal.
func Diff(before, after, fromName, toName string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: fromName,
		ToFile:   toName,
		Context:  3,
	})
}
