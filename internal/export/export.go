// Package export renders stored spec records as scene text, JSON or YAML and
// reads the JSON and YAML forms back.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"proant/internal/model"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

func Formats() []string {
	return []string{FormatText, FormatJSON, FormatYAML}
}

// NormalizeFormat canonicalizes a format name; the empty name is text.
func NormalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text", "txt", "pbtxt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}

// Write renders rec to w. Text writes only the scene config.
func Write(w io.Writer, format string, rec model.SpecRecord) error {
	format, err := NormalizeFormat(format)
	if err != nil {
		return err
	}
	if format == FormatText {
		_, err := io.WriteString(w, rec.MessageStr)
		return err
	}
	return Encode(w, format, rec)
}

// Encode writes v as indented JSON or YAML.
func Encode(w io.Writer, format string, v any) error {
	format, err := NormalizeFormat(format)
	if err != nil {
		return err
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("cannot encode %T as %s", v, format)
	}
}

// Read decodes a JSON or YAML record.
func Read(r io.Reader, format string) (model.SpecRecord, error) {
	format, err := NormalizeFormat(format)
	if err != nil {
		return model.SpecRecord{}, err
	}
	var rec model.SpecRecord
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&rec)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&rec)
	default:
		return model.SpecRecord{}, fmt.Errorf("cannot read a spec record from %s", format)
	}
	if err != nil {
		return model.SpecRecord{}, fmt.Errorf("decode %s spec: %w", format, err)
	}
	return rec, nil
}

// FormatFromPath guesses a format from a file extension.
func FormatFromPath(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML
	default:
		return FormatText
	}
}
