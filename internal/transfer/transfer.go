// Package transfer reads and writes task collections for export and import.
package transfer

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/BuzzLyutic/taskboard/internal/model"
)

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatOf picks the format from a file extension, defaulting to JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

func ParseFormat(v string) (Format, error) {
	switch f := Format(strings.ToLower(v)); f {
	case JSON, YAML:
		return f, nil
	case "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown format %q", v)
}

func Encode(w io.Writer, tasks []model.Task, f Format) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	switch f {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tasks); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}

func Decode(r io.Reader, f Format) ([]model.Task, error) {
	var tasks []model.Task
	switch f {
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&tasks); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&tasks); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}
