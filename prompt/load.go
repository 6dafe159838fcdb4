package prompt

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads templates from a JSON or YAML file. The format is chosen by
// extension: ".json" is JSON, anything else is YAML. The file is a flat
// key-to-template mapping.
func Load(path string) (Templates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}

// ParseJSON decodes a flat JSON object of templates.
func ParseJSON(data []byte) (Templates, error) {
	t := Templates{}
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse prompts json: %w", err)
	}
	return t, nil
}

// ParseYAML decodes a flat YAML mapping of templates.
func ParseYAML(data []byte) (Templates, error) {
	t := Templates{}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse prompts yaml: %w", err)
	}
	return t, nil
}
