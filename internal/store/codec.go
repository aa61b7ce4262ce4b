package store

import (
	"bytes"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Codec converts between bytes and a Document.
type Codec interface {
	Name() string
	Unmarshal(data []byte) (Document, error)
	Marshal(doc Document) ([]byte, error)
}

// TOML is the Codec for Codex configuration files.
type TOML struct{}

func (TOML) Name() string { return "toml" }

func (TOML) Unmarshal(data []byte) (Document, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return normalizeMap(raw), nil
}

func (TOML) Marshal(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(false)
	if err := enc.Encode(map[string]any(doc)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// YAML is the Codec for Goose configuration files and registry entries.
type YAML struct{}

func (YAML) Name() string { return "yaml" }

func (YAML) Unmarshal(data []byte) (Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return Document{}, nil
	}
	m, ok := asMap(raw)
	if !ok {
		return nil, &yaml.TypeError{Errors: []string{"top-level value is not a mapping"}}
	}
	return Document(m), nil
}

func (YAML) Marshal(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any(doc)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
