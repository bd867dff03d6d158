// Package serde reads and writes conversation transcripts as YAML.
// Documents are validated against a JSON schema before they are decoded, so
// malformed transcripts fail loudly with every violation listed instead of
// silently producing half-empty turns.
package serde

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/go-go-golems/grillo/pkg/memory"
)

// TurnRecord is the serialized form of one saved turn.
type TurnRecord struct {
	Inputs  memory.TurnInputs  `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Outputs memory.TurnOutputs `yaml:"outputs,omitempty" json:"outputs,omitempty"`
}

// Transcript is an ordered sequence of turn records.
type Transcript struct {
	ID    string       `yaml:"id,omitempty" json:"id,omitempty"`
	Turns []TurnRecord `yaml:"turns" json:"turns"`
}

const transcriptSchema = `{
  "type": "object",
  "properties": {
    "id": { "type": "string" },
    "turns": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "inputs": { "type": "object" },
          "outputs": { "type": "object" }
        },
        "additionalProperties": false
      }
    }
  },
  "required": ["turns"],
  "additionalProperties": false
}`

// Validate checks a decoded YAML document against the transcript schema.
func Validate(doc any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(transcriptSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return errors.Wrap(err, "failed to validate transcript")
	}
	if result.Valid() {
		return nil
	}
	descriptions := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		descriptions = append(descriptions, desc.String())
	}
	return errors.Errorf("invalid transcript: %s", strings.Join(descriptions, "; "))
}

// FromYAML validates and unmarshals a transcript.
func FromYAML(b []byte) (*Transcript, error) {
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse transcript YAML")
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	var t Transcript
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, errors.Wrap(err, "failed to decode transcript")
	}
	return &t, nil
}

// ToYAML marshals a transcript.
func ToYAML(t *Transcript) ([]byte, error) {
	if t == nil {
		return []byte("{}"), nil
	}
	return yaml.Marshal(t)
}

// LoadYAML reads a transcript from a YAML file.
func LoadYAML(path string) (*Transcript, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return FromYAML(b)
}

// SaveYAML writes a transcript to a YAML file.
func SaveYAML(path string, t *Transcript) error {
	data, err := ToYAML(t)
	if err != nil {
		return errors.Wrap(err, "failed to marshal transcript")
	}
	return os.WriteFile(path, data, 0o644)
}
