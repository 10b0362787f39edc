package golden

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gohugoio/hashstructure"
	"gopkg.in/yaml.v3"
)

// Version is the current golden envelope format.
const Version = 1

// Format selects the on-disk representation of a golden file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) ext() string {
	if f == FormatYAML {
		return ".golden.yaml"
	}
	return ".golden.json"
}

// File is the golden envelope. Data holds the recorded value as JSON no
// matter which format the file itself uses.
type File struct {
	Version    int             `json:"version"`
	ID         string          `json:"id"`
	RecordedAt time.Time       `json:"recorded_at"`
	Checksum   uint64          `json:"checksum"`
	Data       json.RawMessage `json:"data"`
}

// yamlFile mirrors File for the YAML representation, carrying Data as a
// decoded tree so the file stays human-readable.
type yamlFile struct {
	Version    int       `yaml:"version"`
	ID         string    `yaml:"id"`
	RecordedAt time.Time `yaml:"recorded_at"`
	Checksum   uint64    `yaml:"checksum"`
	Data       any       `yaml:"data"`
}

func encodeFile(f File, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var data any
		if err := json.Unmarshal(f.Data, &data); err != nil {
			return nil, fmt.Errorf("decoding golden data: %w", err)
		}
		return yaml.Marshal(yamlFile{
			Version:    f.Version,
			ID:         f.ID,
			RecordedAt: f.RecordedAt,
			Checksum:   f.Checksum,
			Data:       data,
		})
	default:
		out, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}
}

func decodeFile(raw []byte, format Format) (File, error) {
	switch format {
	case FormatYAML:
		var y yamlFile
		if err := yaml.Unmarshal(raw, &y); err != nil {
			return File{}, fmt.Errorf("decoding golden file: %w", err)
		}
		data, err := json.Marshal(y.Data)
		if err != nil {
			return File{}, fmt.Errorf("re-encoding golden data: %w", err)
		}
		return File{
			Version:    y.Version,
			ID:         y.ID,
			RecordedAt: y.RecordedAt,
			Checksum:   y.Checksum,
			Data:       data,
		}, nil
	default:
		var f File
		if err := json.Unmarshal(raw, &f); err != nil {
			return File{}, fmt.Errorf("decoding golden file: %w", err)
		}
		return f, nil
	}
}

// fingerprint hashes the decoded data tree, not the raw bytes, so
// formatting and key order never change the checksum.
func fingerprint(data json.RawMessage) (uint64, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, fmt.Errorf("decoding golden data: %w", err)
	}
	return hashstructure.Hash(v, nil)
}
