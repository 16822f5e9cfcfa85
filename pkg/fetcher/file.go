package fetcher

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadFile reads feature definitions from a local JSON or YAML file and
// returns them as a raw JSON object keyed by feature id, ready for the
// evaluation client. Intended for local development and tests where no
// feature server is available.
func LoadFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidPayload, err)
	}

	switch filepath.Ext(path) {
	case ".json":
		var features map[string]json.RawMessage
		if err := json.Unmarshal(raw, &features); err != nil {
			return nil, errors.Join(ErrInvalidPayload, err)
		}
		return json.Marshal(features)
	case ".yaml", ".yml":
		var features map[string]any
		if err := yaml.Unmarshal(raw, &features); err != nil {
			return nil, errors.Join(ErrInvalidPayload, err)
		}
		return json.Marshal(features)
	default:
		return nil, ErrUnsupportedFile
	}
}
