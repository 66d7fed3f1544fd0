package resultstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/localrivet/textsummary/internal/errortypes"
	"gopkg.in/yaml.v3"
)

// WriteDocument writes v to path as YAML when the extension is .yaml or
// .yml and as indented JSON otherwise. Parent directories are created.
func WriteDocument(path string, v any) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(v)
	default:
		data, err = json.MarshalIndent(v, "", "    ")
		data = append(data, '\n')
	}
	if err != nil {
		return errortypes.InternalError(err, "failed to encode results document").WithField("path", path)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errortypes.InternalError(err, fmt.Sprintf("failed to create directory %s", dir))
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errortypes.InternalError(err, "failed to write results document").WithField("path", path)
	}
	return nil
}

// ReadDocument decodes a document written by WriteDocument into v.
func ReadDocument(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errortypes.InternalError(err, "failed to read results document").WithField("path", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	default:
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return errortypes.InternalError(err, "failed to decode results document").WithField("path", path)
	}
	return nil
}
