package parser

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/errors"

	"github.com/imishinist/n8n-timings/internal/models"
)

// ParseFile reads an execution record from disk, choosing the decoder by
// file extension.
func ParseFile(path string) (*models.ExecutionDocument, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to open file %s", path)
	}
	defer file.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return ParseJSONExecution(file)
	case ".yaml", ".yml":
		return ParseYAMLExecution(file)
	default:
		return nil, errors.NotSupportedf("file format %s (supported: .json, .yaml, .yml)", ext)
	}
}
