package parser

import (
	"io"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"

	"github.com/imishinist/n8n-timings/internal/models"
)

func ParseYAMLExecution(reader io.Reader) (*models.ExecutionDocument, error) {
	var node yaml.Node
	decoder := yaml.NewDecoder(reader)

	if err := decoder.Decode(&node); err != nil {
		if err == io.EOF {
			return Document(nil), nil
		}
		return nil, errors.Annotate(err, "failed to parse YAML execution")
	}

	return Document(fromYAMLNode(&node)), nil
}
