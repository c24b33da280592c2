package parser

import (
	"encoding/json"
	"io"

	"github.com/juju/errors"

	"github.com/imishinist/n8n-timings/internal/models"
)

// ParseJSONExecution decodes an execution record. Key order is preserved so
// nodes keep the order in which the engine reported them.
func ParseJSONExecution(reader io.Reader) (*models.ExecutionDocument, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()

	tree, err := decodeJSONValue(decoder)
	if err != nil {
		return nil, errors.Annotate(err, "failed to parse JSON execution")
	}

	return Document(tree), nil
}
